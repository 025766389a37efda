// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package fleetrs realizes the admin-facing fleet resource, allowing
// the vehicle candidate listing, assignment, release, and check-in
// REST APIs to be accepted and delegated to the fleet allocation use
// case respectively.
package fleetrs

import (
	"net/http"

	"github.com/bmoradi/fleetrent/pkg/adapter/restful/gin/serdser"
	"github.com/bmoradi/fleetrent/pkg/core/model"
	"github.com/bmoradi/fleetrent/pkg/core/usecase/fleetuc"
	"github.com/gin-gonic/gin"
)

type resource struct {
	fleet *fleetuc.UseCase
}

// Register instantiates a resource adapting the fleet allocation use
// case instance with the relevant REST APIs including:
//  1. GET request to /api/fleetrent/v1/fleet/candidates
//     in order to list the available vehicles of a car group or
//     of a reservation's car group,
//  2. POST request to /api/fleetrent/v1/reservations/:sid/vehicle
//     in order to assign a vehicle to a reservation,
//  3. DELETE request to /api/fleetrent/v1/reservations/:sid/vehicle
//     in order to release the assigned vehicle, and
//  4. POST request to /api/fleetrent/v1/reservations/:sid/checkin
//     in order to record the pickup inspection.
func Register(r *gin.RouterGroup, fleet *fleetuc.UseCase) {
	rs := &resource{fleet: fleet}
	r.GET("fleet/candidates", rs.ListCandidates)
	r.POST("reservations/:sid/vehicle", rs.AssignVehicle)
	r.DELETE("reservations/:sid/vehicle", rs.UnassignVehicle)
	r.POST("reservations/:sid/checkin", rs.CheckIn)
}

func (rs *resource) ListCandidates(c *gin.Context) {
	req := rs.DserCandidatesReq(c)
	if req == nil {
		return
	}
	var vs []model.FleetVehicle
	var err error
	if req.GroupID != nil {
		vs, err = rs.fleet.ListAvailable(c, *req.GroupID)
	} else {
		vs, err = rs.fleet.ListCandidates(c, *req.SessionID)
	}
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidates": vs})
}

func (rs *resource) AssignVehicle(c *gin.Context) {
	req := rs.DserAssignReq(c)
	if req == nil {
		return
	}
	s, err := rs.fleet.AssignVehicle(
		c, req.SessionID, req.VehicleID,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (rs *resource) UnassignVehicle(c *gin.Context) {
	sid, ok := rs.DserSessionID(c)
	if !ok {
		return
	}
	s, err := rs.fleet.UnassignVehicle(c, sid)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (rs *resource) CheckIn(c *gin.Context) {
	req := rs.DserCheckInReq(c)
	if req == nil {
		return
	}
	s, err := rs.fleet.CheckIn(
		c, req.SessionID, req.Report, req.Photos,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}
