// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package reservationsrs realizes the admin-facing reservations
// resource, allowing the reservation inspection, review decision, and
// upgrade REST APIs to be accepted and delegated to the reservation
// administration use case respectively.
package reservationsrs

import (
	"net/http"

	"github.com/bmoradi/fleetrent/pkg/adapter/restful/gin/serdser"
	"github.com/bmoradi/fleetrent/pkg/core/model"
	"github.com/bmoradi/fleetrent/pkg/core/usecase/reservationuc"
	"github.com/gin-gonic/gin"
)

type resource struct {
	resrv *reservationuc.UseCase
}

// Register instantiates a resource adapting the reservation
// administration use case instance with the relevant REST APIs
// including:
//  1. GET request to /api/fleetrent/v1/reservations
//     in order to list reservations with an optional status filter,
//  2. GET request to /api/fleetrent/v1/reservations/:sid
//     in order to fetch one reservation,
//  3. PATCH request to /api/fleetrent/v1/reservations/:sid
//     in order to approve, reject, return to review, or upgrade a
//     reservation, and
//  4. GET request to /api/fleetrent/v1/reservations/:sid/upgrades
//     in order to list the possible upgrade targets.
func Register(r *gin.RouterGroup, resrv *reservationuc.UseCase) {
	rs := &resource{resrv: resrv}
	r.GET("reservations", rs.ListReservations)
	r.GET("reservations/:sid", rs.GetReservation)
	r.PATCH("reservations/:sid", rs.UpdateReservation)
	r.GET("reservations/:sid/upgrades", rs.ListUpgrades)
}

func (rs *resource) ListReservations(c *gin.Context) {
	req := rs.DserListReq(c)
	if req == nil {
		return
	}
	ss, total, err := rs.resrv.List(
		c, req.Status, req.Offset, req.Limit,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reservations": ss,
		"total":        total,
	})
}

func (rs *resource) GetReservation(c *gin.Context) {
	sid, ok := rs.DserSessionID(c)
	if !ok {
		return
	}
	s, err := rs.resrv.Get(c, sid)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (rs *resource) UpdateReservation(c *gin.Context) {
	req := rs.DserUpdateReq(c)
	if req == nil {
		return
	}
	var s *model.CheckoutSession
	var err error
	switch req.Op {
	case "approve":
		s, err = rs.resrv.Approve(c, req.SessionID)
	case "reject":
		s, err = rs.resrv.Reject(c, req.SessionID)
	case "review":
		s, err = rs.resrv.ReturnToReview(c, req.SessionID)
	case "upgrade":
		s, err = rs.resrv.Upgrade(c, req.SessionID, req.GroupID)
	default:
		panic("unexpected op:" + req.Op)
	}
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (rs *resource) ListUpgrades(c *gin.Context) {
	sid, ok := rs.DserSessionID(c)
	if !ok {
		return
	}
	cs, err := rs.resrv.ListUpgradeCandidates(c, sid)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidates": cs})
}
