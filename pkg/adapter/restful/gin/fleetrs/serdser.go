// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fleetrs

import (
	"io"
	"net/http"

	"github.com/bmoradi/fleetrent/pkg/adapter/restful/gin/serdser"
	"github.com/bmoradi/fleetrent/pkg/core/model"
	"github.com/bmoradi/fleetrent/pkg/core/usecase/fleetuc"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
)

type rawCandidatesReq struct {
	Group   string `form:"group" binding:"omitempty,uuid4"`
	Session string `form:"session" binding:"omitempty,uuid4"`
}

type candidatesReq struct {
	GroupID   *uuid.UUID
	SessionID *uuid.UUID
}

func (rs *resource) DserCandidatesReq(c *gin.Context) *candidatesReq {
	req := &rawCandidatesReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return nil
	}
	var errs map[string][]string
	defer func() {
		if errs != nil {
			c.JSON(http.StatusBadRequest, errs)
		}
	}()
	if !serdser.Assert(
		&errs, (req.Group == "") != (req.Session == ""),
		"group/session",
		"Exactly one of group and session is required.",
	) {
		return nil
	}
	val := &candidatesReq{}
	if req.Group != "" {
		gid, err := uuid.Parse(req.Group)
		if !serdser.Assert(
			&errs, err == nil,
			"group", "Query param group is not UUID.",
		) {
			return nil
		}
		val.GroupID = &gid
	} else {
		sid, err := uuid.Parse(req.Session)
		if !serdser.Assert(
			&errs, err == nil,
			"session", "Query param session is not UUID.",
		) {
			return nil
		}
		val.SessionID = &sid
	}
	return val
}

type rawAssignReq struct {
	VehicleID string `json:"vehicle_id" binding:"required,uuid4"`
}

type assignReq struct {
	SessionID uuid.UUID
	VehicleID uuid.UUID
}

func (rs *resource) DserAssignReq(c *gin.Context) *assignReq {
	var errs map[string][]string
	defer func() {
		if errs != nil {
			c.JSON(http.StatusBadRequest, errs)
		}
	}()
	sid, ok := rs.DserSessionID(c)
	if !ok {
		return nil
	}
	req := &rawAssignReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	vid, err := uuid.Parse(req.VehicleID)
	if !serdser.Assert(
		&errs, err == nil,
		"vehicle_id", "Field vehicle_id is not UUID.",
	) {
		return nil
	}
	return &assignReq{SessionID: sid, VehicleID: vid}
}

type rawCheckInReq struct {
	FuelLevel  int    `form:"fuel_level" binding:"gte=0,lte=100"`
	OdometerKM int64  `form:"odometer_km" binding:"gte=0"`
	Notes      string `form:"notes" binding:"omitempty"`
}

type checkInReq struct {
	SessionID uuid.UUID
	Report    model.CheckInReport
	Photos    []fleetuc.CheckInPhoto
}

// DserCheckInReq parses the multipart check-in form: the inspection
// fields plus any number of photo file parts under the "photos" name.
func (rs *resource) DserCheckInReq(c *gin.Context) *checkInReq {
	var errs map[string][]string
	defer func() {
		if errs != nil {
			c.JSON(http.StatusBadRequest, errs)
		}
	}()
	sid, ok := rs.DserSessionID(c)
	if !ok {
		return nil
	}
	req := &rawCheckInReq{}
	if ok := serdser.Bind(c, req, binding.FormMultipart); !ok {
		return nil
	}
	val := &checkInReq{
		SessionID: sid,
		Report: model.CheckInReport{
			FuelLevel:  req.FuelLevel,
			OdometerKM: req.OdometerKM,
			Notes:      req.Notes,
		},
	}
	form, err := c.MultipartForm()
	if !serdser.Assert(
		&errs, err == nil, "photos", "Malformed multipart form.",
	) {
		return nil
	}
	for _, fh := range form.File["photos"] {
		f, err := fh.Open()
		if !serdser.Assert(
			&errs, err == nil,
			"photos", "Unreadable photo part.",
		) {
			return nil
		}
		data, err := io.ReadAll(f)
		f.Close()
		if !serdser.Assert(
			&errs, err == nil,
			"photos", "Unreadable photo part.",
		) {
			return nil
		}
		val.Photos = append(val.Photos, fleetuc.CheckInPhoto{
			Name: fh.Filename,
			Data: data,
		})
	}
	return val
}

// DserSessionID parses the sid path parameter, reporting a bad
// request when it is not a well-formed UUID.
func (rs *resource) DserSessionID(c *gin.Context) (uuid.UUID, bool) {
	sid, err := uuid.Parse(c.Param("sid"))
	if err != nil {
		var errs map[string][]string
		serdser.AddErr(&errs, "sid", "Path param sid is not UUID.")
		c.JSON(http.StatusBadRequest, errs)
		return uuid.Nil, false
	}
	return sid, true
}
