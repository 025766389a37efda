// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package reservationsrs

import (
	"net/http"

	"github.com/bmoradi/fleetrent/pkg/adapter/restful/gin/serdser"
	"github.com/bmoradi/fleetrent/pkg/core/model"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
)

type rawListReq struct {
	Status string `form:"status" binding:"omitempty"`
	Offset int    `form:"offset" binding:"omitempty,gte=0"`
	Limit  int    `form:"limit" binding:"omitempty,gt=0,lte=100"`
}

type listReq struct {
	Status model.ReservationStatus
	Offset int
	Limit  int
}

func (rs *resource) DserListReq(c *gin.Context) *listReq {
	req := &rawListReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return nil
	}
	var errs map[string][]string
	defer func() {
		if errs != nil {
			c.JSON(http.StatusBadRequest, errs)
		}
	}()
	val := &listReq{Offset: req.Offset, Limit: req.Limit}
	if req.Status != "" {
		st, err := model.ParseReservationStatus(req.Status)
		if !serdser.Assert(
			&errs, err == nil, "status", errMsg(err),
		) {
			return nil
		}
		val.Status = st
	}
	return val
}

type rawUpdateReq struct {
	Op string `form:"op" binding:"required,oneof=approve reject review upgrade"`
}

type updateReq struct {
	SessionID uuid.UUID
	Op        string
	GroupID   uuid.UUID
}

func (rs *resource) DserUpdateReq(c *gin.Context) *updateReq {
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
	req := &rawUpdateReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return nil
	}
	val := &updateReq{SessionID: sid, Op: req.Op}
	if req.Op == "upgrade" {
		body := &struct {
			GroupID string `json:"group_id" binding:"required,uuid4"`
		}{}
		if ok := serdser.Bind(c, body, binding.JSON); !ok {
			return nil
		}
		gid, err := uuid.Parse(body.GroupID)
		if !serdser.Assert(
			&errs, err == nil,
			"group_id", "Field group_id is not UUID.",
		) {
			return nil
		}
		val.GroupID = gid
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

func errMsg(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
