// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package checkoutrs

import (
	"net/http"
	"time"

	"github.com/bmoradi/fleetrent/pkg/adapter/restful/gin/serdser"
	"github.com/bmoradi/fleetrent/pkg/core/model"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
)

type rawCarGroupLine struct {
	GroupID    string `json:"group_id" binding:"required,uuid4"`
	Category   string `json:"category" binding:"required"`
	PlanType   string `json:"plan_type" binding:"required"`
	PeriodDays int    `json:"period_days" binding:"required,gt=0"`
	Price      int64  `json:"price" binding:"required,gt=0"`
}

type rawOptionalLine struct {
	OptionalID string `json:"optional_id" binding:"required,uuid4"`
	Name       string `json:"name" binding:"required"`
	Count      int    `json:"count" binding:"required,gt=0"`
	Price      int64  `json:"price" binding:"gte=0"`
}

type rawInsuranceLine struct {
	PlanName string `json:"plan_name" binding:"required"`
	Price    int64  `json:"price" binding:"gte=0"`
}

type rawCreateSessionReq struct {
	DriverID  string            `json:"driver_id" binding:"omitempty,uuid4"`
	CarGroup  *rawCarGroupLine  `json:"car_group" binding:"required"`
	Optionals []rawOptionalLine `json:"optionals" binding:"omitempty,dive"`
	Insurance *rawInsuranceLine `json:"insurance" binding:"omitempty"`
}

type createSessionReq struct {
	DriverID *uuid.UUID
	Cart     *model.Cart
}

func (rs *resource) DserCreateSessionReq(
	c *gin.Context,
) *createSessionReq {
	req := &rawCreateSessionReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	var errs map[string][]string
	defer func() {
		if errs != nil {
			c.JSON(http.StatusBadRequest, errs)
		}
	}()
	val := &createSessionReq{Cart: &model.Cart{}}
	if req.DriverID != "" {
		did, err := uuid.Parse(req.DriverID)
		if !serdser.Assert(
			&errs, err == nil,
			"driver_id", "Field driver_id is not UUID.",
		) {
			return nil
		}
		val.DriverID = &did
	}
	gid, err := uuid.Parse(req.CarGroup.GroupID)
	if !serdser.Assert(
		&errs, err == nil,
		"car_group.group_id", "Field group_id is not UUID.",
	) {
		return nil
	}
	addErr := val.Cart.AddItem(model.CarGroupLine{
		GroupID:    gid,
		Category:   req.CarGroup.Category,
		PlanType:   req.CarGroup.PlanType,
		PeriodDays: req.CarGroup.PeriodDays,
		Price:      req.CarGroup.Price,
	})
	if !serdser.Assert(
		&errs, addErr == nil, "car_group", errMsg(addErr),
	) {
		return nil
	}
	for _, o := range req.Optionals {
		oid, err := uuid.Parse(o.OptionalID)
		if !serdser.Assert(
			&errs, err == nil,
			"optionals.optional_id",
			"Field optional_id is not UUID.",
		) {
			return nil
		}
		addErr := val.Cart.AddItem(model.OptionalLine{
			OptionalID: oid,
			Name:       o.Name,
			Count:      o.Count,
			Price:      o.Price,
		})
		if !serdser.Assert(
			&errs, addErr == nil, "optionals", errMsg(addErr),
		) {
			return nil
		}
	}
	if req.Insurance != nil {
		addErr := val.Cart.AddItem(model.InsuranceLine{
			PlanName: req.Insurance.PlanName,
			Price:    req.Insurance.Price,
		})
		if !serdser.Assert(
			&errs, addErr == nil, "insurance", errMsg(addErr),
		) {
			return nil
		}
	}
	return val
}

func errMsg(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

type rawScheduleReq struct {
	Date string `json:"pickup_date" binding:"required,datetime=2006-01-02"`
	Time string `json:"pickup_time" binding:"required,datetime=15:04"`
}

type scheduleReq struct {
	SessionID uuid.UUID
	Date      time.Time
	Time      string
}

func (rs *resource) DserScheduleReq(c *gin.Context) *scheduleReq {
	req := &rawScheduleReq{}
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
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	date, err := time.Parse(time.DateOnly, req.Date)
	if !serdser.Assert(
		&errs, err == nil,
		"pickup_date", "Field pickup_date is not a date.",
	) {
		return nil
	}
	return &scheduleReq{
		SessionID: sid,
		Date:      date,
		Time:      req.Time,
	}
}

type rawPaymentReq struct {
	Method      string `json:"method" binding:"required,oneof=online store"`
	CustomerRef string `json:"customer_ref" binding:"omitempty"`
}

type paymentReq struct {
	SessionID   uuid.UUID
	Method      model.PaymentMethod
	CustomerRef string
}

func (rs *resource) DserPaymentReq(c *gin.Context) *paymentReq {
	req := &rawPaymentReq{}
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
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	method, err := model.ParsePaymentMethod(req.Method)
	if !serdser.Assert(
		&errs, err == nil, "method", errMsg(err),
	) {
		return nil
	}
	return &paymentReq{
		SessionID:   sid,
		Method:      method,
		CustomerRef: req.CustomerRef,
	}
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

type rawDriverReq struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"omitempty"`
}

func (rs *resource) DserDriverReq(c *gin.Context) *model.Driver {
	req := &rawDriverReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	return &model.Driver{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
	}
}

type rawKYCReq struct {
	DocumentNumber string `json:"document_number" binding:"required"`
	LicenseNumber  string `json:"license_number" binding:"required"`
	LicenseExpiry  string `json:"license_expiry" binding:"required,datetime=2006-01-02"`
}

func (rs *resource) DserKYCReq(c *gin.Context) *model.Driver {
	var errs map[string][]string
	defer func() {
		if errs != nil {
			c.JSON(http.StatusBadRequest, errs)
		}
	}()
	did, err := uuid.Parse(c.Param("did"))
	if !serdser.Assert(
		&errs, err == nil, "did", "Path param did is not UUID.",
	) {
		return nil
	}
	req := &rawKYCReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	expiry, err := time.Parse(time.DateOnly, req.LicenseExpiry)
	if !serdser.Assert(
		&errs, err == nil,
		"license_expiry", "Field license_expiry is not a date.",
	) {
		return nil
	}
	return &model.Driver{
		ID:             did,
		DocumentNumber: req.DocumentNumber,
		LicenseNumber:  req.LicenseNumber,
		LicenseExpiry:  &expiry,
	}
}

type rawVerificationReq struct {
	Status string `json:"status" binding:"required,oneof=pending verified rejected"`
}

type verificationReq struct {
	DriverID uuid.UUID
	Status   model.VerificationStatus
}

func (rs *resource) DserVerificationReq(
	c *gin.Context,
) *verificationReq {
	var errs map[string][]string
	defer func() {
		if errs != nil {
			c.JSON(http.StatusBadRequest, errs)
		}
	}()
	did, err := uuid.Parse(c.Param("did"))
	if !serdser.Assert(
		&errs, err == nil, "did", "Path param did is not UUID.",
	) {
		return nil
	}
	req := &rawVerificationReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	return &verificationReq{
		DriverID: did,
		Status:   model.VerificationStatus(req.Status),
	}
}
