// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package checkoutrs realizes the customer-facing checkout resource,
// allowing the cart commitment, schedule submission, and payment
// confirmation REST APIs to be accepted and delegated to the checkout
// use case respectively.
package checkoutrs

import (
	"net/http"

	"github.com/bmoradi/fleetrent/pkg/adapter/restful/gin/serdser"
	"github.com/bmoradi/fleetrent/pkg/core/usecase/checkoutuc"
	"github.com/gin-gonic/gin"
)

type resource struct {
	checkout *checkoutuc.UseCase
}

// Register instantiates a resource adapting the checkout use case
// instance with the relevant REST APIs including:
//  1. POST request to /api/fleetrent/v1/sessions
//     in order to commit a cart as a checkout session,
//  2. PATCH request to /api/fleetrent/v1/sessions/:sid/schedule
//     in order to submit the pickup date and time,
//  3. POST request to /api/fleetrent/v1/sessions/:sid/payment
//     in order to confirm the payment method,
//  4. GET request to /api/fleetrent/v1/sessions/:sid/payment
//     in order to poll the online payment status,
//  5. POST request to /api/fleetrent/v1/drivers
//     in order to register a driver,
//  6. PATCH request to /api/fleetrent/v1/drivers/:did/kyc
//     in order to submit the driver identity documents, and
//  7. PATCH request to /api/fleetrent/v1/drivers/:did/verification
//     in order to record the back office verification decision.
func Register(r *gin.RouterGroup, checkout *checkoutuc.UseCase) {
	rs := &resource{checkout: checkout}
	r.POST("sessions", rs.CreateSession)
	r.PATCH("sessions/:sid/schedule", rs.SubmitSchedule)
	r.POST("sessions/:sid/payment", rs.ConfirmPayment)
	r.GET("sessions/:sid/payment", rs.PaymentStatus)
	r.POST("drivers", rs.RegisterDriver)
	r.PATCH("drivers/:did/kyc", rs.SubmitKYC)
	r.PATCH("drivers/:did/verification", rs.SetVerification)
}

func (rs *resource) CreateSession(c *gin.Context) {
	req := rs.DserCreateSessionReq(c)
	if req == nil {
		return
	}
	s, err := rs.checkout.CreateSession(c, req.DriverID, req.Cart)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (rs *resource) SubmitSchedule(c *gin.Context) {
	req := rs.DserScheduleReq(c)
	if req == nil {
		return
	}
	s, err := rs.checkout.SubmitSchedule(
		c, req.SessionID, req.Date, req.Time,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (rs *resource) ConfirmPayment(c *gin.Context) {
	req := rs.DserPaymentReq(c)
	if req == nil {
		return
	}
	s, secret, err := rs.checkout.ConfirmPayment(
		c, req.SessionID, req.Method, req.CustomerRef,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session":       s,
		"client_secret": secret,
	})
}

func (rs *resource) PaymentStatus(c *gin.Context) {
	sid, ok := rs.DserSessionID(c)
	if !ok {
		return
	}
	st, err := rs.checkout.PaymentStatus(c, sid)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": st})
}

func (rs *resource) RegisterDriver(c *gin.Context) {
	d := rs.DserDriverReq(c)
	if d == nil {
		return
	}
	created, err := rs.checkout.RegisterDriver(c, d)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (rs *resource) SubmitKYC(c *gin.Context) {
	d := rs.DserKYCReq(c)
	if d == nil {
		return
	}
	updated, err := rs.checkout.SubmitKYC(c, d)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (rs *resource) SetVerification(c *gin.Context) {
	req := rs.DserVerificationReq(c)
	if req == nil {
		return
	}
	updated, err := rs.checkout.SetDriverVerification(
		c, req.DriverID, req.Status,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
