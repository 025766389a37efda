// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ReservationStatus specifies the lifecycle state of a checkout
// session. It is persisted as a string for readability of the
// database rows and the REST API responses.
type ReservationStatus string

// Valid values for the ReservationStatus enum.
const (
	StatusDraft           ReservationStatus = "draft"
	StatusScheduled       ReservationStatus = "scheduled"
	StatusPendingApproval ReservationStatus = "pending_approval"
	StatusApproved        ReservationStatus = "approved"
	StatusRejected        ReservationStatus = "rejected"
	StatusCheckIn         ReservationStatus = "check_in_in_progress"
	StatusCompleted       ReservationStatus = "completed"
)

// transitions encodes the directed graph of legal status changes.
// A rejected reservation may be returned to review, which is the only
// back-edge. The completed status is terminal.
var transitions = map[ReservationStatus][]ReservationStatus{
	StatusDraft:           {StatusScheduled},
	StatusScheduled:       {StatusPendingApproval},
	StatusPendingApproval: {StatusApproved, StatusRejected},
	StatusApproved:        {StatusCheckIn, StatusCompleted},
	StatusRejected:        {StatusPendingApproval},
	StatusCheckIn:         {StatusCompleted},
	StatusCompleted:       {},
}

// ErrUnknownStatus indicates that a given string may not be parsed
// as a valid/known reservation status.
var ErrUnknownStatus = errors.New("unknown reservation status")

// Validate returns nil if the ReservationStatus value is valid,
// otherwise the ErrUnknownStatus error will be returned.
func (s ReservationStatus) Validate() error {
	if _, ok := transitions[s]; !ok {
		return ErrUnknownStatus
	}
	return nil
}

// CanTransition reports whether moving from s to the `to` status is a
// legal edge of the reservation lifecycle graph. A self-transition is
// reported as legal because retried admin actions (e.g., a double
// approve) must be tolerated as no-ops rather than errors.
func (s ReservationStatus) CanTransition(to ReservationStatus) bool {
	if s == to {
		return true
	}
	for _, n := range transitions[s] {
		if n == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible from s.
func (s ReservationStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

// ParseReservationStatus parses the given string and returns a
// ReservationStatus, helping to deserialize it when reading a REST
// API request. For invalid strings, ErrUnknownStatus is returned.
func ParseReservationStatus(s string) (ReservationStatus, error) {
	rs := ReservationStatus(s)
	if err := rs.Validate(); err != nil {
		return "", err
	}
	return rs, nil
}

// SelectedCar holds the car group selection of a checkout session:
// the group the customer picked, the plan it is priced under, and the
// base fare for the whole rental period. The Price field excludes
// optionals and any online-payment discount.
type SelectedCar struct {
	GroupID    uuid.UUID `json:"group_id"`
	Category   string    `json:"category"`
	PlanType   string    `json:"plan_type"`
	PeriodDays int       `json:"period_days"`
	Price      int64     `json:"price"`
}

// SessionLine is one persisted line item of a checkout session.
// These rows are the durable counterpart of the ephemeral cart lines,
// so a session's financials stay reconstructable after the client
// cart is gone.
type SessionLine struct {
	Type       LineType `json:"type"`
	Name       string   `json:"name"`
	Quantity   int      `json:"quantity"`
	UnitPrice  int64    `json:"unit_price"`
	TotalPrice int64    `json:"total_price"`
}

// CheckInReport carries the artifacts captured when an approved
// reservation is checked in: physical inspection notes, the fuel
// level as a percentage, the odometer reading, and references to the
// uploaded inspection photos.
type CheckInReport struct {
	FuelLevel  int      `json:"fuel_level"`
	OdometerKM int64    `json:"odometer_km"`
	Notes      string   `json:"notes"`
	PhotoURLs  []string `json:"photo_urls"`
}

// CheckoutSession is the aggregate root of one rental reservation,
// from cart commitment through completion. Its TotalAmount always
// equals the selected car fare (minus the online-payment discount,
// when applicable) plus the sum of the optional line totals; every
// mutation of the car or the optionals recomputes and persists the
// new total in the same operation.
type CheckoutSession struct {
	ID                uuid.UUID         `json:"id"`
	ReservationNumber int64             `json:"reservation_number"`
	DriverID          *uuid.UUID        `json:"driver_id,omitempty"`
	Car               SelectedCar       `json:"selected_car"`
	Optionals         []SessionLine     `json:"selected_optionals"`
	PickupDate        *time.Time        `json:"pickup_date,omitempty"`
	PickupTime        string            `json:"pickup_time,omitempty"`
	PaymentMethod     PaymentMethod     `json:"payment_method,omitempty"`
	PaymentRef        string            `json:"payment_ref,omitempty"`
	TotalAmount       int64             `json:"total_amount"`
	Status            ReservationStatus `json:"status"`
	AssignedVehicleID *uuid.UUID        `json:"assigned_vehicle_id,omitempty"`
	CheckIn           *CheckInReport    `json:"check_in,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// OptionalsTotal returns the sum of the optional line totals.
func (s *CheckoutSession) OptionalsTotal() int64 {
	var sum int64
	for _, l := range s.Optionals {
		sum += l.TotalPrice
	}
	return sum
}
