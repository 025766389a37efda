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

// VehicleStatus specifies the availability of a physical fleet unit.
type VehicleStatus string

// Valid values for the VehicleStatus enum.
const (
	VehicleAvailable   VehicleStatus = "available"
	VehicleRented      VehicleStatus = "rented"
	VehicleMaintenance VehicleStatus = "maintenance"
)

// ErrUnknownVehicleStatus indicates that a given string may not be
// parsed as a valid/known vehicle status.
var ErrUnknownVehicleStatus = errors.New("unknown vehicle status")

// Validate returns nil if the VehicleStatus value is valid.
func (s VehicleStatus) Validate() error {
	switch s {
	case VehicleAvailable, VehicleRented, VehicleMaintenance:
		return nil
	default:
		return ErrUnknownVehicleStatus
	}
}

// ParseVehicleStatus parses the given string and returns a
// VehicleStatus. For invalid strings, ErrUnknownVehicleStatus will
// be returned.
func ParseVehicleStatus(s string) (VehicleStatus, error) {
	vs := VehicleStatus(s)
	if err := vs.Validate(); err != nil {
		return "", err
	}
	return vs, nil
}

// FleetVehicle is one physical car instance, distinct from the
// abstract car group it belongs to. The status field is the only
// piece of shared mutable state of the core: a vehicle is claimed by
// at most one active reservation at a time, enforced by a conditional
// status flip in the persistence layer.
type FleetVehicle struct {
	ID             uuid.UUID     `json:"id"`
	Plate          string        `json:"plate"`
	CarModel       string        `json:"car_model"`
	GroupID        uuid.UUID     `json:"group_id"`
	Status         VehicleStatus `json:"status"`
	CurrentKM      int64         `json:"current_km"`
	LastRevisionAt *time.Time    `json:"last_revision_at,omitempty"`
	NextRevisionAt *time.Time    `json:"next_revision_at,omitempty"`
}
