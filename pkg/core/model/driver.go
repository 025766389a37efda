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

// VerificationStatus specifies the KYC state of a driver record.
type VerificationStatus string

// Valid values for the VerificationStatus enum.
const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// ErrUnknownVerificationStatus indicates that a given string may not
// be parsed as a valid/known verification status.
var ErrUnknownVerificationStatus = errors.New(
	"unknown verification status",
)

// Validate returns nil if the VerificationStatus value is valid.
func (s VerificationStatus) Validate() error {
	switch s {
	case VerificationPending, VerificationVerified,
		VerificationRejected:
		return nil
	default:
		return ErrUnknownVerificationStatus
	}
}

// Driver is the identity of a renter. Records are created on the
// first checkout or by admin entry, updated on KYC submission, and
// never hard-deleted (they are retained for audit).
type Driver struct {
	ID             uuid.UUID          `json:"id"`
	FullName       string             `json:"full_name"`
	Email          string             `json:"email"`
	Phone          string             `json:"phone,omitempty"`
	DocumentNumber string             `json:"document_number,omitempty"`
	LicenseNumber  string             `json:"license_number,omitempty"`
	LicenseExpiry  *time.Time         `json:"license_expiry,omitempty"`
	Verification   VerificationStatus `json:"verification_status"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}
