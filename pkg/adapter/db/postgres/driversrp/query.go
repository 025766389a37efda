// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package driversrp is the drivers repository. Rows are only ever
// inserted and updated; driver records are retained for audit and
// there is no delete query at all.
package driversrp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bmoradi/fleetrent/pkg/adapter/db/postgres"
	"github.com/bmoradi/fleetrent/pkg/core/cerr"
	"github.com/bmoradi/fleetrent/pkg/core/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gDriver struct {
	ID                 uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	FullName           string
	Email              string
	Phone              string
	DocumentNumber     string
	LicenseNumber      string
	LicenseExpiry      *time.Time
	VerificationStatus string
	CreatedAt          time.Time `gorm:"autoCreateTime"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime"`
}

func (gd *gDriver) TableName() string {
	return "driver_details"
}

func (gd *gDriver) Model() *model.Driver {
	return &model.Driver{
		ID:             gd.ID,
		FullName:       gd.FullName,
		Email:          gd.Email,
		Phone:          gd.Phone,
		DocumentNumber: gd.DocumentNumber,
		LicenseNumber:  gd.LicenseNumber,
		LicenseExpiry:  gd.LicenseExpiry,
		Verification: model.VerificationStatus(
			gd.VerificationStatus,
		),
		CreatedAt: gd.CreatedAt,
		UpdatedAt: gd.UpdatedAt,
	}
}

func Create[Q postgres.Queryer](
	ctx context.Context, q Q, d *model.Driver,
) (*model.Driver, error) {
	gdb := q.GORM(ctx)
	gd := &gDriver{
		FullName:           d.FullName,
		Email:              d.Email,
		Phone:              d.Phone,
		DocumentNumber:     d.DocumentNumber,
		LicenseNumber:      d.LicenseNumber,
		LicenseExpiry:      d.LicenseExpiry,
		VerificationStatus: string(model.VerificationPending),
	}
	if err := gdb.Create(gd).Error; err != nil {
		return nil, fmt.Errorf("creating driver: %w", err)
	}
	return gd.Model(), nil
}

func GetByID[Q postgres.Queryer](
	ctx context.Context, q Q, did uuid.UUID,
) (*model.Driver, error) {
	gdb := q.GORM(ctx)
	gd := &gDriver{}
	err := gdb.Where("id=?", did).First(gd).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, cerr.NotFound(
			fmt.Errorf("no driver with id %s", did),
		)
	case err != nil:
		return nil, fmt.Errorf("query: %w", err)
	}
	return gd.Model(), nil
}

// UpdateKYC replaces the identity document and license fields and
// resets the verification status to pending, so a fresh submission
// always goes through review again.
func UpdateKYC[Q postgres.Queryer](
	ctx context.Context, q Q, d *model.Driver,
) (*model.Driver, error) {
	gdb := q.GORM(ctx)
	var gds []gDriver
	res := gdb.Model(&gds).Clauses(clause.Returning{}).Select(
		"full_name", "email", "phone", "document_number",
		"license_number", "license_expiry", "verification_status",
	).Where("id=?", d.ID).Updates(gDriver{
		FullName:           d.FullName,
		Email:              d.Email,
		Phone:              d.Phone,
		DocumentNumber:     d.DocumentNumber,
		LicenseNumber:      d.LicenseNumber,
		LicenseExpiry:      d.LicenseExpiry,
		VerificationStatus: string(model.VerificationPending),
	})
	if err := res.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(gds) != 1 {
		return nil, cerr.NotFound(
			fmt.Errorf("no driver with id %s", d.ID),
		)
	}
	return gds[0].Model(), nil
}

func SetVerification[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	did uuid.UUID,
	vs model.VerificationStatus,
) (*model.Driver, error) {
	gdb := q.GORM(ctx)
	var gds []gDriver
	res := gdb.Model(&gds).Clauses(clause.Returning{}).Where(
		"id=?", did,
	).Update("verification_status", string(vs))
	if err := res.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(gds) != 1 {
		return nil, cerr.NotFound(
			fmt.Errorf("no driver with id %s", did),
		)
	}
	return gds[0].Model(), nil
}
