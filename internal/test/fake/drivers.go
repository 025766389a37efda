// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fake

import (
	"context"
	"fmt"
	"time"

	"github.com/bmoradi/fleetrent/pkg/core/cerr"
	"github.com/bmoradi/fleetrent/pkg/core/model"
	"github.com/bmoradi/fleetrent/pkg/core/repo"
	"github.com/google/uuid"
)

// Drivers is an in-memory repo.Drivers implementation.
type Drivers struct {
	locker
	drivers map[uuid.UUID]*model.Driver
}

// NewDrivers creates an empty in-memory drivers repository.
func NewDrivers() *Drivers {
	return &Drivers{drivers: make(map[uuid.UUID]*model.Driver)}
}

// Conn returns the queryer interface of this fake repository.
func (r *Drivers) Conn(repo.Conn) repo.DriversConnQueryer {
	return r
}

// Tx returns the queryer interface of this fake repository.
func (r *Drivers) Tx(repo.Tx) repo.DriversTxQueryer {
	return r
}

func (r *Drivers) Create(
	ctx context.Context, d *model.Driver,
) (*model.Driver, error) {
	defer r.lock()()
	c := *d
	c.ID = uuid.New()
	c.Verification = model.VerificationPending
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.drivers[c.ID] = &c
	d2 := c
	return &d2, nil
}

func (r *Drivers) GetByID(
	ctx context.Context, did uuid.UUID,
) (*model.Driver, error) {
	defer r.lock()()
	d, ok := r.drivers[did]
	if !ok {
		return nil, cerr.NotFound(
			fmt.Errorf("driver %s does not exist", did),
		)
	}
	c := *d
	return &c, nil
}

func (r *Drivers) UpdateKYC(
	ctx context.Context, d *model.Driver,
) (*model.Driver, error) {
	defer r.lock()()
	cur, ok := r.drivers[d.ID]
	if !ok {
		return nil, cerr.NotFound(
			fmt.Errorf("driver %s does not exist", d.ID),
		)
	}
	cur.DocumentNumber = d.DocumentNumber
	cur.LicenseNumber = d.LicenseNumber
	cur.LicenseExpiry = d.LicenseExpiry
	cur.Verification = model.VerificationPending
	cur.UpdatedAt = time.Now()
	c := *cur
	return &c, nil
}

func (r *Drivers) SetVerification(
	ctx context.Context,
	did uuid.UUID,
	vs model.VerificationStatus,
) (*model.Driver, error) {
	defer r.lock()()
	cur, ok := r.drivers[did]
	if !ok {
		return nil, cerr.NotFound(
			fmt.Errorf("driver %s does not exist", did),
		)
	}
	cur.Verification = vs
	cur.UpdatedAt = time.Now()
	c := *cur
	return &c, nil
}
