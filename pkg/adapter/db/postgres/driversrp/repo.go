// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package driversrp

import (
	"context"

	"github.com/bmoradi/fleetrent/pkg/adapter/db/postgres"
	"github.com/bmoradi/fleetrent/pkg/core/model"
	"github.com/bmoradi/fleetrent/pkg/core/repo"
	"github.com/google/uuid"
)

// Repo adapts the drivers queries to the repo.Drivers interface.
type Repo struct {
}

// New instantiates a drivers Repo.
func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

// Conn takes a database connection and returns the drivers queryer
// over it.
func (drv *Repo) Conn(c repo.Conn) repo.DriversConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Create(
	ctx context.Context, d *model.Driver,
) (*model.Driver, error) {
	return Create(ctx, cq.Conn, d)
}

func (cq connQueryer) GetByID(
	ctx context.Context, did uuid.UUID,
) (*model.Driver, error) {
	return GetByID(ctx, cq.Conn, did)
}

func (cq connQueryer) UpdateKYC(
	ctx context.Context, d *model.Driver,
) (*model.Driver, error) {
	return UpdateKYC(ctx, cq.Conn, d)
}

func (cq connQueryer) SetVerification(
	ctx context.Context,
	did uuid.UUID,
	vs model.VerificationStatus,
) (*model.Driver, error) {
	return SetVerification(ctx, cq.Conn, did, vs)
}

type txQueryer struct {
	*postgres.Tx
}

// Tx takes an ongoing transaction and returns the drivers queryer
// joining it.
func (drv *Repo) Tx(tx repo.Tx) repo.DriversTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Create(
	ctx context.Context, d *model.Driver,
) (*model.Driver, error) {
	return Create(ctx, tq.Tx, d)
}

func (tq txQueryer) GetByID(
	ctx context.Context, did uuid.UUID,
) (*model.Driver, error) {
	return GetByID(ctx, tq.Tx, did)
}

func (tq txQueryer) UpdateKYC(
	ctx context.Context, d *model.Driver,
) (*model.Driver, error) {
	return UpdateKYC(ctx, tq.Tx, d)
}

func (tq txQueryer) SetVerification(
	ctx context.Context,
	did uuid.UUID,
	vs model.VerificationStatus,
) (*model.Driver, error) {
	return SetVerification(ctx, tq.Tx, did, vs)
}
