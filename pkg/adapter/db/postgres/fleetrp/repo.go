// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fleetrp

import (
	"context"

	"github.com/bmoradi/fleetrent/pkg/adapter/db/postgres"
	"github.com/bmoradi/fleetrent/pkg/core/model"
	"github.com/bmoradi/fleetrent/pkg/core/repo"
	"github.com/google/uuid"
)

// Repo adapts the fleet vehicles queries to the repo.Fleet interface.
type Repo struct {
}

// New instantiates a fleet Repo.
func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

// Conn takes a database connection and returns the fleet queryer
// over it.
func (flt *Repo) Conn(c repo.Conn) repo.FleetConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) GetByID(
	ctx context.Context, vid uuid.UUID,
) (*model.FleetVehicle, error) {
	return GetByID(ctx, cq.Conn, vid)
}

func (cq connQueryer) ListAvailableByGroup(
	ctx context.Context, gid uuid.UUID,
) ([]model.FleetVehicle, error) {
	return ListAvailableByGroup(ctx, cq.Conn, gid)
}

type txQueryer struct {
	*postgres.Tx
}

// Tx takes an ongoing transaction and returns the fleet queryer
// joining it. Vehicle claims are only available here, so they stay
// atomic with the session update recording the assignment.
func (flt *Repo) Tx(tx repo.Tx) repo.FleetTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) GetByID(
	ctx context.Context, vid uuid.UUID,
) (*model.FleetVehicle, error) {
	return GetByID(ctx, tq.Tx, vid)
}

func (tq txQueryer) ListAvailableByGroup(
	ctx context.Context, gid uuid.UUID,
) ([]model.FleetVehicle, error) {
	return ListAvailableByGroup(ctx, tq.Tx, gid)
}

func (tq txQueryer) Claim(
	ctx context.Context, vid, gid uuid.UUID,
) (*model.FleetVehicle, error) {
	return Claim(ctx, tq.Tx, vid, gid)
}

func (tq txQueryer) Release(
	ctx context.Context, vid uuid.UUID,
) (*model.FleetVehicle, error) {
	return Release(ctx, tq.Tx, vid)
}
