// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package catalogrp

import (
	"context"

	"github.com/bmoradi/fleetrent/pkg/adapter/db/postgres"
	"github.com/bmoradi/fleetrent/pkg/core/model"
	"github.com/bmoradi/fleetrent/pkg/core/repo"
	"github.com/google/uuid"
)

// Repo adapts the catalog queries to the repo.Catalog interface.
type Repo struct {
}

// New instantiates a catalog Repo.
func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

// Conn takes a database connection and returns the catalog queryer
// over it.
func (cat *Repo) Conn(c repo.Conn) repo.CatalogConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) GetGroup(
	ctx context.Context, gid uuid.UUID,
) (*model.CarGroup, error) {
	return GetGroup(ctx, cq.Conn, gid)
}

func (cq connQueryer) GetFare(
	ctx context.Context,
	gid uuid.UUID,
	planType string,
	periodDays int,
) (*model.Fare, error) {
	return GetFare(ctx, cq.Conn, gid, planType, periodDays)
}

func (cq connQueryer) ListGroupsAbove(
	ctx context.Context, displayOrder int,
) ([]model.CarGroup, error) {
	return ListGroupsAbove(ctx, cq.Conn, displayOrder)
}

type txQueryer struct {
	*postgres.Tx
}

// Tx takes an ongoing transaction and returns the catalog queryer
// joining it.
func (cat *Repo) Tx(tx repo.Tx) repo.CatalogTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) GetGroup(
	ctx context.Context, gid uuid.UUID,
) (*model.CarGroup, error) {
	return GetGroup(ctx, tq.Tx, gid)
}

func (tq txQueryer) GetFare(
	ctx context.Context,
	gid uuid.UUID,
	planType string,
	periodDays int,
) (*model.Fare, error) {
	return GetFare(ctx, tq.Tx, gid, planType, periodDays)
}

func (tq txQueryer) ListGroupsAbove(
	ctx context.Context, displayOrder int,
) ([]model.CarGroup, error) {
	return ListGroupsAbove(ctx, tq.Tx, displayOrder)
}
