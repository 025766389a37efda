// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package reservationsrp

import (
	"context"
	"time"

	"github.com/bmoradi/fleetrent/pkg/adapter/db/postgres"
	"github.com/bmoradi/fleetrent/pkg/core/model"
	"github.com/bmoradi/fleetrent/pkg/core/repo"
	"github.com/google/uuid"
)

// Repo adapts the checkout sessions queries to the repo.Reservations
// interface, guiding them with a borrowed connection or an ongoing
// transaction.
type Repo struct {
}

// New instantiates a reservations Repo.
func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

// Conn takes a database connection and returns the reservations
// queryer over it.
func (rsv *Repo) Conn(c repo.Conn) repo.ReservationsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) GetByID(
	ctx context.Context, sid uuid.UUID,
) (*model.CheckoutSession, error) {
	return GetByID(ctx, cq.Conn, sid)
}

func (cq connQueryer) List(
	ctx context.Context,
	status model.ReservationStatus,
	offset, limit int,
) ([]model.CheckoutSession, int64, error) {
	return List(ctx, cq.Conn, status, offset, limit)
}

func (cq connQueryer) SubmitSchedule(
	ctx context.Context,
	sid uuid.UUID,
	date time.Time,
	pickupTime string,
) (*model.CheckoutSession, error) {
	return SubmitSchedule(ctx, cq.Conn, sid, date, pickupTime)
}

func (cq connQueryer) ConfirmPayment(
	ctx context.Context,
	sid uuid.UUID,
	method model.PaymentMethod,
	paymentRef string,
	total int64,
) (*model.CheckoutSession, error) {
	return ConfirmPayment(ctx, cq.Conn, sid, method, paymentRef, total)
}

func (cq connQueryer) UpdateStatus(
	ctx context.Context,
	sid uuid.UUID,
	from, to model.ReservationStatus,
) (*model.CheckoutSession, error) {
	return UpdateStatus(ctx, cq.Conn, sid, from, to)
}

func (cq connQueryer) UpgradeCar(
	ctx context.Context,
	sid uuid.UUID,
	car model.SelectedCar,
	total int64,
) (*model.CheckoutSession, error) {
	// the car line rewrite must stay atomic with the session update
	var s *model.CheckoutSession
	err := cq.Conn.Tx(
		ctx, func(ctx context.Context, tx repo.Tx) error {
			var err error
			s, err = UpgradeCar(
				ctx, tx.(*postgres.Tx), sid, car, total,
			)
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (cq connQueryer) RecordCheckIn(
	ctx context.Context,
	sid uuid.UUID,
	report model.CheckInReport,
) (*model.CheckoutSession, error) {
	return RecordCheckIn(ctx, cq.Conn, sid, report)
}

type txQueryer struct {
	*postgres.Tx
}

// Tx takes an ongoing transaction and returns the reservations
// queryer joining it.
func (rsv *Repo) Tx(tx repo.Tx) repo.ReservationsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) CreateWithItems(
	ctx context.Context, s *model.CheckoutSession,
) (*model.CheckoutSession, error) {
	return CreateWithItems(ctx, tq.Tx, s)
}

func (tq txQueryer) CompleteAssignment(
	ctx context.Context, sid, vid uuid.UUID,
) (*model.CheckoutSession, error) {
	return CompleteAssignment(ctx, tq.Tx, sid, vid)
}

func (tq txQueryer) ClearAssignment(
	ctx context.Context, sid uuid.UUID,
) (*model.CheckoutSession, error) {
	return ClearAssignment(ctx, tq.Tx, sid)
}

func (tq txQueryer) GetByID(
	ctx context.Context, sid uuid.UUID,
) (*model.CheckoutSession, error) {
	return GetByID(ctx, tq.Tx, sid)
}

func (tq txQueryer) List(
	ctx context.Context,
	status model.ReservationStatus,
	offset, limit int,
) ([]model.CheckoutSession, int64, error) {
	return List(ctx, tq.Tx, status, offset, limit)
}

func (tq txQueryer) SubmitSchedule(
	ctx context.Context,
	sid uuid.UUID,
	date time.Time,
	pickupTime string,
) (*model.CheckoutSession, error) {
	return SubmitSchedule(ctx, tq.Tx, sid, date, pickupTime)
}

func (tq txQueryer) ConfirmPayment(
	ctx context.Context,
	sid uuid.UUID,
	method model.PaymentMethod,
	paymentRef string,
	total int64,
) (*model.CheckoutSession, error) {
	return ConfirmPayment(ctx, tq.Tx, sid, method, paymentRef, total)
}

func (tq txQueryer) UpdateStatus(
	ctx context.Context,
	sid uuid.UUID,
	from, to model.ReservationStatus,
) (*model.CheckoutSession, error) {
	return UpdateStatus(ctx, tq.Tx, sid, from, to)
}

func (tq txQueryer) UpgradeCar(
	ctx context.Context,
	sid uuid.UUID,
	car model.SelectedCar,
	total int64,
) (*model.CheckoutSession, error) {
	return UpgradeCar(ctx, tq.Tx, sid, car, total)
}

func (tq txQueryer) RecordCheckIn(
	ctx context.Context,
	sid uuid.UUID,
	report model.CheckInReport,
) (*model.CheckoutSession, error) {
	return RecordCheckIn(ctx, tq.Tx, sid, report)
}
