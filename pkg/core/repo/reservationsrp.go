// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"
	"time"

	"github.com/bmoradi/fleetrent/pkg/core/model"
	"github.com/google/uuid"
)

// ReservationsConnQueryer is the reservations repository interface
// when its queries are executed over a single database connection.
type ReservationsConnQueryer interface {
	ReservationsQueryer
}

// ReservationsTxQueryer is the reservations repository interface when
// its queries join an ongoing database transaction. The operations
// which must be atomic with other writes (session creation together
// with its line items, or the session side of a vehicle assignment)
// are only available in a transaction.
type ReservationsTxQueryer interface {
	ReservationsQueryer

	// CreateWithItems persists the s session and its line items as
	// one logical write. Either the session row and all of its
	// cart_items child rows commit together, or none of them do;
	// a session is never left orphaned without its items.
	// The returned session carries the generated id, reservation
	// number, and timestamps.
	CreateWithItems(
		ctx context.Context, s *model.CheckoutSession,
	) (*model.CheckoutSession, error)

	// CompleteAssignment sets the assigned vehicle and flips the
	// session status to completed, guarded on the current status
	// being approved or check_in_in_progress and on no vehicle being
	// assigned yet. A failed guard is reported as a conflict.
	CompleteAssignment(
		ctx context.Context, sid, vid uuid.UUID,
	) (*model.CheckoutSession, error)

	// ClearAssignment removes the assigned vehicle from a session
	// and moves it back to approved, as the inverse of
	// CompleteAssignment.
	ClearAssignment(
		ctx context.Context, sid uuid.UUID,
	) (*model.CheckoutSession, error)
}

// ReservationsQueryer is the reservations repository interface,
// supporting the checkout session store operations. All status
// mutations are conditional updates (compare-and-set on the current
// status), so two concurrent admin actions against one session cannot
// both win silently: the loser observes the already-updated status
// and either no-ops or reports a conflict.
type ReservationsQueryer interface {
	// GetByID returns one session by its id.
	GetByID(
		ctx context.Context, sid uuid.UUID,
	) (*model.CheckoutSession, error)

	// List returns sessions filtered by the optional status, most
	// recent first, with the total number of matching rows.
	List(
		ctx context.Context,
		status model.ReservationStatus,
		offset, limit int,
	) ([]model.CheckoutSession, int64, error)

	// SubmitSchedule sets the pickup date and time, moving the
	// session from draft to scheduled.
	SubmitSchedule(
		ctx context.Context,
		sid uuid.UUID,
		date time.Time,
		pickupTime string,
	) (*model.CheckoutSession, error)

	// ConfirmPayment records the payment method, the gateway intent
	// reference (empty for store payment), and the recomputed total,
	// moving the session from scheduled to pending_approval.
	ConfirmPayment(
		ctx context.Context,
		sid uuid.UUID,
		method model.PaymentMethod,
		paymentRef string,
		total int64,
	) (*model.CheckoutSession, error)

	// UpdateStatus moves the session from the `from` status to the
	// `to` status. Requesting the status the session already has is
	// an idempotent no-op. Any other mismatch between `from` and the
	// stored status is reported as a conflict carrying an
	// InvalidTransitionError.
	UpdateStatus(
		ctx context.Context,
		sid uuid.UUID,
		from, to model.ReservationStatus,
	) (*model.CheckoutSession, error)

	// UpgradeCar replaces the selected car and persists the
	// recomputed total in the same conditional update, guarded on
	// the status being pending_approval or approved and on no
	// vehicle being assigned yet.
	UpgradeCar(
		ctx context.Context,
		sid uuid.UUID,
		car model.SelectedCar,
		total int64,
	) (*model.CheckoutSession, error)

	// RecordCheckIn stores the check-in artifacts, moving the
	// session from approved to check_in_in_progress.
	RecordCheckIn(
		ctx context.Context,
		sid uuid.UUID,
		report model.CheckInReport,
	) (*model.CheckoutSession, error)
}

// Reservations is the checkout sessions repository which provides the
// ReservationsQueryer interface over a connection or a transaction.
type Reservations interface {
	Conn(Conn) ReservationsConnQueryer
	Tx(Tx) ReservationsTxQueryer
}
