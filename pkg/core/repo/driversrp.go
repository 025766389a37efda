// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/bmoradi/fleetrent/pkg/core/model"
	"github.com/google/uuid"
)

// DriversConnQueryer is the drivers repository interface when its
// queries are executed over a single database connection.
type DriversConnQueryer interface {
	DriversQueryer
}

// DriversTxQueryer is the drivers repository interface when its
// queries join an ongoing database transaction.
type DriversTxQueryer interface {
	DriversQueryer
}

// DriversQueryer is the drivers repository interface. Driver records
// are never hard-deleted; they are retained for audit.
type DriversQueryer interface {
	// Create persists a new driver record and returns it with the
	// generated id and timestamps.
	Create(
		ctx context.Context, d *model.Driver,
	) (*model.Driver, error)

	// GetByID returns one driver by its id.
	GetByID(
		ctx context.Context, did uuid.UUID,
	) (*model.Driver, error)

	// UpdateKYC stores the identity document and license fields of a
	// driver and resets the verification status to pending, so a
	// fresh submission always goes through review again.
	UpdateKYC(
		ctx context.Context, d *model.Driver,
	) (*model.Driver, error)

	// SetVerification moves the driver verification status, as
	// decided by the back office.
	SetVerification(
		ctx context.Context,
		did uuid.UUID,
		vs model.VerificationStatus,
	) (*model.Driver, error)
}

// Drivers is the drivers repository which provides the DriversQueryer
// interface over a connection or a transaction.
type Drivers interface {
	Conn(Conn) DriversConnQueryer
	Tx(Tx) DriversTxQueryer
}
