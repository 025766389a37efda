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

// FleetConnQueryer is the fleet repository interface when its queries
// are executed over a single database connection.
type FleetConnQueryer interface {
	FleetQueryer
}

// FleetTxQueryer is the fleet repository interface when its queries
// join an ongoing database transaction. Claiming a vehicle is only
// available in a transaction because it must be atomic with the
// session update which records the assignment.
type FleetTxQueryer interface {
	FleetQueryer

	// Claim flips the vid vehicle from available to rented, guarded
	// on its current status and on it belonging to the gid group.
	// The conditional update is the optimistic lock which guarantees
	// at most one active reservation per vehicle: when the vehicle
	// was claimed concurrently, a conflict is reported and nothing
	// is changed.
	Claim(
		ctx context.Context, vid, gid uuid.UUID,
	) (*model.FleetVehicle, error)

	// Release flips the vid vehicle from rented back to available,
	// as the inverse of Claim.
	Release(
		ctx context.Context, vid uuid.UUID,
	) (*model.FleetVehicle, error)
}

// FleetQueryer is the fleet vehicles repository interface.
type FleetQueryer interface {
	// GetByID returns one vehicle by its id.
	GetByID(
		ctx context.Context, vid uuid.UUID,
	) (*model.FleetVehicle, error)

	// ListAvailableByGroup returns the available vehicles whose
	// model belongs to the gid group, ordered by plate. An empty
	// result is a normal, reportable state, not an error.
	ListAvailableByGroup(
		ctx context.Context, gid uuid.UUID,
	) ([]model.FleetVehicle, error)
}

// Fleet is the fleet vehicles repository which provides the
// FleetQueryer interface over a connection or a transaction.
type Fleet interface {
	Conn(Conn) FleetConnQueryer
	Tx(Tx) FleetTxQueryer
}
