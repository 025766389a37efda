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

// CatalogConnQueryer is the catalog repository interface when its
// queries are executed over a single database connection.
type CatalogConnQueryer interface {
	CatalogQueryer
}

// CatalogTxQueryer is the catalog repository interface when its
// queries join an ongoing database transaction.
type CatalogTxQueryer interface {
	CatalogQueryer
}

// CatalogQueryer is the car groups and fares repository interface.
// The catalog is read-only from the reservation core's perspective;
// it is edited elsewhere.
type CatalogQueryer interface {
	// GetGroup returns one car group by its id.
	GetGroup(
		ctx context.Context, gid uuid.UUID,
	) (*model.CarGroup, error)

	// GetFare returns the fare of the gid group under the planType
	// plan for a periodDays long rental.
	GetFare(
		ctx context.Context,
		gid uuid.UUID,
		planType string,
		periodDays int,
	) (*model.Fare, error)

	// ListGroupsAbove returns the car groups ranked strictly higher
	// than the displayOrder rank, in ascending rank order. These are
	// the upgrade candidates of a group with that rank.
	ListGroupsAbove(
		ctx context.Context, displayOrder int,
	) ([]model.CarGroup, error)
}

// Catalog is the car groups and fares repository which provides the
// CatalogQueryer interface over a connection or a transaction.
type Catalog interface {
	Conn(Conn) CatalogConnQueryer
	Tx(Tx) CatalogTxQueryer
}
