// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fake

import (
	"context"
	"fmt"
	"sort"

	"github.com/bmoradi/fleetrent/pkg/core/cerr"
	"github.com/bmoradi/fleetrent/pkg/core/model"
	"github.com/bmoradi/fleetrent/pkg/core/repo"
	"github.com/google/uuid"
)

// Catalog is an in-memory, read-only repo.Catalog implementation
// holding car groups and their fares.
type Catalog struct {
	groups map[uuid.UUID]model.CarGroup
	fares  []model.Fare
}

// NewCatalog creates an in-memory catalog repository holding the
// given groups and fares.
func NewCatalog(
	groups []model.CarGroup, fares []model.Fare,
) *Catalog {
	c := &Catalog{
		groups: make(map[uuid.UUID]model.CarGroup),
		fares:  append([]model.Fare(nil), fares...),
	}
	for _, g := range groups {
		c.groups[g.ID] = g
	}
	return c
}

// Conn returns the queryer interface of this fake repository.
func (c *Catalog) Conn(repo.Conn) repo.CatalogConnQueryer {
	return c
}

// Tx returns the queryer interface of this fake repository.
func (c *Catalog) Tx(repo.Tx) repo.CatalogTxQueryer {
	return c
}

func (c *Catalog) GetGroup(
	ctx context.Context, gid uuid.UUID,
) (*model.CarGroup, error) {
	g, ok := c.groups[gid]
	if !ok {
		return nil, cerr.NotFound(
			fmt.Errorf("car group %s does not exist", gid),
		)
	}
	return &g, nil
}

func (c *Catalog) GetFare(
	ctx context.Context,
	gid uuid.UUID,
	planType string,
	periodDays int,
) (*model.Fare, error) {
	for _, f := range c.fares {
		if f.GroupID == gid && f.PlanType == planType &&
			f.PeriodDays == periodDays {
			f := f
			return &f, nil
		}
	}
	return nil, cerr.NotFound(fmt.Errorf(
		"no fare for group %s, plan %q, %d days",
		gid, planType, periodDays,
	))
}

func (c *Catalog) ListGroupsAbove(
	ctx context.Context, displayOrder int,
) ([]model.CarGroup, error) {
	var gs []model.CarGroup
	for _, g := range c.groups {
		if g.DisplayOrder > displayOrder {
			gs = append(gs, g)
		}
	}
	sort.Slice(gs, func(i, j int) bool {
		return gs[i].DisplayOrder < gs[j].DisplayOrder
	})
	return gs, nil
}
