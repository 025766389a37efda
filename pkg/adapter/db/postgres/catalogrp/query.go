// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package catalogrp reads the car groups and fares catalog. It is
// read-only: the catalog is edited by the marketing tooling, outside
// of the reservation core.
package catalogrp

import (
	"context"
	"errors"
	"fmt"

	"github.com/bmoradi/fleetrent/pkg/adapter/db/postgres"
	"github.com/bmoradi/fleetrent/pkg/core/cerr"
	"github.com/bmoradi/fleetrent/pkg/core/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gGroup struct {
	ID           uuid.UUID `gorm:"primaryKey;type:uuid"`
	Category     string
	Description  string
	DisplayOrder int
}

func (gg *gGroup) TableName() string {
	return "car_groups"
}

func (gg *gGroup) Model() *model.CarGroup {
	return &model.CarGroup{
		ID:           gg.ID,
		Category:     gg.Category,
		Description:  gg.Description,
		DisplayOrder: gg.DisplayOrder,
	}
}

type gFare struct {
	ID           uuid.UUID `gorm:"primaryKey;type:uuid"`
	GroupID      uuid.UUID
	PlanType     string
	PeriodDays   int
	BasePrice    int64
	KMIncluded   int64 `gorm:"column:km_included"`
	ExtraKMPrice int64 `gorm:"column:extra_km_price"`
}

func (gf *gFare) TableName() string {
	return "group_fares"
}

func (gf *gFare) Model() *model.Fare {
	return &model.Fare{
		ID:           gf.ID,
		GroupID:      gf.GroupID,
		PlanType:     gf.PlanType,
		PeriodDays:   gf.PeriodDays,
		BasePrice:    gf.BasePrice,
		KMIncluded:   gf.KMIncluded,
		ExtraKMPrice: gf.ExtraKMPrice,
	}
}

func GetGroup[Q postgres.Queryer](
	ctx context.Context, q Q, gid uuid.UUID,
) (*model.CarGroup, error) {
	gdb := q.GORM(ctx)
	gg := &gGroup{}
	err := gdb.Where("id=?", gid).First(gg).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, cerr.NotFound(
			fmt.Errorf("no car group with id %s", gid),
		)
	case err != nil:
		return nil, fmt.Errorf("query: %w", err)
	}
	return gg.Model(), nil
}

func GetFare[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	gid uuid.UUID,
	planType string,
	periodDays int,
) (*model.Fare, error) {
	gdb := q.GORM(ctx)
	gf := &gFare{}
	err := gdb.Where(
		"group_id=? AND plan_type=? AND period_days=?",
		gid, planType, periodDays,
	).First(gf).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, cerr.NotFound(fmt.Errorf(
			"no %s fare for group %s over %d days",
			planType, gid, periodDays,
		))
	case err != nil:
		return nil, fmt.Errorf("query: %w", err)
	}
	return gf.Model(), nil
}

func ListGroupsAbove[Q postgres.Queryer](
	ctx context.Context, q Q, displayOrder int,
) ([]model.CarGroup, error) {
	gdb := q.GORM(ctx)
	var ggs []gGroup
	err := gdb.Where("display_order>?", displayOrder).
		Order("display_order").Find(&ggs).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	groups := make([]model.CarGroup, 0, len(ggs))
	for i := range ggs {
		groups = append(groups, *ggs[i].Model())
	}
	return groups, nil
}
