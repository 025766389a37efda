// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package fleetrp is the fleet vehicles repository. The Claim query
// is the optimistic lock of the whole allocation flow: it flips the
// vehicle status from available to rented with a conditional UPDATE,
// so of two operators racing for one vehicle exactly one can win.
package fleetrp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bmoradi/fleetrent/pkg/adapter/db/postgres"
	"github.com/bmoradi/fleetrent/pkg/core/cerr"
	"github.com/bmoradi/fleetrent/pkg/core/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gVehicle struct {
	ID             uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Plate          string
	CarModel       string
	GroupID        uuid.UUID
	Status         string
	CurrentKM      int64 `gorm:"column:current_km"`
	LastRevisionAt *time.Time
	NextRevisionAt *time.Time
}

func (gv *gVehicle) TableName() string {
	return "fleet_vehicles"
}

func (gv *gVehicle) Model() *model.FleetVehicle {
	return &model.FleetVehicle{
		ID:             gv.ID,
		Plate:          gv.Plate,
		CarModel:       gv.CarModel,
		GroupID:        gv.GroupID,
		Status:         model.VehicleStatus(gv.Status),
		CurrentKM:      gv.CurrentKM,
		LastRevisionAt: gv.LastRevisionAt,
		NextRevisionAt: gv.NextRevisionAt,
	}
}

func GetByID[Q postgres.Queryer](
	ctx context.Context, q Q, vid uuid.UUID,
) (*model.FleetVehicle, error) {
	gdb := q.GORM(ctx)
	gv := &gVehicle{}
	err := gdb.Where("id=?", vid).First(gv).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, cerr.NotFound(
			fmt.Errorf("no vehicle with id %s", vid),
		)
	case err != nil:
		return nil, fmt.Errorf("query: %w", err)
	}
	return gv.Model(), nil
}

func ListAvailableByGroup[Q postgres.Queryer](
	ctx context.Context, q Q, gid uuid.UUID,
) ([]model.FleetVehicle, error) {
	gdb := q.GORM(ctx)
	var gvs []gVehicle
	err := gdb.Where(
		"group_id=? AND status=?",
		gid, string(model.VehicleAvailable),
	).Order("plate").Find(&gvs).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	vehicles := make([]model.FleetVehicle, 0, len(gvs))
	for i := range gvs {
		vehicles = append(vehicles, *gvs[i].Model())
	}
	return vehicles, nil
}

// Claim flips the vid vehicle from available to rented, guarded on
// its current status and its group. On a guard miss the stored row is
// inspected to distinguish an unknown vehicle, a group mismatch, and
// a lost race.
func Claim(
	ctx context.Context, q *postgres.Tx, vid, gid uuid.UUID,
) (*model.FleetVehicle, error) {
	gdb := q.GORM(ctx)
	var gvs []gVehicle
	res := gdb.Model(&gvs).Clauses(clause.Returning{}).Where(
		"id=? AND group_id=? AND status=?",
		vid, gid, string(model.VehicleAvailable),
	).Update("status", string(model.VehicleRented))
	if err := res.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(gvs) == 1 {
		return gvs[0].Model(), nil
	}
	current := &gVehicle{}
	err := q.GORM(ctx).Where("id=?", vid).First(current).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, cerr.NotFound(
			fmt.Errorf("no vehicle with id %s", vid),
		)
	case err != nil:
		return nil, fmt.Errorf("query: %w", err)
	case current.GroupID != gid:
		return nil, cerr.BadRequest(fmt.Errorf(
			"vehicle %s belongs to group %s, not %s",
			vid, current.GroupID, gid,
		))
	default:
		return nil, cerr.Conflict(fmt.Errorf(
			"vehicle %s is %s", vid, current.Status,
		))
	}
}

// Release flips the vid vehicle from rented back to available, as
// the inverse of Claim.
func Release(
	ctx context.Context, q *postgres.Tx, vid uuid.UUID,
) (*model.FleetVehicle, error) {
	gdb := q.GORM(ctx)
	var gvs []gVehicle
	res := gdb.Model(&gvs).Clauses(clause.Returning{}).Where(
		"id=? AND status=?", vid, string(model.VehicleRented),
	).Update("status", string(model.VehicleAvailable))
	if err := res.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(gvs) != 1 {
		return nil, cerr.Conflict(
			fmt.Errorf("vehicle %s is not rented", vid),
		)
	}
	return gvs[0].Model(), nil
}
