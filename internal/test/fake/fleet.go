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

// Fleet is an in-memory repo.Fleet implementation. Claim and Release
// are conditional status flips under the package mutex, so two racing
// Claim calls for one vehicle resolve the same way they would against
// the postgres adapter: one wins, the other observes the rented
// status and reports a conflict.
type Fleet struct {
	locker
	vehicles map[uuid.UUID]*model.FleetVehicle
}

// NewFleet creates an in-memory fleet repository holding the given
// vehicles.
func NewFleet(vehicles ...model.FleetVehicle) *Fleet {
	f := &Fleet{
		vehicles: make(map[uuid.UUID]*model.FleetVehicle),
	}
	for i := range vehicles {
		v := vehicles[i]
		f.vehicles[v.ID] = &v
	}
	return f
}

// Conn returns the queryer interface of this fake repository.
func (f *Fleet) Conn(repo.Conn) repo.FleetConnQueryer {
	return f
}

// Tx returns the queryer interface of this fake repository.
func (f *Fleet) Tx(repo.Tx) repo.FleetTxQueryer {
	return f
}

func (f *Fleet) GetByID(
	ctx context.Context, vid uuid.UUID,
) (*model.FleetVehicle, error) {
	defer f.lock()()
	v, ok := f.vehicles[vid]
	if !ok {
		return nil, cerr.NotFound(
			fmt.Errorf("vehicle %s does not exist", vid),
		)
	}
	c := *v
	return &c, nil
}

func (f *Fleet) ListAvailableByGroup(
	ctx context.Context, gid uuid.UUID,
) ([]model.FleetVehicle, error) {
	defer f.lock()()
	var vs []model.FleetVehicle
	for _, v := range f.vehicles {
		if v.GroupID == gid && v.Status == model.VehicleAvailable {
			vs = append(vs, *v)
		}
	}
	sort.Slice(vs, func(i, j int) bool {
		return vs[i].Plate < vs[j].Plate
	})
	return vs, nil
}

func (f *Fleet) Claim(
	ctx context.Context, vid, gid uuid.UUID,
) (*model.FleetVehicle, error) {
	defer f.lock()()
	v, ok := f.vehicles[vid]
	if !ok {
		return nil, cerr.NotFound(
			fmt.Errorf("vehicle %s does not exist", vid),
		)
	}
	if v.GroupID != gid {
		return nil, cerr.BadRequest(fmt.Errorf(
			"vehicle %s does not belong to group %s", vid, gid,
		))
	}
	if v.Status != model.VehicleAvailable {
		return nil, cerr.Conflict(fmt.Errorf(
			"vehicle %s is %s", vid, v.Status,
		))
	}
	v.Status = model.VehicleRented
	c := *v
	return &c, nil
}

func (f *Fleet) Release(
	ctx context.Context, vid uuid.UUID,
) (*model.FleetVehicle, error) {
	defer f.lock()()
	v, ok := f.vehicles[vid]
	if !ok {
		return nil, cerr.NotFound(
			fmt.Errorf("vehicle %s does not exist", vid),
		)
	}
	if v.Status != model.VehicleRented {
		return nil, cerr.Conflict(fmt.Errorf(
			"vehicle %s is %s, not rented", vid, v.Status,
		))
	}
	v.Status = model.VehicleAvailable
	c := *v
	return &c, nil
}
