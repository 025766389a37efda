// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fleetuc_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/bmoradi/fleetrent/internal/test/fake"
	"github.com/bmoradi/fleetrent/pkg/core/cerr"
	"github.com/bmoradi/fleetrent/pkg/core/model"
	"github.com/bmoradi/fleetrent/pkg/core/usecase/fleetuc"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var suvGroupID = uuid.New()

type fleetFixture struct {
	uc       *fleetuc.UseCase
	fleetrp  *fake.Fleet
	resrvrp  *fake.Reservations
	uploader *fake.Uploader
}

func newFleetFixture(
	t *testing.T, vehicles ...model.FleetVehicle,
) *fleetFixture {
	f := &fleetFixture{
		fleetrp:  fake.NewFleet(vehicles...),
		resrvrp:  fake.NewReservations(),
		uploader: fake.NewUploader(),
	}
	var err error
	f.uc, err = fleetuc.New(
		fake.Pool{}, f.fleetrp, f.resrvrp, f.uploader,
		fleetuc.WithMaxCheckinPhotos(3),
	)
	require.NoError(t, err)
	return f
}

func testVehicle(plate string) model.FleetVehicle {
	return model.FleetVehicle{
		ID:       uuid.New(),
		Plate:    plate,
		CarModel: "Kodiaq",
		GroupID:  suvGroupID,
		Status:   model.VehicleAvailable,
	}
}

// seedApproved walks a fresh session through the lifecycle up to
// approved, selecting the SUV group.
func (f *fleetFixture) seedApproved(
	t *testing.T,
) *model.CheckoutSession {
	ctx := context.Background()
	s, err := f.resrvrp.CreateWithItems(ctx, &model.CheckoutSession{
		Car: model.SelectedCar{
			GroupID:    suvGroupID,
			Category:   "SUV",
			PlanType:   "standard",
			PeriodDays: 7,
			Price:      50000,
		},
		TotalAmount: 50000,
	})
	require.NoError(t, err)
	_, err = f.resrvrp.SubmitSchedule(
		ctx, s.ID, time.Now().AddDate(0, 0, 3), "09:00",
	)
	require.NoError(t, err)
	_, err = f.resrvrp.ConfirmPayment(
		ctx, s.ID, model.PaymentStore, "", 50000,
	)
	require.NoError(t, err)
	s, err = f.resrvrp.UpdateStatus(
		ctx, s.ID,
		model.StatusPendingApproval, model.StatusApproved,
	)
	require.NoError(t, err)
	return s
}

func statusCode(t *testing.T, err error) int {
	var ce *cerr.Error
	require.ErrorAs(t, err, &ce)
	return ce.HTTPStatusCode
}

func TestListCandidatesOrderedByPlate(t *testing.T) {
	v1 := testVehicle("B-102")
	v2 := testVehicle("A-517")
	other := testVehicle("C-001")
	other.GroupID = uuid.New()
	f := newFleetFixture(t, v1, v2, other)
	s := f.seedApproved(t)

	vs, err := f.uc.ListCandidates(context.Background(), s.ID)
	require.NoError(t, err)
	require.Len(t, vs, 2)
	assert.Equal(t, "A-517", vs[0].Plate)
	assert.Equal(t, "B-102", vs[1].Plate)
}

func TestListAvailableExhaustedGroup(t *testing.T) {
	f := newFleetFixture(t)
	vs, err := f.uc.ListAvailable(context.Background(), suvGroupID)
	require.NoError(t, err)
	assert.Empty(t, vs)
}

func TestAssignVehicleCompletesReservation(t *testing.T) {
	v := testVehicle("A-517")
	f := newFleetFixture(t, v)
	ctx := context.Background()
	s := f.seedApproved(t)

	s, err := f.uc.AssignVehicle(ctx, s.ID, v.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, s.Status)
	require.NotNil(t, s.AssignedVehicleID)
	assert.Equal(t, v.ID, *s.AssignedVehicleID)

	got, err := f.fleetrp.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, model.VehicleRented, got.Status)
}

// Two admins racing to bind the same vehicle to two reservations:
// exactly one wins; the loser observes the claimed vehicle and its
// reservation stays untouched.
func TestAssignVehicleRace(t *testing.T) {
	v := testVehicle("A-517")
	f := newFleetFixture(t, v)
	ctx := context.Background()
	s1 := f.seedApproved(t)
	s2 := f.seedApproved(t)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	for i, sid := range []uuid.UUID{s1.ID, s2.ID} {
		go func(i int, sid uuid.UUID) {
			defer wg.Done()
			_, errs[i] = f.uc.AssignVehicle(ctx, sid, v.ID)
		}(i, sid)
	}
	wg.Wait()

	require.NotEqual(t, errs[0] == nil, errs[1] == nil)
	var winner, loser uuid.UUID = s1.ID, s2.ID
	lost := errs[1]
	if errs[0] != nil {
		winner, loser = s2.ID, s1.ID
		lost = errs[0]
	}
	assert.Equal(t, http.StatusConflict, statusCode(t, lost))

	ws, err := f.resrvrp.GetByID(ctx, winner)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, ws.Status)

	ls, err := f.resrvrp.GetByID(ctx, loser)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, ls.Status)
	assert.Nil(t, ls.AssignedVehicleID)
}

func TestAssignVehicleGroupMismatch(t *testing.T) {
	v := testVehicle("A-517")
	v.GroupID = uuid.New()
	f := newFleetFixture(t, v)
	s := f.seedApproved(t)

	_, err := f.uc.AssignVehicle(context.Background(), s.ID, v.ID)
	assert.Equal(t, http.StatusBadRequest, statusCode(t, err))
}

func TestUnassignVehicleReleasesBothSides(t *testing.T) {
	v := testVehicle("A-517")
	f := newFleetFixture(t, v)
	ctx := context.Background()
	s := f.seedApproved(t)

	// nothing to undo yet
	_, err := f.uc.UnassignVehicle(ctx, s.ID)
	assert.Equal(t, http.StatusConflict, statusCode(t, err))

	_, err = f.uc.AssignVehicle(ctx, s.ID, v.ID)
	require.NoError(t, err)

	s, err = f.uc.UnassignVehicle(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, s.Status)
	assert.Nil(t, s.AssignedVehicleID)

	got, err := f.fleetrp.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, model.VehicleAvailable, got.Status)
}

func TestCheckInRecordsReportAndPhotos(t *testing.T) {
	f := newFleetFixture(t)
	ctx := context.Background()
	s := f.seedApproved(t)

	s, err := f.uc.CheckIn(ctx, s.ID, model.CheckInReport{
		FuelLevel:  80,
		OdometerKM: 42150,
		Notes:      "scratch on the rear bumper",
	}, []fleetuc.CheckInPhoto{
		{Name: "front.jpg", Data: []byte{0xff, 0xd8}},
		{Name: "rear.jpg", Data: []byte{0xff, 0xd8}},
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusCheckIn, s.Status)
	require.NotNil(t, s.CheckIn)
	assert.Equal(t, 80, s.CheckIn.FuelLevel)
	assert.Len(t, s.CheckIn.PhotoURLs, 2)
	assert.Len(t, f.uploader.Objects, 2)
}

func TestCheckInValidatesReport(t *testing.T) {
	f := newFleetFixture(t)
	ctx := context.Background()
	s := f.seedApproved(t)

	_, err := f.uc.CheckIn(
		ctx, s.ID, model.CheckInReport{FuelLevel: 120}, nil,
	)
	assert.Equal(t, http.StatusBadRequest, statusCode(t, err))

	_, err = f.uc.CheckIn(
		ctx, s.ID, model.CheckInReport{OdometerKM: -1}, nil,
	)
	assert.Equal(t, http.StatusBadRequest, statusCode(t, err))

	photos := make([]fleetuc.CheckInPhoto, 4)
	for i := range photos {
		photos[i] = fleetuc.CheckInPhoto{
			Name: "p.jpg", Data: []byte{1},
		}
	}
	_, err = f.uc.CheckIn(ctx, s.ID, model.CheckInReport{}, photos)
	assert.Equal(t, http.StatusBadRequest, statusCode(t, err))
}

// An upload failure mid-batch is reported as a partial write naming
// the failed photo, so the stray uploads can be reconciled.
func TestCheckInReportsPartialUpload(t *testing.T) {
	f := newFleetFixture(t)
	ctx := context.Background()
	s := f.seedApproved(t)
	f.uploader.FailAfter = 1

	_, err := f.uc.CheckIn(ctx, s.ID, model.CheckInReport{
		FuelLevel: 50,
	}, []fleetuc.CheckInPhoto{
		{Name: "front.jpg", Data: []byte{1}},
		{Name: "rear.jpg", Data: []byte{2}},
	})
	assert.Equal(t, http.StatusBadGateway, statusCode(t, err))
	var pwe *cerr.PartialWriteError
	require.ErrorAs(t, err, &pwe)
	assert.Contains(t, pwe.Op, "rear.jpg")

	// the reservation must not advance on a failed check-in
	s, err = f.resrvrp.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, s.Status)
	assert.Nil(t, s.CheckIn)
}
