// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package reservationuc_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/bmoradi/fleetrent/internal/test/fake"
	"github.com/bmoradi/fleetrent/pkg/core/cerr"
	"github.com/bmoradi/fleetrent/pkg/core/model"
	"github.com/bmoradi/fleetrent/pkg/core/usecase/reservationuc"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	economyID = uuid.New()
	suvID     = uuid.New()
	premiumID = uuid.New()
)

func testCatalog() *fake.Catalog {
	return fake.NewCatalog(
		[]model.CarGroup{
			{ID: economyID, Category: "Economy", DisplayOrder: 1},
			{ID: suvID, Category: "SUV", DisplayOrder: 2},
			{ID: premiumID, Category: "Premium", DisplayOrder: 3},
		},
		[]model.Fare{
			{
				ID: uuid.New(), GroupID: economyID,
				PlanType: "standard", PeriodDays: 7,
				BasePrice: 30000,
			},
			{
				ID: uuid.New(), GroupID: suvID,
				PlanType: "standard", PeriodDays: 7,
				BasePrice: 50000,
			},
			// the premium group carries no standard/7d fare, so it
			// must be skipped as an upgrade candidate
		},
	)
}

type reservationFixture struct {
	uc      *reservationuc.UseCase
	resrvrp *fake.Reservations
}

func newReservationFixture(t *testing.T) *reservationFixture {
	f := &reservationFixture{resrvrp: fake.NewReservations()}
	f.uc = reservationuc.New(fake.Pool{}, f.resrvrp, testCatalog())
	return f
}

// seedSession walks a fresh session through the customer flow up to
// pending_approval, paying online for the economy group.
func (f *reservationFixture) seedSession(
	t *testing.T,
) *model.CheckoutSession {
	ctx := context.Background()
	s, err := f.resrvrp.CreateWithItems(ctx, &model.CheckoutSession{
		Car: model.SelectedCar{
			GroupID:    economyID,
			Category:   "Economy",
			PlanType:   "standard",
			PeriodDays: 7,
			Price:      30000,
		},
		Optionals: []model.SessionLine{{
			Type:       model.LineTypeOptional,
			Name:       "gps",
			Quantity:   1,
			UnitPrice:  2000,
			TotalPrice: 2000,
		}},
		TotalAmount: 32000,
	})
	require.NoError(t, err)
	_, err = f.resrvrp.SubmitSchedule(
		ctx, s.ID, time.Now().AddDate(0, 0, 3), "09:00",
	)
	require.NoError(t, err)
	// 30000*0.9 + 2000
	s, err = f.resrvrp.ConfirmPayment(
		ctx, s.ID, model.PaymentOnline, "pi_0001", 29000,
	)
	require.NoError(t, err)
	return s
}

func statusCode(t *testing.T, err error) int {
	var ce *cerr.Error
	require.ErrorAs(t, err, &ce)
	return ce.HTTPStatusCode
}

func TestApproveIsIdempotent(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()
	s := f.seedSession(t)

	s, err := f.uc.Approve(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, s.Status)

	// a retried approve is a no-op, not an error
	s, err = f.uc.Approve(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, s.Status)
}

func TestRejectAfterApproveConflicts(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()
	s := f.seedSession(t)

	_, err := f.uc.Approve(ctx, s.ID)
	require.NoError(t, err)

	_, err = f.uc.Reject(ctx, s.ID)
	assert.Equal(t, http.StatusConflict, statusCode(t, err))
	var ite *cerr.InvalidTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Equal(t, model.StatusApproved, (*ite)[0])
	assert.Equal(t, model.StatusRejected, (*ite)[1])
}

// A rejected reservation may be returned to review and decided
// again; this is the only way back into the approval queue.
func TestReturnToReviewReopensRejection(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()
	s := f.seedSession(t)

	s, err := f.uc.Reject(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, s.Status)

	s, err = f.uc.ReturnToReview(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPendingApproval, s.Status)

	s, err = f.uc.Approve(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, s.Status)
}

func TestReturnToReviewRequiresRejection(t *testing.T) {
	f := newReservationFixture(t)
	s := f.seedSession(t)

	_, err := f.uc.ReturnToReview(context.Background(), s.ID)
	assert.Equal(t, http.StatusConflict, statusCode(t, err))
}

func TestGetAndListUnknownSession(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()

	_, err := f.uc.Get(ctx, uuid.New())
	assert.Equal(t, http.StatusNotFound, statusCode(t, err))

	_, _, err = f.uc.List(ctx, "garbage", 0, 10)
	assert.Equal(t, http.StatusBadRequest, statusCode(t, err))
}

func TestListFiltersByStatus(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()
	s1 := f.seedSession(t)
	f.seedSession(t)
	_, err := f.uc.Approve(ctx, s1.ID)
	require.NoError(t, err)

	ss, total, err := f.uc.List(
		ctx, model.StatusPendingApproval, 0, 10,
	)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, ss, 1)
	assert.NotEqual(t, s1.ID, ss[0].ID)

	ss, total, err = f.uc.List(ctx, "", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, ss, 2)
}

func TestListUpgradeCandidatesSkipsUnpricedGroups(t *testing.T) {
	f := newReservationFixture(t)
	s := f.seedSession(t)

	cs, err := f.uc.ListUpgradeCandidates(context.Background(), s.ID)
	require.NoError(t, err)
	// Premium ranks above Economy too, but carries no fare for this
	// plan and period, so SUV is the only candidate
	require.Len(t, cs, 1)
	assert.Equal(t, "SUV", cs[0].Group.Category)
	assert.EqualValues(t, 50000, cs[0].Fare.BasePrice)
}

// Upgrading replaces the car group and reprices the reservation with
// the retained payment method. The upgraded reservation keeps its
// place in the lifecycle and no vehicle binding is touched.
func TestUpgradeRepricesSession(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()
	s := f.seedSession(t)

	s, err := f.uc.Upgrade(ctx, s.ID, suvID)
	require.NoError(t, err)
	assert.Equal(t, suvID, s.Car.GroupID)
	assert.Equal(t, "SUV", s.Car.Category)
	assert.EqualValues(t, 50000, s.Car.Price)
	// 50000*0.9 online + 2000 gps
	assert.EqualValues(t, 47000, s.TotalAmount)
	assert.Nil(t, s.AssignedVehicleID)
	assert.Equal(t, model.StatusPendingApproval, s.Status)
}

func TestUpgradeRequiresHigherRank(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()
	s := f.seedSession(t)

	// same group is not an upgrade
	_, err := f.uc.Upgrade(ctx, s.ID, economyID)
	assert.Equal(t, http.StatusBadRequest, statusCode(t, err))

	// a higher group without a fare cannot be priced
	_, err = f.uc.Upgrade(ctx, s.ID, premiumID)
	assert.Equal(t, http.StatusNotFound, statusCode(t, err))
}

func TestUpgradeConflictsWithAssignedVehicle(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()
	s := f.seedSession(t)
	_, err := f.uc.Approve(ctx, s.ID)
	require.NoError(t, err)
	_, err = f.resrvrp.CompleteAssignment(ctx, s.ID, uuid.New())
	require.NoError(t, err)

	_, err = f.uc.Upgrade(ctx, s.ID, suvID)
	assert.Equal(t, http.StatusConflict, statusCode(t, err))
}
