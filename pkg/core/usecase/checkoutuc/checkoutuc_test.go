// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package checkoutuc_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/bmoradi/fleetrent/internal/test/fake"
	"github.com/bmoradi/fleetrent/pkg/core/cerr"
	"github.com/bmoradi/fleetrent/pkg/core/model"
	"github.com/bmoradi/fleetrent/pkg/core/payment"
	"github.com/bmoradi/fleetrent/pkg/core/usecase/checkoutuc"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutFixture struct {
	uc      *checkoutuc.UseCase
	resrvrp *fake.Reservations
	gateway *fake.Gateway
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	f := &checkoutFixture{
		resrvrp: fake.NewReservations(),
		gateway: fake.NewGateway(),
	}
	var err error
	f.uc, err = checkoutuc.New(
		fake.Pool{}, f.resrvrp, fake.NewDrivers(), f.gateway,
	)
	require.NoError(t, err)
	return f
}

func testCart(t *testing.T) *model.Cart {
	cart := &model.Cart{}
	require.NoError(t, cart.AddItem(model.CarGroupLine{
		GroupID:    uuid.New(),
		Category:   "SUV",
		PlanType:   "standard",
		PeriodDays: 7,
		Price:      50000,
	}))
	require.NoError(t, cart.AddItem(model.OptionalLine{
		OptionalID: uuid.New(),
		Name:       "child seat",
		Count:      2,
		Price:      2500,
	}))
	return cart
}

func statusCode(t *testing.T, err error) int {
	var ce *cerr.Error
	require.ErrorAs(t, err, &ce)
	return ce.HTTPStatusCode
}

func TestCreateSessionCommitsCart(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	cart := testCart(t)

	s, err := f.uc.CreateSession(ctx, nil, cart)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDraft, s.Status)
	assert.EqualValues(t, 1001, s.ReservationNumber)
	// the store total is persisted at commit time; the online
	// discount only applies once the payment method is confirmed
	assert.EqualValues(t, 55000, s.TotalAmount)
	require.Len(t, s.Optionals, 1)
	assert.Equal(t, "child seat", s.Optionals[0].Name)
	assert.EqualValues(t, 5000, s.Optionals[0].TotalPrice)

	sid, bound := cart.SessionID()
	require.True(t, bound)
	assert.Equal(t, s.ID, sid)

	// a committed cart may not be committed again
	_, err = f.uc.CreateSession(ctx, nil, cart)
	assert.Equal(t, http.StatusConflict, statusCode(t, err))
}

func TestCreateSessionRejectsIncompleteCarts(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	_, err := f.uc.CreateSession(ctx, nil, &model.Cart{})
	assert.Equal(t, http.StatusBadRequest, statusCode(t, err))

	noCar := &model.Cart{}
	require.NoError(t, noCar.AddItem(model.OptionalLine{
		Name: "gps", Count: 1, Price: 900,
	}))
	_, err = f.uc.CreateSession(ctx, nil, noCar)
	assert.Equal(t, http.StatusBadRequest, statusCode(t, err))
}

func TestSubmitScheduleRejectsPastDates(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	s, err := f.uc.CreateSession(ctx, nil, testCart(t))
	require.NoError(t, err)

	_, err = f.uc.SubmitSchedule(
		ctx, s.ID, time.Now().AddDate(0, 0, -2), "10:30",
	)
	assert.Equal(t, http.StatusBadRequest, statusCode(t, err))

	s, err = f.uc.SubmitSchedule(
		ctx, s.ID, time.Now().AddDate(0, 0, 2), "10:30",
	)
	require.NoError(t, err)
	assert.Equal(t, model.StatusScheduled, s.Status)
	require.NotNil(t, s.PickupDate)
	assert.Equal(t, "10:30", s.PickupTime)
}

func TestConfirmPaymentOnline(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	s, err := f.uc.CreateSession(ctx, nil, testCart(t))
	require.NoError(t, err)
	_, err = f.uc.SubmitSchedule(
		ctx, s.ID, time.Now().AddDate(0, 0, 2), "10:30",
	)
	require.NoError(t, err)

	s, secret, err := f.uc.ConfirmPayment(
		ctx, s.ID, model.PaymentOnline, "cust-42",
	)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPendingApproval, s.Status)
	assert.Equal(t, model.PaymentOnline, s.PaymentMethod)
	assert.NotEmpty(t, secret)
	assert.NotEmpty(t, s.PaymentRef)
	// 50000 base fare with a 10% online discount, plus 5000 of
	// optionals which are never discounted
	assert.EqualValues(t, 50000, s.TotalAmount)

	st, err := f.uc.PaymentStatus(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.IntentPending, st)

	f.gateway.Settle(s.PaymentRef, payment.IntentSucceeded)
	st, err = f.uc.PaymentStatus(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.IntentSucceeded, st)
}

func TestConfirmPaymentStore(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	s, err := f.uc.CreateSession(ctx, nil, testCart(t))
	require.NoError(t, err)
	_, err = f.uc.SubmitSchedule(
		ctx, s.ID, time.Now().AddDate(0, 0, 2), "10:30",
	)
	require.NoError(t, err)

	s, secret, err := f.uc.ConfirmPayment(
		ctx, s.ID, model.PaymentStore, "",
	)
	require.NoError(t, err)
	assert.Empty(t, secret)
	assert.Empty(t, s.PaymentRef)
	assert.EqualValues(t, 55000, s.TotalAmount)

	// there is no intent to poll on the store path
	_, err = f.uc.PaymentStatus(ctx, s.ID)
	assert.Equal(t, http.StatusBadRequest, statusCode(t, err))
}

func TestConfirmPaymentGatewayOutage(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	s, err := f.uc.CreateSession(ctx, nil, testCart(t))
	require.NoError(t, err)
	_, err = f.uc.SubmitSchedule(
		ctx, s.ID, time.Now().AddDate(0, 0, 2), "10:30",
	)
	require.NoError(t, err)

	f.gateway.Fail = true
	_, _, err = f.uc.ConfirmPayment(
		ctx, s.ID, model.PaymentOnline, "cust-42",
	)
	assert.Equal(t, http.StatusBadGateway, statusCode(t, err))

	// the session must not advance when the gateway was down
	s, err = f.resrvrp.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusScheduled, s.Status)
}

func TestConfirmPaymentRejectsUnknownMethod(t *testing.T) {
	f := newCheckoutFixture(t)
	_, _, err := f.uc.ConfirmPayment(
		context.Background(), uuid.New(), "cash", "",
	)
	assert.Equal(t, http.StatusBadRequest, statusCode(t, err))
}

func TestRegisterDriverAndKYC(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	_, err := f.uc.RegisterDriver(ctx, &model.Driver{Email: "x@y.z"})
	assert.Equal(t, http.StatusBadRequest, statusCode(t, err))

	d, err := f.uc.RegisterDriver(ctx, &model.Driver{
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, model.VerificationPending, d.Verification)

	expiry := time.Now().AddDate(3, 0, 0)
	d.DocumentNumber = "X1234567"
	d.LicenseNumber = "B-987"
	d.LicenseExpiry = &expiry
	d, err = f.uc.SubmitKYC(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, "X1234567", d.DocumentNumber)
	assert.Equal(t, model.VerificationPending, d.Verification)
}

func TestSetDriverVerification(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	d, err := f.uc.RegisterDriver(ctx, &model.Driver{
		FullName: "Grace Hopper",
		Email:    "grace@example.com",
	})
	require.NoError(t, err)

	d, err = f.uc.SetDriverVerification(
		ctx, d.ID, model.VerificationVerified,
	)
	require.NoError(t, err)
	assert.Equal(t, model.VerificationVerified, d.Verification)

	_, err = f.uc.SetDriverVerification(
		ctx, d.ID, model.VerificationStatus("approved"),
	)
	assert.Equal(t, http.StatusBadRequest, statusCode(t, err))

	_, err = f.uc.SetDriverVerification(
		ctx, uuid.New(), model.VerificationRejected,
	)
	assert.Equal(t, http.StatusNotFound, statusCode(t, err))

	// a fresh KYC submission reopens the decision
	expiry := time.Now().AddDate(2, 0, 0)
	d.DocumentNumber = "Y7654321"
	d.LicenseNumber = "B-123"
	d.LicenseExpiry = &expiry
	d, err = f.uc.SubmitKYC(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, model.VerificationPending, d.Verification)
}
