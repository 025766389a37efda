// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package checkoutuc contains the checkout UseCase which carries a
// customer cart into a durable reservation. Three use cases are
// supported:
//  1. Committing a cart into a checkout session,
//  2. Submitting the pickup schedule,
//  3. Confirming the payment method (creating a payment intent for
//     the online path).
package checkoutuc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bmoradi/fleetrent/pkg/core/cerr"
	"github.com/bmoradi/fleetrent/pkg/core/log"
	"github.com/bmoradi/fleetrent/pkg/core/model"
	"github.com/bmoradi/fleetrent/pkg/core/payment"
	"github.com/bmoradi/fleetrent/pkg/core/pricing"
	"github.com/bmoradi/fleetrent/pkg/core/repo"
	"github.com/google/uuid"
)

// UseCase represents the checkout use case. It holds a database
// connection pool, the reservations and drivers repository instances
// (to be guided with the DB pool), the payment gateway port, and the
// checkout specific settings.
type UseCase struct {
	pool      repo.Pool
	resrvrp   repo.Reservations
	driversrp repo.Drivers
	gateway   payment.Gateway

	minPickupLead time.Duration
}

// New instantiates a checkout use case. Required collaborators are
// passed individually, so the caller has to provision them and
// whenever they change, the caller will notice and fix them due to a
// compilation error. Optional parameters are passed as a series of
// functional options.
func New(
	p repo.Pool,
	r repo.Reservations,
	d repo.Drivers,
	g payment.Gateway,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{pool: p, resrvrp: r, driversrp: d, gateway: g}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	return uc, nil
}

// CreateSession commits the cart as a new checkout session. The cart
// must contain exactly one car group line; the session row and its
// line items are persisted in one transaction, so the stored
// financials can never be half-written. The did driver reference is
// optional at this point (the driver may be identified later during
// review). The cart is bound to the created session, letting callers
// detect a stale re-commit.
func (chk *UseCase) CreateSession(
	ctx context.Context, did *uuid.UUID, cart *model.Cart,
) (s *model.CheckoutSession, err error) {
	if cart == nil || cart.Len() == 0 {
		return nil, cerr.BadRequest(
			fmt.Errorf("cart is empty"),
		)
	}
	cg, ok := cart.CarGroup()
	if !ok {
		return nil, cerr.BadRequest(
			fmt.Errorf("cart has no car group selection"),
		)
	}
	if sid, ok := cart.SessionID(); ok {
		return nil, cerr.Conflict(fmt.Errorf(
			"cart was already committed as session %s", sid,
		))
	}
	// store pricing at commit time; an online discount is applied
	// when the payment method is confirmed
	b, err := pricing.Quote(cart.Items(), model.PaymentStore)
	if err != nil {
		return nil, err
	}
	draft := &model.CheckoutSession{
		DriverID: did,
		Car: model.SelectedCar{
			GroupID:    cg.GroupID,
			Category:   cg.Category,
			PlanType:   cg.PlanType,
			PeriodDays: cg.PeriodDays,
			Price:      cg.Price,
		},
		TotalAmount: b.Total,
	}
	for _, lt := range b.Lines {
		if lt.Type == model.LineTypeCarGroup {
			continue
		}
		draft.Optionals = append(draft.Optionals, model.SessionLine{
			Type:       lt.Type,
			Name:       lt.Name,
			Quantity:   lt.Quantity,
			UnitPrice:  lt.UnitPrice,
			TotalPrice: lt.Total,
		})
	}
	err = chk.pool.Conn(
		ctx, func(ctx context.Context, c repo.Conn) error {
			return c.Tx(
				ctx, func(ctx context.Context, tx repo.Tx) error {
					q := chk.resrvrp.Tx(tx)
					s, err = q.CreateWithItems(ctx, draft)
					return err
				},
			)
		},
	)
	if err != nil {
		return nil, err
	}
	cart.BindSession(s.ID)
	log.Info(ctx, "checkout session created",
		slog.String("session", s.ID.String()),
		slog.Int64("reservation_number", s.ReservationNumber),
		slog.Int64("total", s.TotalAmount),
	)
	return s, nil
}

// SubmitSchedule records the pickup date and time of a draft session,
// moving it to scheduled. The pickup day must not lie in the past
// (with the configured minimum lead applied, when any).
func (chk *UseCase) SubmitSchedule(
	ctx context.Context,
	sid uuid.UUID,
	date time.Time,
	pickupTime string,
) (s *model.CheckoutSession, err error) {
	if notBefore := time.Now().Add(chk.minPickupLead); date.Before(
		notBefore.Truncate(24 * time.Hour),
	) {
		return nil, cerr.BadRequest(fmt.Errorf(
			"pickup date %s is in the past",
			date.Format(time.DateOnly),
		))
	}
	err = chk.pool.Conn(
		ctx, func(ctx context.Context, c repo.Conn) error {
			q := chk.resrvrp.Conn(c)
			s, err = q.SubmitSchedule(ctx, sid, date, pickupTime)
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ConfirmPayment finishes the customer-facing part of the flow,
// moving the session from scheduled to pending_approval. For the
// online method the session total is recomputed with the base fare
// discount and a payment intent is registered with the gateway; its
// client secret is returned so the client can collect the payment
// instrument. The store method applies no discount and involves no
// gateway call. After this step only admin actors may change the
// session status.
func (chk *UseCase) ConfirmPayment(
	ctx context.Context,
	sid uuid.UUID,
	method model.PaymentMethod,
	customerRef string,
) (s *model.CheckoutSession, clientSecret string, err error) {
	if err := method.Validate(); err != nil {
		return nil, "", cerr.BadRequest(err)
	}
	err = chk.pool.Conn(
		ctx, func(ctx context.Context, c repo.Conn) error {
			q := chk.resrvrp.Conn(c)
			s, err = q.GetByID(ctx, sid)
			if err != nil {
				return err
			}
			b, err := pricing.QuoteSession(
				s.Car, s.Optionals, method,
			)
			if err != nil {
				return err
			}
			var intentID string
			if method == model.PaymentOnline {
				in, err := chk.gateway.CreateIntent(
					ctx, b.Total, customerRef,
				)
				if err != nil {
					return cerr.Upstream(fmt.Errorf(
						"creating payment intent: %w", err,
					))
				}
				intentID = in.ID
				clientSecret = in.ClientSecret
			}
			s, err = q.ConfirmPayment(
				ctx, sid, method, intentID, b.Total,
			)
			return err
		},
	)
	if err != nil {
		return nil, "", err
	}
	log.Info(ctx, "payment confirmed",
		slog.String("session", sid.String()),
		slog.String("method", string(method)),
		slog.Int64("total", s.TotalAmount),
	)
	return s, clientSecret, nil
}

// PaymentStatus polls the gateway for the intent status of a session
// which went through the online payment path.
func (chk *UseCase) PaymentStatus(
	ctx context.Context, sid uuid.UUID,
) (payment.IntentStatus, error) {
	var s *model.CheckoutSession
	err := chk.pool.Conn(
		ctx, func(ctx context.Context, c repo.Conn) error {
			var err error
			s, err = chk.resrvrp.Conn(c).GetByID(ctx, sid)
			return err
		},
	)
	if err != nil {
		return "", err
	}
	if s.PaymentMethod != model.PaymentOnline || s.PaymentRef == "" {
		return "", cerr.BadRequest(fmt.Errorf(
			"session %s has no online payment intent", sid,
		))
	}
	st, err := chk.gateway.IntentStatus(ctx, s.PaymentRef)
	if err != nil {
		return "", cerr.Upstream(fmt.Errorf(
			"polling payment intent: %w", err,
		))
	}
	return st, nil
}

// RegisterDriver creates a driver record on first checkout (or by
// admin entry) with a pending verification status.
func (chk *UseCase) RegisterDriver(
	ctx context.Context, d *model.Driver,
) (created *model.Driver, err error) {
	if d == nil || d.FullName == "" || d.Email == "" {
		return nil, cerr.BadRequest(
			fmt.Errorf("driver name and email are required"),
		)
	}
	err = chk.pool.Conn(
		ctx, func(ctx context.Context, c repo.Conn) error {
			created, err = chk.driversrp.Conn(c).Create(ctx, d)
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// SubmitKYC stores a driver's identity document and license fields,
// resetting the verification status to pending for review.
func (chk *UseCase) SubmitKYC(
	ctx context.Context, d *model.Driver,
) (updated *model.Driver, err error) {
	if d == nil || d.ID == uuid.Nil {
		return nil, cerr.BadRequest(
			fmt.Errorf("driver id is required"),
		)
	}
	err = chk.pool.Conn(
		ctx, func(ctx context.Context, c repo.Conn) error {
			updated, err = chk.driversrp.Conn(c).UpdateKYC(ctx, d)
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetDriverVerification records the back office decision on a
// driver's KYC submission. Setting the status back to pending sends
// the record through review again.
func (chk *UseCase) SetDriverVerification(
	ctx context.Context,
	did uuid.UUID,
	vs model.VerificationStatus,
) (updated *model.Driver, err error) {
	if err := vs.Validate(); err != nil {
		return nil, cerr.BadRequest(fmt.Errorf(
			"verification status %q: %w", vs, err,
		))
	}
	err = chk.pool.Conn(
		ctx, func(ctx context.Context, c repo.Conn) error {
			updated, err = chk.driversrp.Conn(c).
				SetVerification(ctx, did, vs)
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	return updated, nil
}
