// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package reservationuc contains the admin-facing reservation use
// case: inspecting submitted sessions, driving them through the
// review decisions (approve, reject, or return to review), and
// resolving plan upgrades to a higher ranked car group.
package reservationuc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bmoradi/fleetrent/pkg/core/cerr"
	"github.com/bmoradi/fleetrent/pkg/core/log"
	"github.com/bmoradi/fleetrent/pkg/core/model"
	"github.com/bmoradi/fleetrent/pkg/core/pricing"
	"github.com/bmoradi/fleetrent/pkg/core/repo"
	"github.com/google/uuid"
)

// UseCase represents the reservation administration use case. It
// holds a database connection pool and the reservations and catalog
// repository instances (to be guided with the DB pool).
type UseCase struct {
	pool    repo.Pool
	resrvrp repo.Reservations
	catrp   repo.Catalog
}

// New instantiates a reservation administration use case.
func New(p repo.Pool, r repo.Reservations, c repo.Catalog) *UseCase {
	return &UseCase{pool: p, resrvrp: r, catrp: c}
}

// Get returns one checkout session by its id.
func (rsv *UseCase) Get(
	ctx context.Context, sid uuid.UUID,
) (s *model.CheckoutSession, err error) {
	err = rsv.pool.Conn(
		ctx, func(ctx context.Context, c repo.Conn) error {
			s, err = rsv.resrvrp.Conn(c).GetByID(ctx, sid)
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// List returns checkout sessions, most recent first, optionally
// filtered by status. The total number of matching sessions is
// reported alongside, so callers can paginate.
func (rsv *UseCase) List(
	ctx context.Context,
	status model.ReservationStatus,
	offset, limit int,
) (ss []model.CheckoutSession, total int64, err error) {
	if status != "" {
		if err := status.Validate(); err != nil {
			return nil, 0, cerr.BadRequest(err)
		}
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	err = rsv.pool.Conn(
		ctx, func(ctx context.Context, c repo.Conn) error {
			ss, total, err = rsv.resrvrp.Conn(c).List(
				ctx, status, offset, limit,
			)
			return err
		},
	)
	if err != nil {
		return nil, 0, err
	}
	return ss, total, nil
}

// Approve moves a pending_approval session to approved. Approving an
// already approved session is an idempotent no-op.
func (rsv *UseCase) Approve(
	ctx context.Context, sid uuid.UUID,
) (*model.CheckoutSession, error) {
	return rsv.updateStatus(
		ctx, sid, model.StatusPendingApproval, model.StatusApproved,
	)
}

// Reject moves a pending_approval session to rejected. A rejection
// is not final; ReturnToReview can reopen it. Rejecting an already
// rejected session is an idempotent no-op.
func (rsv *UseCase) Reject(
	ctx context.Context, sid uuid.UUID,
) (*model.CheckoutSession, error) {
	return rsv.updateStatus(
		ctx, sid, model.StatusPendingApproval, model.StatusRejected,
	)
}

// ReturnToReview moves a rejected session back to pending_approval,
// reopening the review decision.
func (rsv *UseCase) ReturnToReview(
	ctx context.Context, sid uuid.UUID,
) (*model.CheckoutSession, error) {
	return rsv.updateStatus(
		ctx, sid, model.StatusRejected, model.StatusPendingApproval,
	)
}

func (rsv *UseCase) updateStatus(
	ctx context.Context,
	sid uuid.UUID,
	from, to model.ReservationStatus,
) (s *model.CheckoutSession, err error) {
	err = rsv.pool.Conn(
		ctx, func(ctx context.Context, c repo.Conn) error {
			s, err = rsv.resrvrp.Conn(c).UpdateStatus(
				ctx, sid, from, to,
			)
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	log.Info(ctx, "reservation status updated",
		slog.String("session", sid.String()),
		slog.String("status", string(s.Status)),
	)
	return s, nil
}

// ListUpgradeCandidates returns the car groups a session may be
// upgraded to, together with the fare each of them carries under the
// session's current plan and period. Groups without a matching fare
// are skipped; an empty result means no upgrade is possible.
func (rsv *UseCase) ListUpgradeCandidates(
	ctx context.Context, sid uuid.UUID,
) (cs []model.UpgradeCandidate, err error) {
	err = rsv.pool.Conn(
		ctx, func(ctx context.Context, c repo.Conn) error {
			q := rsv.resrvrp.Conn(c)
			cq := rsv.catrp.Conn(c)
			s, err := q.GetByID(ctx, sid)
			if err != nil {
				return err
			}
			cur, err := cq.GetGroup(ctx, s.Car.GroupID)
			if err != nil {
				return err
			}
			gs, err := cq.ListGroupsAbove(ctx, cur.DisplayOrder)
			if err != nil {
				return err
			}
			for _, g := range gs {
				f, err := cq.GetFare(
					ctx, g.ID, s.Car.PlanType, s.Car.PeriodDays,
				)
				if err != nil {
					if cerr.IsNotFound(err) {
						continue
					}
					return err
				}
				cs = append(cs, model.UpgradeCandidate{
					Group: g,
					Fare:  *f,
				})
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	return cs, nil
}

// Upgrade replaces the car group of a session with the gid group,
// which must rank strictly higher than the current one, repricing the
// session with the new group's fare for the same plan and period.
// The session payment method is retained, so an online payment keeps
// its base fare discount over the new fare. Upgrading is only
// possible while no vehicle is assigned; the new reservation keeps
// its slot in the approval queue and any vehicle must be picked from
// the new group afterwards.
func (rsv *UseCase) Upgrade(
	ctx context.Context, sid, gid uuid.UUID,
) (s *model.CheckoutSession, err error) {
	err = rsv.pool.Conn(
		ctx, func(ctx context.Context, c repo.Conn) error {
			q := rsv.resrvrp.Conn(c)
			cq := rsv.catrp.Conn(c)
			s, err = q.GetByID(ctx, sid)
			if err != nil {
				return err
			}
			if s.AssignedVehicleID != nil {
				return cerr.Conflict(fmt.Errorf(
					"session %s already has a vehicle assigned",
					sid,
				))
			}
			cur, err := cq.GetGroup(ctx, s.Car.GroupID)
			if err != nil {
				return err
			}
			next, err := cq.GetGroup(ctx, gid)
			if err != nil {
				return err
			}
			if next.DisplayOrder <= cur.DisplayOrder {
				return cerr.BadRequest(fmt.Errorf(
					"group %q does not rank above %q",
					next.Category, cur.Category,
				))
			}
			f, err := cq.GetFare(
				ctx, gid, s.Car.PlanType, s.Car.PeriodDays,
			)
			if err != nil {
				return err
			}
			car := model.SelectedCar{
				GroupID:    next.ID,
				Category:   next.Category,
				PlanType:   s.Car.PlanType,
				PeriodDays: s.Car.PeriodDays,
				Price:      f.BasePrice,
			}
			b, err := pricing.QuoteSession(
				car, s.Optionals, s.PaymentMethod,
			)
			if err != nil {
				return err
			}
			s, err = q.UpgradeCar(ctx, sid, car, b.Total)
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	log.Info(ctx, "reservation upgraded",
		slog.String("session", sid.String()),
		slog.String("category", s.Car.Category),
		slog.Int64("total", s.TotalAmount),
	)
	return s, nil
}
