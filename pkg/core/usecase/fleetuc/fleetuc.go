// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package fleetuc contains the fleet allocation use case: finding the
// concrete vehicles which can serve a reservation, binding exactly
// one of them to it, undoing such a binding, and recording the
// check-in inspection.
package fleetuc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bmoradi/fleetrent/pkg/core/cerr"
	"github.com/bmoradi/fleetrent/pkg/core/log"
	"github.com/bmoradi/fleetrent/pkg/core/model"
	"github.com/bmoradi/fleetrent/pkg/core/repo"
	"github.com/bmoradi/fleetrent/pkg/core/storage"
	"github.com/google/uuid"
)

// UseCase represents the fleet allocation use case. It holds a
// database connection pool, the fleet and reservations repository
// instances (to be guided with the DB pool), and the object store
// which keeps the check-in photos.
type UseCase struct {
	pool     repo.Pool
	fleetrp  repo.Fleet
	resrvrp  repo.Reservations
	uploader storage.Uploader

	maxCheckinPhotos int
}

// New instantiates a fleet allocation use case.
func New(
	p repo.Pool,
	f repo.Fleet,
	r repo.Reservations,
	u storage.Uploader,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{
		pool: p, fleetrp: f, resrvrp: r, uploader: u,
	}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if uc.maxCheckinPhotos == 0 {
		uc.maxCheckinPhotos = defaultMaxCheckinPhotos
	}
	return uc, nil
}

// ListCandidates returns the available vehicles which may serve the
// sid reservation, that is, the available members of its selected car
// group ordered by plate. An empty list is a normal result meaning
// the group is exhausted right now; callers may retry later or
// upgrade the reservation to another group.
func (flt *UseCase) ListCandidates(
	ctx context.Context, sid uuid.UUID,
) (vs []model.FleetVehicle, err error) {
	err = flt.pool.Conn(
		ctx, func(ctx context.Context, c repo.Conn) error {
			s, err := flt.resrvrp.Conn(c).GetByID(ctx, sid)
			if err != nil {
				return err
			}
			vs, err = flt.fleetrp.Conn(c).ListAvailableByGroup(
				ctx, s.Car.GroupID,
			)
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	return vs, nil
}

// ListAvailable returns the available vehicles of the gid car group
// ordered by plate, without going through a reservation.
func (flt *UseCase) ListAvailable(
	ctx context.Context, gid uuid.UUID,
) (vs []model.FleetVehicle, err error) {
	err = flt.pool.Conn(
		ctx, func(ctx context.Context, c repo.Conn) error {
			vs, err = flt.fleetrp.Conn(c).ListAvailableByGroup(
				ctx, gid,
			)
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	return vs, nil
}

// AssignVehicle binds the vid vehicle to the sid reservation, moving
// the vehicle to rented and the reservation to completed in a single
// transaction. Both sides are conditional updates: the vehicle claim
// is guarded on it being available and belonging to the reservation's
// car group, and the reservation side is guarded on its status and on
// no vehicle being assigned yet. When two admins race for the same
// vehicle, exactly one transaction commits; the loser's claim misses
// its guard, the transaction rolls back, and a conflict is reported
// with both rows untouched.
func (flt *UseCase) AssignVehicle(
	ctx context.Context, sid, vid uuid.UUID,
) (s *model.CheckoutSession, err error) {
	err = flt.pool.Conn(
		ctx, func(ctx context.Context, c repo.Conn) error {
			sess, err := flt.resrvrp.Conn(c).GetByID(ctx, sid)
			if err != nil {
				return err
			}
			return c.Tx(
				ctx, func(ctx context.Context, tx repo.Tx) error {
					fq := flt.fleetrp.Tx(tx)
					rq := flt.resrvrp.Tx(tx)
					if _, err := fq.Claim(
						ctx, vid, sess.Car.GroupID,
					); err != nil {
						return err
					}
					s, err = rq.CompleteAssignment(ctx, sid, vid)
					return err
				},
			)
		},
	)
	if err != nil {
		return nil, err
	}
	log.Info(ctx, "vehicle assigned",
		slog.String("session", sid.String()),
		slog.String("vehicle", vid.String()),
	)
	return s, nil
}

// UnassignVehicle undoes an assignment, releasing the vehicle back to
// available and moving the reservation back to approved in a single
// transaction. It reports a conflict when the reservation has no
// vehicle assigned.
func (flt *UseCase) UnassignVehicle(
	ctx context.Context, sid uuid.UUID,
) (s *model.CheckoutSession, err error) {
	err = flt.pool.Conn(
		ctx, func(ctx context.Context, c repo.Conn) error {
			sess, err := flt.resrvrp.Conn(c).GetByID(ctx, sid)
			if err != nil {
				return err
			}
			if sess.AssignedVehicleID == nil {
				return cerr.Conflict(fmt.Errorf(
					"session %s has no vehicle assigned", sid,
				))
			}
			vid := *sess.AssignedVehicleID
			return c.Tx(
				ctx, func(ctx context.Context, tx repo.Tx) error {
					rq := flt.resrvrp.Tx(tx)
					fq := flt.fleetrp.Tx(tx)
					s, err = rq.ClearAssignment(ctx, sid)
					if err != nil {
						return err
					}
					_, err = fq.Release(ctx, vid)
					return err
				},
			)
		},
	)
	if err != nil {
		return nil, err
	}
	log.Info(ctx, "vehicle unassigned",
		slog.String("session", sid.String()),
	)
	return s, nil
}

// CheckInPhoto is one inspection photo to be attached to a check-in.
type CheckInPhoto struct {
	Name string
	Data []byte
}

// CheckIn records the pickup inspection of an approved reservation,
// moving it to check_in_in_progress. The photos are uploaded to the
// object store first and only their URLs are persisted; when an
// upload fails after earlier ones succeeded, the error wraps a
// partial-write report naming the failed photo so the stray uploads
// can be reconciled manually.
func (flt *UseCase) CheckIn(
	ctx context.Context,
	sid uuid.UUID,
	report model.CheckInReport,
	photos []CheckInPhoto,
) (s *model.CheckoutSession, err error) {
	if report.FuelLevel < 0 || report.FuelLevel > 100 {
		return nil, cerr.BadRequest(fmt.Errorf(
			"fuel level %d%% is out of range", report.FuelLevel,
		))
	}
	if report.OdometerKM < 0 {
		return nil, cerr.BadRequest(
			fmt.Errorf("odometer may not be negative"),
		)
	}
	if len(photos) > flt.maxCheckinPhotos {
		return nil, cerr.BadRequest(fmt.Errorf(
			"at most %d photos are accepted",
			flt.maxCheckinPhotos,
		))
	}
	for i, p := range photos {
		url, err := flt.uploader.Upload(ctx, p.Name, p.Data)
		if err != nil {
			err = cerr.Upstream(&cerr.PartialWriteError{
				Op: fmt.Sprintf(
					"uploading photo %q (%d of %d stored)",
					p.Name, i, len(photos),
				),
				Err: err,
			})
			log.Error(ctx, "check-in photo upload failed",
				slog.String("session", sid.String()),
				log.Err("error", err),
			)
			return nil, err
		}
		report.PhotoURLs = append(report.PhotoURLs, url)
	}
	err = flt.pool.Conn(
		ctx, func(ctx context.Context, c repo.Conn) error {
			s, err = flt.resrvrp.Conn(c).RecordCheckIn(
				ctx, sid, report,
			)
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	log.Info(ctx, "reservation checked in",
		slog.String("session", sid.String()),
		slog.Int("photos", len(report.PhotoURLs)),
	)
	return s, nil
}
