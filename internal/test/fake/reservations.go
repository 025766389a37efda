// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fake

import (
	"context"
	"fmt"
	"time"

	"github.com/bmoradi/fleetrent/pkg/core/cerr"
	"github.com/bmoradi/fleetrent/pkg/core/model"
	"github.com/bmoradi/fleetrent/pkg/core/repo"
	"github.com/google/uuid"
)

// Reservations is an in-memory repo.Reservations implementation. All
// status mutations follow the compare-and-set contract of the
// postgres adapter: requesting the status a session already has is an
// idempotent no-op, any other guard miss is a conflict carrying an
// InvalidTransitionError, and a missing session is a not-found error.
type Reservations struct {
	locker
	sessions map[uuid.UUID]*model.CheckoutSession
	nextNum  int64
}

// NewReservations creates an empty in-memory reservations repository.
func NewReservations() *Reservations {
	return &Reservations{
		sessions: make(map[uuid.UUID]*model.CheckoutSession),
		nextNum:  1001,
	}
}

// Conn returns the queryer interface of this fake repository.
func (r *Reservations) Conn(repo.Conn) repo.ReservationsConnQueryer {
	return r
}

// Tx returns the queryer interface of this fake repository.
func (r *Reservations) Tx(repo.Tx) repo.ReservationsTxQueryer {
	return r
}

func cloneSession(s *model.CheckoutSession) *model.CheckoutSession {
	c := *s
	c.Optionals = append([]model.SessionLine(nil), s.Optionals...)
	if s.DriverID != nil {
		did := *s.DriverID
		c.DriverID = &did
	}
	if s.AssignedVehicleID != nil {
		vid := *s.AssignedVehicleID
		c.AssignedVehicleID = &vid
	}
	if s.CheckIn != nil {
		ci := *s.CheckIn
		ci.PhotoURLs = append([]string(nil), s.CheckIn.PhotoURLs...)
		c.CheckIn = &ci
	}
	return &c
}

func (r *Reservations) CreateWithItems(
	ctx context.Context, s *model.CheckoutSession,
) (*model.CheckoutSession, error) {
	defer r.lock()()
	c := cloneSession(s)
	c.ID = uuid.New()
	c.ReservationNumber = r.nextNum
	r.nextNum++
	c.Status = model.StatusDraft
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.sessions[c.ID] = c
	return cloneSession(c), nil
}

func (r *Reservations) GetByID(
	ctx context.Context, sid uuid.UUID,
) (*model.CheckoutSession, error) {
	defer r.lock()()
	s, ok := r.sessions[sid]
	if !ok {
		return nil, cerr.NotFound(
			fmt.Errorf("session %s does not exist", sid),
		)
	}
	return cloneSession(s), nil
}

func (r *Reservations) List(
	ctx context.Context,
	status model.ReservationStatus,
	offset, limit int,
) ([]model.CheckoutSession, int64, error) {
	defer r.lock()()
	var all []model.CheckoutSession
	for _, s := range r.sessions {
		if status != "" && s.Status != status {
			continue
		}
		all = append(all, *cloneSession(s))
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (r *Reservations) SubmitSchedule(
	ctx context.Context,
	sid uuid.UUID,
	date time.Time,
	pickupTime string,
) (*model.CheckoutSession, error) {
	defer r.lock()()
	s, ok := r.sessions[sid]
	if !ok {
		return nil, cerr.NotFound(
			fmt.Errorf("session %s does not exist", sid),
		)
	}
	if s.Status != model.StatusDraft &&
		s.Status != model.StatusScheduled {
		return nil, cerr.Conflict(&cerr.InvalidTransitionError{
			s.Status, model.StatusScheduled,
		})
	}
	s.PickupDate = &date
	s.PickupTime = pickupTime
	s.Status = model.StatusScheduled
	s.UpdatedAt = time.Now()
	return cloneSession(s), nil
}

func (r *Reservations) ConfirmPayment(
	ctx context.Context,
	sid uuid.UUID,
	method model.PaymentMethod,
	paymentRef string,
	total int64,
) (*model.CheckoutSession, error) {
	defer r.lock()()
	s, ok := r.sessions[sid]
	if !ok {
		return nil, cerr.NotFound(
			fmt.Errorf("session %s does not exist", sid),
		)
	}
	switch s.Status {
	case model.StatusScheduled:
	case model.StatusPendingApproval:
		return cloneSession(s), nil // idempotent retry
	default:
		return nil, cerr.Conflict(&cerr.InvalidTransitionError{
			s.Status, model.StatusPendingApproval,
		})
	}
	s.PaymentMethod = method
	s.PaymentRef = paymentRef
	s.TotalAmount = total
	s.Status = model.StatusPendingApproval
	s.UpdatedAt = time.Now()
	return cloneSession(s), nil
}

func (r *Reservations) UpdateStatus(
	ctx context.Context,
	sid uuid.UUID,
	from, to model.ReservationStatus,
) (*model.CheckoutSession, error) {
	defer r.lock()()
	s, ok := r.sessions[sid]
	if !ok {
		return nil, cerr.NotFound(
			fmt.Errorf("session %s does not exist", sid),
		)
	}
	switch s.Status {
	case from:
	case to:
		return cloneSession(s), nil // idempotent retry
	default:
		return nil, cerr.Conflict(&cerr.InvalidTransitionError{
			s.Status, to,
		})
	}
	s.Status = to
	s.UpdatedAt = time.Now()
	return cloneSession(s), nil
}

func (r *Reservations) UpgradeCar(
	ctx context.Context,
	sid uuid.UUID,
	car model.SelectedCar,
	total int64,
) (*model.CheckoutSession, error) {
	defer r.lock()()
	s, ok := r.sessions[sid]
	if !ok {
		return nil, cerr.NotFound(
			fmt.Errorf("session %s does not exist", sid),
		)
	}
	if s.AssignedVehicleID != nil ||
		(s.Status != model.StatusPendingApproval &&
			s.Status != model.StatusApproved) {
		return nil, cerr.Conflict(fmt.Errorf(
			"session %s may not be upgraded in status %s",
			sid, s.Status,
		))
	}
	s.Car = car
	s.TotalAmount = total
	s.UpdatedAt = time.Now()
	return cloneSession(s), nil
}

func (r *Reservations) RecordCheckIn(
	ctx context.Context,
	sid uuid.UUID,
	report model.CheckInReport,
) (*model.CheckoutSession, error) {
	defer r.lock()()
	s, ok := r.sessions[sid]
	if !ok {
		return nil, cerr.NotFound(
			fmt.Errorf("session %s does not exist", sid),
		)
	}
	switch s.Status {
	case model.StatusApproved:
	case model.StatusCheckIn:
		return cloneSession(s), nil // idempotent retry
	default:
		return nil, cerr.Conflict(&cerr.InvalidTransitionError{
			s.Status, model.StatusCheckIn,
		})
	}
	s.CheckIn = &report
	s.Status = model.StatusCheckIn
	s.UpdatedAt = time.Now()
	return cloneSession(s), nil
}

func (r *Reservations) CompleteAssignment(
	ctx context.Context, sid, vid uuid.UUID,
) (*model.CheckoutSession, error) {
	defer r.lock()()
	s, ok := r.sessions[sid]
	if !ok {
		return nil, cerr.NotFound(
			fmt.Errorf("session %s does not exist", sid),
		)
	}
	if s.Status == model.StatusCompleted &&
		s.AssignedVehicleID != nil &&
		*s.AssignedVehicleID == vid {
		return cloneSession(s), nil // idempotent retry
	}
	if s.AssignedVehicleID != nil ||
		(s.Status != model.StatusApproved &&
			s.Status != model.StatusCheckIn) {
		return nil, cerr.Conflict(&cerr.InvalidTransitionError{
			s.Status, model.StatusCompleted,
		})
	}
	s.AssignedVehicleID = &vid
	s.Status = model.StatusCompleted
	s.UpdatedAt = time.Now()
	return cloneSession(s), nil
}

func (r *Reservations) ClearAssignment(
	ctx context.Context, sid uuid.UUID,
) (*model.CheckoutSession, error) {
	defer r.lock()()
	s, ok := r.sessions[sid]
	if !ok {
		return nil, cerr.NotFound(
			fmt.Errorf("session %s does not exist", sid),
		)
	}
	if s.Status != model.StatusCompleted ||
		s.AssignedVehicleID == nil {
		return nil, cerr.Conflict(fmt.Errorf(
			"session %s has no assignment to clear", sid,
		))
	}
	s.AssignedVehicleID = nil
	s.Status = model.StatusApproved
	s.UpdatedAt = time.Now()
	return cloneSession(s), nil
}
