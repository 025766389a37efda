// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package reservationsrp is the checkout sessions repository. Every
// status mutation is a conditional UPDATE guarded on the currently
// stored status (and, where relevant, on the assigned vehicle being
// absent), with the updated row read back through a RETURNING clause.
// A guard miss is inspected afterwards and reported as not-found, as
// an idempotent no-op, or as a conflict, so concurrent admin actions
// against one session can never both win silently.
package reservationsrp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bmoradi/fleetrent/pkg/adapter/db/postgres"
	"github.com/bmoradi/fleetrent/pkg/core/cerr"
	"github.com/bmoradi/fleetrent/pkg/core/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gSession struct {
	ID                uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ReservationNumber int64     `gorm:"->;default:(-)"`
	DriverID          *uuid.UUID
	CarGroupID        uuid.UUID
	CarCategory       string
	PlanType          string
	PeriodDays        int
	CarPrice          int64
	PickupDate        *time.Time
	PickupTime        string
	PaymentMethod     string
	PaymentRef        string
	TotalAmount       int64
	Status            string
	AssignedVehicleID *uuid.UUID
	FuelLevel         *int
	OdometerKM        *int64  `gorm:"column:odometer_km"`
	CheckinNotes      string
	CheckinPhotos     []string `gorm:"serializer:json;type:jsonb"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

func (gs *gSession) TableName() string {
	return "checkout_sessions"
}

type gItem struct {
	ID         uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	SessionID  uuid.UUID `gorm:"index"`
	ItemType   string
	Name       string
	Quantity   int
	UnitPrice  int64
	TotalPrice int64
}

func (gi *gItem) TableName() string {
	return "cart_items"
}

func (gs *gSession) Model(items []gItem) *model.CheckoutSession {
	s := &model.CheckoutSession{
		ID:                gs.ID,
		ReservationNumber: gs.ReservationNumber,
		DriverID:          gs.DriverID,
		Car: model.SelectedCar{
			GroupID:    gs.CarGroupID,
			Category:   gs.CarCategory,
			PlanType:   gs.PlanType,
			PeriodDays: gs.PeriodDays,
			Price:      gs.CarPrice,
		},
		PickupDate:        gs.PickupDate,
		PickupTime:        gs.PickupTime,
		PaymentMethod:     model.PaymentMethod(gs.PaymentMethod),
		PaymentRef:        gs.PaymentRef,
		TotalAmount:       gs.TotalAmount,
		Status:            model.ReservationStatus(gs.Status),
		AssignedVehicleID: gs.AssignedVehicleID,
		CreatedAt:         gs.CreatedAt,
		UpdatedAt:         gs.UpdatedAt,
	}
	if gs.FuelLevel != nil || gs.OdometerKM != nil ||
		gs.CheckinNotes != "" || len(gs.CheckinPhotos) > 0 {
		r := &model.CheckInReport{
			Notes:     gs.CheckinNotes,
			PhotoURLs: gs.CheckinPhotos,
		}
		if gs.FuelLevel != nil {
			r.FuelLevel = *gs.FuelLevel
		}
		if gs.OdometerKM != nil {
			r.OdometerKM = *gs.OdometerKM
		}
		s.CheckIn = r
	}
	for _, it := range items {
		if it.ItemType == model.LineTypeCarGroup.String() {
			continue // reflected by the Car field already
		}
		lt, err := model.ParseLineType(it.ItemType)
		if err != nil {
			continue // tolerate rows written by newer versions
		}
		s.Optionals = append(s.Optionals, model.SessionLine{
			Type:       lt,
			Name:       it.Name,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
		})
	}
	return s
}

func itemRows(sid uuid.UUID, s *model.CheckoutSession) []gItem {
	rows := []gItem{{
		SessionID:  sid,
		ItemType:   model.LineTypeCarGroup.String(),
		Name:       s.Car.Category,
		Quantity:   1,
		UnitPrice:  s.Car.Price,
		TotalPrice: s.Car.Price,
	}}
	for _, o := range s.Optionals {
		rows = append(rows, gItem{
			SessionID:  sid,
			ItemType:   o.Type.String(),
			Name:       o.Name,
			Quantity:   o.Quantity,
			UnitPrice:  o.UnitPrice,
			TotalPrice: o.TotalPrice,
		})
	}
	return rows
}

// CreateWithItems persists the session row and its cart_items child
// rows. It must be called within a transaction, so the financials of
// a session can never be half-written: if any child row fails, the
// session row is rolled back with it.
func CreateWithItems(
	ctx context.Context, q *postgres.Tx, s *model.CheckoutSession,
) (*model.CheckoutSession, error) {
	gdb := q.GORM(ctx)
	gs := &gSession{
		DriverID:      s.DriverID,
		CarGroupID:    s.Car.GroupID,
		CarCategory:   s.Car.Category,
		PlanType:      s.Car.PlanType,
		PeriodDays:    s.Car.PeriodDays,
		CarPrice:      s.Car.Price,
		PaymentMethod: string(s.PaymentMethod),
		TotalAmount:   s.TotalAmount,
		Status:        string(model.StatusDraft),
	}
	if err := gdb.Create(gs).Error; err != nil {
		return nil, wrapWriteErr("creating session", err)
	}
	items := itemRows(gs.ID, s)
	if err := gdb.Create(&items).Error; err != nil {
		return nil, wrapWriteErr("creating session items", err)
	}
	return gs.Model(items), nil
}

// wrapWriteErr maps referential integrity violations to bad-request
// errors (the caller referenced a driver or group which does not
// exist) and keeps other failures as plain wrapped errors.
func wrapWriteErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.SQLState() == "23503" {
		return cerr.BadRequest(
			fmt.Errorf("%s: unknown reference: %w", op, err),
		)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func GetByID[Q postgres.Queryer](
	ctx context.Context, q Q, sid uuid.UUID,
) (*model.CheckoutSession, error) {
	gdb := q.GORM(ctx)
	gs := &gSession{}
	err := gdb.Where("id=?", sid).First(gs).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, cerr.NotFound(
			fmt.Errorf("no session with id %s", sid),
		)
	case err != nil:
		return nil, fmt.Errorf("query: %w", err)
	}
	items, err := loadItems(ctx, q, sid)
	if err != nil {
		return nil, err
	}
	return gs.Model(items), nil
}

func loadItems[Q postgres.Queryer](
	ctx context.Context, q Q, sid uuid.UUID,
) ([]gItem, error) {
	gdb := q.GORM(ctx)
	var items []gItem
	err := gdb.Where("session_id=?", sid).Order("item_type").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("loading items: %w", err)
	}
	return items, nil
}

func List[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	status model.ReservationStatus,
	offset, limit int,
) ([]model.CheckoutSession, int64, error) {
	gdb := q.GORM(ctx)
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	tail := gdb.Model(&gSession{})
	if status != "" {
		tail = tail.Where("status=?", string(status))
	}
	var total int64
	if err := tail.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting: %w", err)
	}
	var gss []gSession
	err := tail.Order("created_at DESC").
		Offset(offset).Limit(limit).Find(&gss).Error
	if err != nil {
		return nil, 0, fmt.Errorf("query: %w", err)
	}
	sessions := make([]model.CheckoutSession, 0, len(gss))
	for i := range gss {
		items, err := loadItems(ctx, q, gss[i].ID)
		if err != nil {
			return nil, 0, err
		}
		sessions = append(sessions, *gss[i].Model(items))
	}
	return sessions, total, nil
}

// guarded runs one conditional update: rows matching the cond
// condition (always including the session id) are updated with the
// selected fields of the update row and read back. A guard miss falls
// back to the miss callback with the currently stored row, which
// decides between not-found, no-op, and conflict outcomes.
func guarded[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	sid uuid.UUID,
	fields []string,
	update gSession,
	cond string,
	condArgs []any,
	miss func(current *gSession) (*model.CheckoutSession, error),
) (*model.CheckoutSession, error) {
	gdb := q.GORM(ctx)
	var gss []gSession
	args := append([]any{sid}, condArgs...)
	res := gdb.Model(&gss).Clauses(clause.Returning{}).Select(
		fields[0], toAny(fields[1:])...,
	).Where(
		"id=? AND "+cond, args...,
	).Updates(update)
	if err := res.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(gss) == 1 {
		items, err := loadItems(ctx, q, sid)
		if err != nil {
			return nil, err
		}
		return gss[0].Model(items), nil
	}
	current := &gSession{}
	err := q.GORM(ctx).Where("id=?", sid).First(current).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, cerr.NotFound(
			fmt.Errorf("no session with id %s", sid),
		)
	case err != nil:
		return nil, fmt.Errorf("query: %w", err)
	}
	return miss(current)
}

func toAny(ss []string) []any {
	aa := make([]any, len(ss))
	for i, s := range ss {
		aa[i] = s
	}
	return aa
}

// noopOrConflict resolves a guard miss for a plain status move: when
// the stored status already equals the requested one, the retried
// action is a no-op and the current row is returned as the success
// result; otherwise the move is reported as an illegal transition.
func noopOrConflict[Q postgres.Queryer](
	ctx context.Context, q Q, to model.ReservationStatus,
) func(*gSession) (*model.CheckoutSession, error) {
	return func(current *gSession) (*model.CheckoutSession, error) {
		if current.Status == string(to) {
			items, err := loadItems(ctx, q, current.ID)
			if err != nil {
				return nil, err
			}
			return current.Model(items), nil
		}
		return nil, cerr.Conflict(&cerr.InvalidTransitionError{
			model.ReservationStatus(current.Status), to,
		})
	}
}

// SubmitSchedule moves a draft session to scheduled, recording the
// pickup date and time. Re-submitting while still scheduled replaces
// the previous schedule, so a retried submission stays safe.
func SubmitSchedule[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	sid uuid.UUID,
	date time.Time,
	pickupTime string,
) (*model.CheckoutSession, error) {
	return guarded(ctx, q, sid,
		[]string{"pickup_date", "pickup_time", "status"},
		gSession{
			PickupDate: &date,
			PickupTime: pickupTime,
			Status:     string(model.StatusScheduled),
		},
		"status IN ?",
		[]any{[]string{
			string(model.StatusDraft),
			string(model.StatusScheduled),
		}},
		func(current *gSession) (*model.CheckoutSession, error) {
			return nil, cerr.Conflict(&cerr.InvalidTransitionError{
				model.ReservationStatus(current.Status),
				model.StatusScheduled,
			})
		},
	)
}

// ConfirmPayment moves a scheduled session to pending_approval,
// recording the payment method, the gateway reference, and the total
// recomputed for that method. A session already pending approval is
// returned as-is (retried confirmation).
func ConfirmPayment[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	sid uuid.UUID,
	method model.PaymentMethod,
	paymentRef string,
	total int64,
) (*model.CheckoutSession, error) {
	return guarded(ctx, q, sid,
		[]string{
			"payment_method", "payment_ref", "total_amount", "status",
		},
		gSession{
			PaymentMethod: string(method),
			PaymentRef:    paymentRef,
			TotalAmount:   total,
			Status:        string(model.StatusPendingApproval),
		},
		"status=?",
		[]any{string(model.StatusScheduled)},
		noopOrConflict(ctx, q, model.StatusPendingApproval),
	)
}

// UpdateStatus moves a session from one status to another with a
// compare-and-set on the stored status.
func UpdateStatus[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	sid uuid.UUID,
	from, to model.ReservationStatus,
) (*model.CheckoutSession, error) {
	return guarded(ctx, q, sid,
		[]string{"status"},
		gSession{Status: string(to)},
		"status=?",
		[]any{string(from)},
		noopOrConflict(ctx, q, to),
	)
}

// UpgradeCar replaces the selected car and the session total in one
// conditional update, guarded on the review statuses and on no
// vehicle being assigned yet. The car_group line of the cart_items
// child rows is rewritten in the same operation so the persisted
// financials stay reconstructable.
func UpgradeCar(
	ctx context.Context,
	q *postgres.Tx,
	sid uuid.UUID,
	car model.SelectedCar,
	total int64,
) (*model.CheckoutSession, error) {
	s, err := guarded(ctx, q, sid,
		[]string{
			"car_group_id", "car_category", "plan_type",
			"period_days", "car_price", "total_amount",
		},
		gSession{
			CarGroupID:  car.GroupID,
			CarCategory: car.Category,
			PlanType:    car.PlanType,
			PeriodDays:  car.PeriodDays,
			CarPrice:    car.Price,
			TotalAmount: total,
		},
		"status IN ? AND assigned_vehicle_id IS NULL",
		[]any{[]string{
			string(model.StatusPendingApproval),
			string(model.StatusApproved),
		}},
		func(current *gSession) (*model.CheckoutSession, error) {
			if current.AssignedVehicleID != nil {
				return nil, cerr.Conflict(fmt.Errorf(
					"session %s already has vehicle %s assigned",
					sid, current.AssignedVehicleID,
				))
			}
			return nil, cerr.Conflict(fmt.Errorf(
				"session %s is %s; upgrades need review",
				sid, current.Status,
			))
		},
	)
	if err != nil {
		return nil, err
	}
	gdb := q.GORM(ctx)
	err = gdb.Model(&gItem{}).Where(
		"session_id=? AND item_type=?",
		sid, model.LineTypeCarGroup.String(),
	).Updates(map[string]any{
		"name":        car.Category,
		"unit_price":  car.Price,
		"total_price": car.Price,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("rewriting car line: %w", err)
	}
	return s, nil
}

// RecordCheckIn stores the inspection artifacts and moves the session
// from approved to check_in_in_progress.
func RecordCheckIn[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	sid uuid.UUID,
	report model.CheckInReport,
) (*model.CheckoutSession, error) {
	photos := report.PhotoURLs
	if photos == nil {
		photos = []string{}
	}
	return guarded(ctx, q, sid,
		[]string{
			"fuel_level", "odometer_km", "checkin_notes",
			"checkin_photos", "status",
		},
		gSession{
			FuelLevel:     &report.FuelLevel,
			OdometerKM:    &report.OdometerKM,
			CheckinNotes:  report.Notes,
			CheckinPhotos: photos,
			Status:        string(model.StatusCheckIn),
		},
		"status=?",
		[]any{string(model.StatusApproved)},
		noopOrConflict(ctx, q, model.StatusCheckIn),
	)
}

// CompleteAssignment records the assigned vehicle and flips the
// session to completed. A session can never reach completed without
// a confirmed vehicle claim, which is why this update is only
// reachable from the same transaction which claimed the vehicle.
func CompleteAssignment(
	ctx context.Context, q *postgres.Tx, sid, vid uuid.UUID,
) (*model.CheckoutSession, error) {
	return guarded(ctx, q, sid,
		[]string{"assigned_vehicle_id", "status"},
		gSession{
			AssignedVehicleID: &vid,
			Status:            string(model.StatusCompleted),
		},
		"status IN ? AND assigned_vehicle_id IS NULL",
		[]any{[]string{
			string(model.StatusApproved),
			string(model.StatusCheckIn),
		}},
		func(current *gSession) (*model.CheckoutSession, error) {
			if current.AssignedVehicleID != nil &&
				*current.AssignedVehicleID == vid &&
				current.Status == string(model.StatusCompleted) {
				items, err := loadItems(ctx, q, sid)
				if err != nil {
					return nil, err
				}
				return current.Model(items), nil
			}
			if current.AssignedVehicleID != nil {
				return nil, cerr.Conflict(fmt.Errorf(
					"session %s already bound to vehicle %s",
					sid, current.AssignedVehicleID,
				))
			}
			return nil, cerr.Conflict(&cerr.InvalidTransitionError{
				model.ReservationStatus(current.Status),
				model.StatusCompleted,
			})
		},
	)
}

// ClearAssignment removes the assigned vehicle from a completed
// session and moves it back to approved, as the inverse of
// CompleteAssignment.
func ClearAssignment(
	ctx context.Context, q *postgres.Tx, sid uuid.UUID,
) (*model.CheckoutSession, error) {
	gdb := q.GORM(ctx)
	var gss []gSession
	res := gdb.Model(&gss).Clauses(clause.Returning{}).Where(
		"id=? AND status=? AND assigned_vehicle_id IS NOT NULL",
		sid, string(model.StatusCompleted),
	).Updates(map[string]any{
		"assigned_vehicle_id": nil,
		"status":              string(model.StatusApproved),
	})
	if err := res.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(gss) != 1 {
		return nil, cerr.Conflict(fmt.Errorf(
			"session %s has no releasable assignment", sid,
		))
	}
	items, err := loadItems(ctx, q, sid)
	if err != nil {
		return nil, err
	}
	return gss[0].Model(items), nil
}
