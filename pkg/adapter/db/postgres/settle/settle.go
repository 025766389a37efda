// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package settle creates the fleetrent database schema. It can
// initialize an empty database with the production tables alone or
// with development suitable sample data on top of them (a small
// catalog of car groups, fares, and fleet vehicles), as used by the
// `frweb db init-prod` and `frweb db init-dev` commands and by the
// integration test suites.
package settle

import (
	"context"
	"fmt"

	"github.com/bmoradi/fleetrent/pkg/core/repo"
)

// These constants indicate the major, minor, and patch components of
// the current database schema semantic version.
const (
	Major = 1
	Minor = 0
	Patch = 0
)

// Settler wraps a single database transaction and creates schema
// objects in it. The caller is responsible to commit that transaction
// in order to finalize the initialization results.
type Settler struct {
	tx repo.Tx
}

// New creates a new Settler instance, wrapping the given tx database
// transaction.
func New(tx repo.Tx) *Settler {
	return &Settler{tx: tx}
}

// schemaDDL contains the complete table set of schema major version 1.
// The reservation_number identity column provides the monotonically
// increasing, human facing reservation numbers. There is
// no uniqueness constraint on checkout_sessions.assigned_vehicle_id:
// one vehicle serves many completed reservations over time, and the
// at-most-one-active-claim invariant is enforced by the conditional
// status flip on fleet_vehicles instead.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS car_groups (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    category VARCHAR(64) NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT '',
    display_order INT NOT NULL
);

CREATE TABLE IF NOT EXISTS group_fares (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    group_id UUID NOT NULL REFERENCES car_groups (id),
    plan_type VARCHAR(32) NOT NULL,
    period_days INT NOT NULL,
    base_price BIGINT NOT NULL,
    km_included BIGINT NOT NULL DEFAULT 0,
    extra_km_price BIGINT NOT NULL DEFAULT 0,
    UNIQUE (group_id, plan_type, period_days)
);

CREATE TABLE IF NOT EXISTS driver_details (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    full_name VARCHAR(128) NOT NULL,
    email VARCHAR(128) NOT NULL,
    phone VARCHAR(32) NOT NULL DEFAULT '',
    document_number VARCHAR(64) NOT NULL DEFAULT '',
    license_number VARCHAR(64) NOT NULL DEFAULT '',
    license_expiry DATE,
    verification_status VARCHAR(16) NOT NULL DEFAULT 'pending',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS fleet_vehicles (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    plate VARCHAR(16) NOT NULL UNIQUE,
    car_model VARCHAR(64) NOT NULL,
    group_id UUID NOT NULL REFERENCES car_groups (id),
    status VARCHAR(16) NOT NULL DEFAULT 'available',
    current_km BIGINT NOT NULL DEFAULT 0,
    last_revision_at DATE,
    next_revision_at DATE
);
CREATE INDEX IF NOT EXISTS fleet_vehicles_group_status_idx
    ON fleet_vehicles (group_id, status);

CREATE TABLE IF NOT EXISTS checkout_sessions (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    reservation_number BIGINT UNIQUE NOT NULL
        GENERATED ALWAYS AS IDENTITY (START WITH 1001),
    driver_id UUID REFERENCES driver_details (id),
    car_group_id UUID NOT NULL REFERENCES car_groups (id),
    car_category VARCHAR(64) NOT NULL,
    plan_type VARCHAR(32) NOT NULL,
    period_days INT NOT NULL,
    car_price BIGINT NOT NULL,
    pickup_date DATE,
    pickup_time VARCHAR(8) NOT NULL DEFAULT '',
    payment_method VARCHAR(8) NOT NULL DEFAULT '',
    payment_ref VARCHAR(128) NOT NULL DEFAULT '',
    total_amount BIGINT NOT NULL,
    status VARCHAR(32) NOT NULL DEFAULT 'draft',
    assigned_vehicle_id UUID REFERENCES fleet_vehicles (id),
    fuel_level INT,
    odometer_km BIGINT,
    checkin_notes TEXT NOT NULL DEFAULT '',
    checkin_photos JSONB NOT NULL DEFAULT '[]',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS checkout_sessions_status_idx
    ON checkout_sessions (status);

CREATE TABLE IF NOT EXISTS cart_items (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    session_id UUID NOT NULL REFERENCES checkout_sessions (id),
    item_type VARCHAR(16) NOT NULL,
    name VARCHAR(128) NOT NULL,
    quantity INT NOT NULL,
    unit_price BIGINT NOT NULL,
    total_price BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS cart_items_session_idx
    ON cart_items (session_id);
`

// devSeedDML inserts a development suitable catalog: three ranked car
// groups with daily/weekly fares and a handful of available vehicles.
const devSeedDML = `
INSERT INTO car_groups (category, description, display_order) VALUES
    ('Economy Hatch', 'small city cars', 1),
    ('Sedan Comfort', 'mid-size sedans', 2),
    ('SUV Black', 'premium SUVs', 3)
ON CONFLICT (category) DO NOTHING;

INSERT INTO group_fares
    (group_id, plan_type, period_days, base_price, km_included,
     extra_km_price)
SELECT g.id, f.plan_type, f.period_days, f.base_price, f.km_included,
       f.extra_km_price
FROM car_groups g
JOIN (VALUES
    ('Economy Hatch', 'standard', 1, 25000, 200, 120),
    ('Economy Hatch', 'standard', 7, 150000, 1200, 120),
    ('Sedan Comfort', 'standard', 1, 40000, 200, 150),
    ('Sedan Comfort', 'standard', 7, 240000, 1200, 150),
    ('SUV Black', 'standard', 1, 70000, 250, 200),
    ('SUV Black', 'standard', 7, 420000, 1500, 200)
) AS f (category, plan_type, period_days, base_price, km_included,
        extra_km_price)
    ON f.category = g.category
ON CONFLICT (group_id, plan_type, period_days) DO NOTHING;

INSERT INTO fleet_vehicles (plate, car_model, group_id, current_km)
SELECT v.plate, v.car_model, g.id, v.current_km
FROM car_groups g
JOIN (VALUES
    ('FLT-0101', 'Fiat Argo', 'Economy Hatch', 42100),
    ('FLT-0102', 'Hyundai HB20', 'Economy Hatch', 18753),
    ('FLT-0201', 'Toyota Corolla', 'Sedan Comfort', 30950),
    ('FLT-0301', 'Jeep Commander', 'SUV Black', 8020)
) AS v (plate, car_model, category, current_km)
    ON v.category = g.category
ON CONFLICT (plate) DO NOTHING;
`

// InitProdSchema creates the major version 1 tables, leaving all of
// them empty. The catalog must be loaded by the back office
// afterwards.
func (s *Settler) InitProdSchema(ctx context.Context) error {
	if _, err := s.tx.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

// InitDevSchema creates the major version 1 tables and fills them
// with the development suitable initial data.
func (s *Settler) InitDevSchema(ctx context.Context) error {
	if err := s.InitProdSchema(ctx); err != nil {
		return err
	}
	if _, err := s.tx.Exec(ctx, devSeedDML); err != nil {
		return fmt.Errorf("seeding dev data: %w", err)
	}
	return nil
}

// MajorVersion returns the major semantic version of this Settler.
func (s *Settler) MajorVersion() uint {
	return Major
}
