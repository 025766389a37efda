// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schema verifies the fleetrent database schema for testing
// purposes. The schema itself (presence of the expected tables) and
// the development suitable initial data rows can be checked after a
// database initialization. Only presence of the expected objects and
// not the absence of extra ones will be checked.
package schema

import (
	"context"
	"testing"

	"github.com/bmoradi/fleetrent/pkg/core/repo"
	"github.com/stretchr/testify/assert"
)

// Tables of the schema major version 1.
var tables = []string{
	"car_groups",
	"group_fares",
	"driver_details",
	"fleet_vehicles",
	"checkout_sessions",
	"cart_items",
}

// Verifier wraps a database connection and verifies the database
// schema and contents using it.
type Verifier struct {
	c repo.Conn
}

// New instantiates a Verifier struct, wrapping the `c` database
// connection. Since Verifier fields are not exported, the New
// function is required for its initialization.
func New(c repo.Conn) *Verifier {
	return &Verifier{c}
}

// VerifySchema checks that all tables of the current schema major
// version exist. Possible issues are reported using the `t` testing
// argument.
func (v *Verifier) VerifySchema(ctx context.Context, t *testing.T) {
	for _, table := range tables {
		count, ok := v.countRows(
			ctx, t,
			`SELECT COUNT(*) FROM information_schema.tables
			WHERE table_schema='public' AND table_name=$1`,
			table,
		)
		if !ok {
			continue
		}
		assert.Equal(
			t, int64(1), count, "missing table: %s", table,
		)
	}
}

// VerifyDevData checks for presence of the development suitable
// initial data and marks possible issues using the `t` testing
// argument. Presence of extra rows is acceptable.
func (v *Verifier) VerifyDevData(ctx context.Context, t *testing.T) {
	for table, minRows := range map[string]int64{
		"car_groups":     3,
		"group_fares":    6,
		"fleet_vehicles": 4,
	} {
		count, ok := v.countRows(
			ctx, t, "SELECT COUNT(*) FROM "+table,
		)
		if !ok {
			continue
		}
		assert.GreaterOrEqual(
			t, count, minRows, "too few rows in: %s", table,
		)
	}
}

// VerifyProdData checks that the catalog tables were created empty,
// as suitable for a production initialization.
func (v *Verifier) VerifyProdData(ctx context.Context, t *testing.T) {
	for _, table := range []string{
		"car_groups", "group_fares", "fleet_vehicles",
	} {
		count, ok := v.countRows(
			ctx, t, "SELECT COUNT(*) FROM "+table,
		)
		if !ok {
			continue
		}
		assert.Zero(t, count, "unexpected rows in: %s", table)
	}
}

func (v *Verifier) countRows(
	ctx context.Context, t *testing.T, sql string, args ...any,
) (count int64, ok bool) {
	rows, err := v.c.Query(ctx, sql, args...)
	if !assert.NoError(t, err, "querying: %s", sql) {
		return 0, false
	}
	defer rows.Close()
	if !assert.True(t, rows.Next(), "no count row: %s", sql) {
		return 0, false
	}
	err = rows.Scan(&count)
	if !assert.NoError(t, err, "scanning count: %s", sql) {
		return 0, false
	}
	return count, true
}
