// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settle_test

import (
	"context"
	"testing"
	"time"

	"github.com/bmoradi/fleetrent/internal/test/dbcontainer"
	"github.com/bmoradi/fleetrent/internal/test/schema"
	"github.com/bmoradi/fleetrent/pkg/adapter/db/postgres/settle"
	"github.com/bmoradi/fleetrent/pkg/core/repo"
	"github.com/stretchr/testify/require"
)

func TestIntegrationInitSchema(t *testing.T) {
	ctx := context.Background()
	_, pool, dfrs, ok := dbcontainer.New(ctx, 60*time.Second, t)
	for _, f := range dfrs {
		defer f()
	}
	if !ok {
		return // errors are already logged
	}

	err := pool.Conn(
		ctx, func(ctx context.Context, c repo.Conn) error {
			err := c.Tx(
				ctx, func(ctx context.Context, tx repo.Tx) error {
					return settle.New(tx).InitProdSchema(ctx)
				},
			)
			require.NoError(t, err, "cannot init prod schema")
			v := schema.New(c)
			v.VerifySchema(ctx, t)
			v.VerifyProdData(ctx, t)
			return nil
		},
	)
	require.NoError(t, err, "cannot acquire a connection")

	// the dev initialization is idempotent over the prod tables
	err = pool.Conn(
		ctx, func(ctx context.Context, c repo.Conn) error {
			err := c.Tx(
				ctx, func(ctx context.Context, tx repo.Tx) error {
					return settle.New(tx).InitDevSchema(ctx)
				},
			)
			require.NoError(t, err, "cannot init dev schema")
			v := schema.New(c)
			v.VerifySchema(ctx, t)
			v.VerifyDevData(ctx, t)
			return nil
		},
	)
	require.NoError(t, err, "cannot acquire a connection")
}
