// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"

	"github.com/bmoradi/fleetrent/pkg/adapter/config"
	"github.com/bmoradi/fleetrent/pkg/adapter/db/postgres/settle"
	"github.com/bmoradi/fleetrent/pkg/core/repo"
	"github.com/spf13/cobra"
)

var initProdCmd = &cobra.Command{
	Use:   "init-prod",
	Short: "Initialize database contents with production suitable data",
	Long: `Initialize database contents with production suitable data.
The database connection information are read from the config file.
All tables of the current schema major version are created empty; the
car groups and fares catalog must be loaded by the back office
afterwards. Tables which exist already are left untouched.`,
	RunE: initProd,
	Args: cobra.NoArgs,
}

var initDevCmd = &cobra.Command{
	Use:   "init-dev",
	Short: "Initialize database contents with development suitable data",
	Long: `Initialize database contents with development suitable data.
The database connection information are read from the config file.
All tables of the current schema major version are created and filled
with a small catalog of car groups, fares, and available vehicles, so
the reservation flow can be exercised right away.`,
	RunE: initDev,
	Args: cobra.NoArgs,
}

func initProd(_ *cobra.Command, _ []string) error {
	return initSchema(
		func(ctx context.Context, s *settle.Settler) error {
			return s.InitProdSchema(ctx)
		},
	)
}

func initDev(_ *cobra.Command, _ []string) error {
	return initSchema(
		func(ctx context.Context, s *settle.Settler) error {
			return s.InitDevSchema(ctx)
		},
	)
}

func initSchema(
	f func(ctx context.Context, s *settle.Settler) error,
) error {
	ctx := context.Background()
	c, err := config.LoadFile(cfgPath)
	if err != nil {
		return fmt.Errorf("config.LoadFile(%q): %w", cfgPath, err)
	}
	p, err := c.ConnectionPool(ctx)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer p.Close()
	err = p.Conn(ctx, func(ctx context.Context, conn repo.Conn) error {
		return conn.Tx(
			ctx, func(ctx context.Context, tx repo.Tx) error {
				return f(ctx, settle.New(tx))
			},
		)
	})
	if err != nil {
		return fmt.Errorf("initializing database schema: %w", err)
	}
	return nil
}

func init() {
	dbCmd.AddCommand(initProdCmd)
	dbCmd.AddCommand(initDevCmd)
}
