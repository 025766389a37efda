// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the
// fleetrent web project. Commands are organized using the cobra
// library. The root command starts the web server itself while the
// "db" sub-command can be used for the database initialization
// actions. The init-dev and init-prod actions initialize the database
// with the development or production suitable data records.
//
//	./frweb [-c /path/of/main/config.yaml]           # start web server
//	./frweb db init-dev [-c /path/of/main/config.yaml]
//	./frweb db init-prod [-c /path/of/main/config.yaml]
package command

import (
	"context"
	"fmt"
	"os"

	"github.com/bmoradi/fleetrent/pkg/adapter/config"
	"github.com/bmoradi/fleetrent/pkg/adapter/restful/gin"
	"github.com/bmoradi/fleetrent/pkg/adapter/restful/gin/routes"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "frweb",
	Short: "The vehicle rental reservation web service",
	Long: `The vehicle rental reservation web service carries customer
carts through checkout into durable reservations and lets the rental
office review, upgrade, and fulfill them with concrete fleet vehicles.
The customer APIs commit a cart as a checkout session, submit the
pickup schedule, and confirm the payment method (creating a payment
intent for the online path). The admin APIs approve or reject the
submitted reservations, resolve car group upgrades, bind exactly one
available vehicle to each approved reservation, and record the pickup
inspection with its photos.`,
	RunE: startWebServer,
}

func startWebServer(_ *cobra.Command, _ []string) error {
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
	var e *gin.Engine = c.Gin.NewEngine()
	if err = routes.Register(ctx, e, p, c); err != nil {
		return fmt.Errorf("registering routes: %w", err)
	}
	if err = e.Run(); err != nil {
		return fmt.Errorf("running Gin engine: %w", err)
	}
	return nil
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command. The exit code may
// be a boolean (zero for success and non-zero for failure) or may be
// chosen based on the error condition (if it is desired to report
// several error conditions in the CLI of this program).
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadDotEnv, fixConfigPath)
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
}

// loadDotEnv loads a .env file from the working directory when one
// exists, so the secret environment variables can be provided without
// exporting them manually during development.
func loadDotEnv() {
	if _, err := os.Stat(".env"); err != nil {
		return
	}
	if err := godotenv.Overload(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "loading .env: %v\n", err)
	}
}

// fixConfigPath ensures that cfgPath is set respectively by either the
// CLI args, the CONFIG_FILE environment variable, or its default value.
func fixConfigPath() {
	if cfgPath != "" {
		return
	}
	var found bool
	if cfgPath, found = os.LookupEnv("CONFIG_FILE"); !found {
		cfgPath = "configs/sample-config.yaml"
	}
}
