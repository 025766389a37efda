// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config loads and validates the YAML configuration settings
// which are required by different parts of the project, such as the
// adapters or use cases. It is preferred to implement Config with
// primitive fields or other structs which are defined locally, not
// models or structs which are defined in lower layers, so the
// configuration can be kept intact while other layers change freely.
// Secrets (the database password and the payment gateway API key) may
// be overridden by environment variables, so they can be kept out of
// the configuration file.
package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/bmoradi/fleetrent/pkg/adapter/config/settings"
	"github.com/bmoradi/fleetrent/pkg/adapter/db/postgres"
	"github.com/bmoradi/fleetrent/pkg/adapter/payment"
	"github.com/bmoradi/fleetrent/pkg/adapter/restful/gin"
	"github.com/bmoradi/fleetrent/pkg/adapter/storage/gdrive"
	"github.com/bmoradi/fleetrent/pkg/core/model"
	pcore "github.com/bmoradi/fleetrent/pkg/core/payment"
	"github.com/bmoradi/fleetrent/pkg/core/repo"
	"github.com/bmoradi/fleetrent/pkg/core/storage"
	"github.com/bmoradi/fleetrent/pkg/core/usecase/checkoutuc"
	"github.com/bmoradi/fleetrent/pkg/core/usecase/fleetuc"
	"github.com/bmoradi/fleetrent/pkg/core/usecase/reservationuc"
	"gopkg.in/yaml.v3"
)

// Major is the major version of the configuration settings which are
// supported by the Config struct. Files declaring another major
// version are rejected during loading.
const Major = 1

// Environment variables which override their file counterparts.
const (
	EnvDBPass        = "FLEETRENT_DB_PASSWORD"
	EnvPaymentAPIKey = "FLEETRENT_PAYMENT_API_KEY"
)

// Config contains all settings which are required by different parts
// of the project, such as adapters or use cases.
type Config struct {
	Version  int      // config file major version, must equal Major
	Database Database // PostgreSQL database connection settings
	Gin      Gin      // Gin-Gonic instantiation settings
	Payment  Payment  // payment gateway adapter settings
	Storage  Storage  // check-in photos object store settings
	Usecases Usecases // supported use cases configuration settings
}

// Database contains the PostgreSQL connection settings. The password
// is read from the file only when the FLEETRENT_DB_PASSWORD
// environment variable is unset.
type Database struct {
	Host string // domain name or IP address of the DBMS server
	Port int    // port number of the DBMS server
	Name string // database name, like fleetrent1_0_0
	User string // role name to authenticate as
	Pass string `yaml:"pass,omitempty"`
	// Version is the database schema semantic version which the
	// target database is expected to carry. It must match the latest
	// supported schema version, as reported by postgres.Version.
	Version model.SemVer
}

// URL returns the database connection URL which is built from the
// connection settings.
func (d Database) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s",
		url.QueryEscape(d.User), url.QueryEscape(d.Pass),
		d.Host, d.Port, d.Name,
	)
}

// ConnectionInfo returns the host, port, and database name of the
// connection information which are kept in the `d` settings.
func (d Database) ConnectionInfo() (dbName, host string, port int) {
	return d.Name, d.Host, d.Port
}

// Gin contains the gin-gonic instantiation settings.
type Gin struct {
	Logger   *bool // whether to register the gin.Logger() middleware
	Recovery *bool // whether to register the gin.Recovery() middleware
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the `g` settings.
func (g Gin) NewEngine() *gin.Engine {
	middlewares := make([]gin.HandlerFunc, 0, 2)
	if *g.Logger {
		middlewares = append(middlewares, gin.Logger())
	}
	if *g.Recovery {
		middlewares = append(middlewares, gin.Recovery())
	}
	return gin.New(middlewares...)
}

// Payment contains the payment gateway adapter settings. The API key
// is read from the file only when the FLEETRENT_PAYMENT_API_KEY
// environment variable is unset.
type Payment struct {
	BaseURL string `yaml:"base-url"`
	APIKey  string `yaml:"api-key,omitempty"`
}

// Storage contains the settings of the Google Drive folder which
// keeps the check-in inspection photos.
type Storage struct {
	CredentialsPath string `yaml:"credentials-path"`
	FolderID        string `yaml:"folder-id"`
}

// Usecases contains the configuration settings for all use cases.
type Usecases struct {
	Checkout Checkout // checkout use case related settings
	Fleet    Fleet    // fleet allocation use case related settings
}

// Checkout contains the configuration settings for the checkout use
// case. Fields are defined as pointers, so it is possible to detect
// whether they are initialized; a nil value lets the use cases layer
// select its default.
type Checkout struct {
	// MinPickupLead indicates the minimum acceptable lead between a
	// schedule submission and the requested pickup day.
	MinPickupLead *settings.Duration `yaml:"min-pickup-lead"`
	// MaxMinPickupLead is the inclusive maximum acceptable value for
	// the MinPickupLead setting.
	// A missing value indicates that there is no upper bound.
	MaxMinPickupLead *settings.Duration `yaml:"min-pickup-lead-maximum"`
}

// Fleet contains the configuration settings for the fleet allocation
// use case.
type Fleet struct {
	// MaxCheckinPhotos caps the number of photos which one check-in
	// may attach. A nil value lets the use cases layer select its
	// default.
	MaxCheckinPhotos *int `yaml:"max-checkin-photos"`
}

// Load unmarshals the data byte slice and loads a Config instance
// assuming that it contains the Config settings. Extra items in the
// data will be ignored and missing items will take their default
// values. Thereafter, loaded Config will be validated and normalized
// in order to ensure that provided settings are acceptable. Secrets
// are overridden from the environment at this point, so each
// execution observes a fixed configuration.
func Load(data []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if p, ok := os.LookupEnv(EnvDBPass); ok {
		c.Database.Pass = p
	}
	if k, ok := os.LookupEnv(EnvPaymentAPIKey); ok {
		c.Payment.APIKey = k
	}
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	return c, nil
}

// LoadFile reads the configuration file at the path and loads a
// Config instance out of its contents using Load.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	c, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", path, err)
	}
	return c, nil
}

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It can also modify
// settings in order to normalize them or replace some zero values
// with their expected default values (if any).
func (c *Config) ValidateAndNormalize() error {
	if c.Version != Major {
		return fmt.Errorf(
			"config version %d is not supported, expecting %d",
			c.Version, Major,
		)
	}
	switch d := c.Database; {
	case d.Host == "" || d.Port == 0:
		return fmt.Errorf("database host and port are required")
	case d.Name == "" || d.User == "":
		return fmt.Errorf("database name and user are required")
	case d.Version != postgres.Version:
		return fmt.Errorf(
			"unexpected database schema version: %s, expecting %s",
			d.Version.String(), postgres.Version.String(),
		)
	}
	settings.Nil2Zero(&c.Gin.Logger)
	settings.Nil2Zero(&c.Gin.Recovery)
	var zero settings.Duration
	if err := settings.VerifyRange(
		&c.Usecases.Checkout.MinPickupLead,
		&zero,
		c.Usecases.Checkout.MaxMinPickupLead,
	); err != nil {
		return fmt.Errorf(
			"VerifyRange(min pickup lead=%v, maxb=%v): %w",
			err.Value,
			c.Usecases.Checkout.MaxMinPickupLead,
			err,
		)
	}
	if m := c.Usecases.Fleet.MaxCheckinPhotos; m != nil && *m <= 0 {
		return fmt.Errorf(
			"max-checkin-photos must be positive, got %d", *m,
		)
	}
	return nil
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `c` settings.
func (c *Config) ConnectionPool(
	ctx context.Context,
) (repo.Pool, error) {
	p, err := postgres.NewPool(ctx, c.Database.URL())
	if err != nil {
		return nil, fmt.Errorf(
			"connecting to %s:%d/%s: %w",
			c.Database.Host, c.Database.Port, c.Database.Name, err,
		)
	}
	return p, nil
}

// NewPaymentGateway instantiates the payment gateway adapter based on
// the settings in the c struct.
func (c *Config) NewPaymentGateway() (pcore.Gateway, error) {
	return payment.New(c.Payment.BaseURL, c.Payment.APIKey, nil)
}

// NewUploader instantiates the check-in photos object store adapter
// based on the settings in the c struct.
func (c *Config) NewUploader(
	ctx context.Context,
) (storage.Uploader, error) {
	return gdrive.New(
		ctx, c.Storage.CredentialsPath, c.Storage.FolderID,
	)
}

// NewCheckoutUseCase instantiates a new checkout use case based on
// the settings in the c struct.
func (c *Config) NewCheckoutUseCase(
	p repo.Pool,
	r repo.Reservations,
	d repo.Drivers,
	g pcore.Gateway,
) (*checkoutuc.UseCase, error) {
	opts := make([]checkoutuc.Option, 0, 1)
	if l := c.Usecases.Checkout.MinPickupLead; l != nil {
		opts = append(opts, checkoutuc.WithMinPickupLead(
			time.Duration(*l),
		))
	}
	return checkoutuc.New(p, r, d, g, opts...)
}

// NewReservationUseCase instantiates a new reservation administration
// use case.
func (c *Config) NewReservationUseCase(
	p repo.Pool, r repo.Reservations, cat repo.Catalog,
) *reservationuc.UseCase {
	return reservationuc.New(p, r, cat)
}

// NewFleetUseCase instantiates a new fleet allocation use case based
// on the settings in the c struct.
func (c *Config) NewFleetUseCase(
	p repo.Pool,
	f repo.Fleet,
	r repo.Reservations,
	u storage.Uploader,
) (*fleetuc.UseCase, error) {
	opts := make([]fleetuc.Option, 0, 1)
	if m := c.Usecases.Fleet.MaxCheckinPhotos; m != nil {
		opts = append(opts, fleetuc.WithMaxCheckinPhotos(*m))
	}
	return fleetuc.New(p, f, r, u, opts...)
}
