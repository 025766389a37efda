// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// instantiation and registration of all repo, use case, and resource
// packages based on the user provided configuration settings.
package routes

import (
	"context"
	"fmt"

	"github.com/bmoradi/fleetrent/pkg/adapter/config"
	"github.com/bmoradi/fleetrent/pkg/adapter/db/postgres/catalogrp"
	"github.com/bmoradi/fleetrent/pkg/adapter/db/postgres/driversrp"
	"github.com/bmoradi/fleetrent/pkg/adapter/db/postgres/fleetrp"
	"github.com/bmoradi/fleetrent/pkg/adapter/db/postgres/reservationsrp"
	"github.com/bmoradi/fleetrent/pkg/adapter/restful/gin/checkoutrs"
	"github.com/bmoradi/fleetrent/pkg/adapter/restful/gin/fleetrs"
	"github.com/bmoradi/fleetrent/pkg/adapter/restful/gin/reservationsrs"
	"github.com/bmoradi/fleetrent/pkg/core/repo"
	"github.com/gin-gonic/gin"
)

// Register instantiates relevant repositories and use cases based on
// the c configuration settings. The p connections pool is passed to
// the use case instances, so they may acquire/release connections
// and transactions on demand. These connections/transactions will be
// passed to the repositories later in order to run relevant queries
// on them and accomplish those use cases. Each use case package is
// named like checkoutuc and each repository package is named like
// fleetrp. Register instantiates a series of "resource" structs, from
// packages which are named like fleetrs, in order to adapt the use
// cases interfaces with the REST APIs. These resources are registered
// as request handlers using the e gin-gonic engine instance.
// Possible errors will be returned after possible wrapping.
func Register(
	ctx context.Context, e *gin.Engine, p repo.Pool, c *config.Config,
) error {
	resrvRepo := reservationsrp.New()
	fleetRepo := fleetrp.New()
	driversRepo := driversrp.New()
	catalogRepo := catalogrp.New()

	gateway, err := c.NewPaymentGateway()
	if err != nil {
		return fmt.Errorf("creating payment gateway: %w", err)
	}
	uploader, err := c.NewUploader(ctx)
	if err != nil {
		return fmt.Errorf("creating photos uploader: %w", err)
	}

	checkout, err := c.NewCheckoutUseCase(
		p, resrvRepo, driversRepo, gateway,
	)
	if err != nil {
		return fmt.Errorf("creating checkout use case: %w", err)
	}
	resrv := c.NewReservationUseCase(p, resrvRepo, catalogRepo)
	fleet, err := c.NewFleetUseCase(p, fleetRepo, resrvRepo, uploader)
	if err != nil {
		return fmt.Errorf("creating fleet use case: %w", err)
	}

	r := e.Group("/api/fleetrent/v1")
	checkoutrs.Register(r, checkout)
	reservationsrs.Register(r, resrv)
	fleetrs.Register(r, fleet)
	return nil
}
