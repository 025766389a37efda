// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"github.com/bmoradi/fleetrent/pkg/adapter/db/postgres/settle"
	"github.com/bmoradi/fleetrent/pkg/core/model"
)

// These constants represent the major, minor, and patch components of
// the current database schema semantic version. The schema is created
// by the settle package, so the latest version is taken from there.
const (
	Major = settle.Major // latest supported schema major version
	Minor = settle.Minor // latest schema minor version in Major series
	Patch = settle.Patch // latest schema patch version in Minor series
)

// Version is the latest supported database schema semantic version.
var Version = model.SemVer{Major, Minor, Patch}
