// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config_test

import (
	"fmt"
	"testing"

	"github.com/bmoradi/fleetrent/pkg/adapter/config"
	"github.com/bmoradi/fleetrent/pkg/adapter/db/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleConfig(dbVersion string) []byte {
	return []byte(fmt.Sprintf(`
version: 1
database:
  host: 127.0.0.1
  port: 5432
  name: fleetrent1_0_0
  user: fleetrent
  pass: secret
  version: %s
payment:
  base-url: https://payments.example.com
storage:
  credentials-path: /tmp/drive-sa.json
  folder-id: f1
`, dbVersion))
}

func TestLoadChecksSchemaVersion(t *testing.T) {
	c, err := config.Load(sampleConfig(postgres.Version.String()))
	require.NoError(t, err)
	assert.Equal(t, postgres.Version, c.Database.Version)

	_, err = config.Load(sampleConfig("2.0.0"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database schema version")

	_, err = config.Load(sampleConfig("not-a-version"))
	assert.Error(t, err)
}

func TestLoadOverridesSecretsFromEnv(t *testing.T) {
	t.Setenv(config.EnvDBPass, "env-secret")
	c, err := config.Load(sampleConfig(postgres.Version.String()))
	require.NoError(t, err)
	assert.Equal(t, "env-secret", c.Database.Pass)
	assert.Contains(t, c.Database.URL(), "env-secret")
}
