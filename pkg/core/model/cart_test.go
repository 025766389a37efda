// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model_test

import (
	"testing"

	"github.com/bmoradi/fleetrent/pkg/core/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func carGroupLine(category string, price int64) model.CarGroupLine {
	return model.CarGroupLine{
		GroupID:    uuid.New(),
		Category:   category,
		PlanType:   "standard",
		PeriodDays: 7,
		Price:      price,
	}
}

func TestCartSingleCarGroupLine(t *testing.T) {
	cart := &model.Cart{}
	first := carGroupLine("SUV", 50000)
	second := carGroupLine("SUV Black", 70000)

	require.NoError(t, cart.AddItem(first))
	require.NoError(t, cart.AddItem(model.OptionalLine{
		OptionalID: uuid.New(),
		Name:       "child seat",
		Count:      2,
		Price:      2500,
	}))
	require.NoError(t, cart.AddItem(second))

	assert.Equal(t, 2, cart.Len(),
		"second car group line must evict the first one")
	cg, ok := cart.CarGroup()
	require.True(t, ok)
	assert.Equal(t, second.GroupID, cg.GroupID)
	assert.Equal(t, int64(70000+2*2500), cart.Total())
}

func TestCartAddItemValidation(t *testing.T) {
	cart := &model.Cart{}
	assert.Error(t, cart.AddItem(model.CarGroupLine{}),
		"an empty car group line must be rejected")
	assert.Error(t, cart.AddItem(model.OptionalLine{
		Name: "gps", Count: 0, Price: 1000,
	}), "a zero quantity must be rejected")
	assert.Error(t, cart.AddItem(model.InsuranceLine{
		PlanName: "full", Price: -1,
	}), "a negative price must be rejected")
	assert.Zero(t, cart.Len())
}

func TestCartClearDropsSessionBinding(t *testing.T) {
	cart := &model.Cart{}
	require.NoError(t, cart.AddItem(carGroupLine("Economy", 20000)))

	sid := uuid.New()
	cart.BindSession(sid)
	bound, ok := cart.SessionID()
	require.True(t, ok)
	assert.Equal(t, sid, bound)

	cart.Clear()
	_, ok = cart.SessionID()
	assert.False(t, ok,
		"a cleared cart must not reference the old session")
	assert.Zero(t, cart.Len())
	assert.Zero(t, cart.Total())
}

func TestLineTypeParsing(t *testing.T) {
	for _, s := range []string{"car_group", "optional", "insurance"} {
		lt, err := model.ParseLineType(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, lt.String())
	}
	_, err := model.ParseLineType("subscription")
	assert.Error(t, err)
}
