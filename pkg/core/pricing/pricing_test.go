// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package pricing_test

import (
	"testing"

	"github.com/bmoradi/fleetrent/pkg/core/model"
	"github.com/bmoradi/fleetrent/pkg/core/pricing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItems(carPrice, optionalPrice int64) []model.LineItem {
	return []model.LineItem{
		model.CarGroupLine{
			GroupID:    uuid.New(),
			Category:   "SUV",
			PlanType:   "standard",
			PeriodDays: 7,
			Price:      carPrice,
		},
		model.OptionalLine{
			OptionalID: uuid.New(),
			Name:       "gps",
			Count:      1,
			Price:      optionalPrice,
		},
	}
}

// The online discount applies to the base fare only: a 50000 cents
// car with a 5000 cents optional totals 50000 under online payment
// (50000*0.9 + 5000), not 49500.
func TestQuoteOnlineDiscountOnBaseFareOnly(t *testing.T) {
	b, err := pricing.Quote(
		testItems(50000, 5000), model.PaymentOnline,
	)
	require.NoError(t, err)
	assert.Equal(t, int64(55000), b.Subtotal)
	assert.Equal(t, int64(5000), b.Discount)
	assert.Equal(t, int64(50000), b.Total)
	assert.Equal(t, b.Total, b.Subtotal-b.Discount)
}

func TestQuoteStoreWithoutDiscount(t *testing.T) {
	b, err := pricing.Quote(
		testItems(50000, 5000), model.PaymentStore,
	)
	require.NoError(t, err)
	assert.Zero(t, b.Discount)
	assert.Equal(t, int64(55000), b.Total)
}

// Pricing the same inputs twice must yield the same breakdown; the
// engine holds no state between calls.
func TestQuoteIdempotence(t *testing.T) {
	items := testItems(49999, 333)
	first, err := pricing.Quote(items, model.PaymentOnline)
	require.NoError(t, err)
	second, err := pricing.Quote(items, model.PaymentOnline)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestQuoteQuantityMultiplication(t *testing.T) {
	items := []model.LineItem{
		model.CarGroupLine{
			GroupID:    uuid.New(),
			Category:   "Economy",
			PlanType:   "standard",
			PeriodDays: 3,
			Price:      30000,
		},
		model.OptionalLine{
			OptionalID: uuid.New(),
			Name:       "child seat",
			Count:      3,
			Price:      1500,
		},
		model.InsuranceLine{PlanName: "full", Price: 9000},
	}
	b, err := pricing.Quote(items, model.PaymentStore)
	require.NoError(t, err)
	assert.Equal(t, int64(30000+3*1500+9000), b.Total)
	require.Len(t, b.Lines, 3)
	assert.Equal(t, int64(4500), b.Lines[1].Total)
	assert.Equal(t, 1, b.Lines[2].Quantity)
}

func TestQuoteRejectsInvalidLines(t *testing.T) {
	for name, items := range map[string][]model.LineItem{
		"negative price": {
			model.OptionalLine{
				OptionalID: uuid.New(),
				Name:       "gps",
				Count:      1,
				Price:      -1,
			},
		},
		"zero quantity": {
			model.OptionalLine{
				OptionalID: uuid.New(),
				Name:       "gps",
				Count:      0,
				Price:      1000,
			},
		},
	} {
		_, err := pricing.Quote(items, model.PaymentStore)
		assert.Error(t, err, name)
	}
}

func TestQuoteRejectsUnknownMethod(t *testing.T) {
	_, err := pricing.Quote(
		testItems(1000, 0), model.PaymentMethod("wire"),
	)
	assert.Error(t, err)
}

func TestQuoteSessionMatchesQuote(t *testing.T) {
	car := model.SelectedCar{
		GroupID:    uuid.New(),
		Category:   "SUV Black",
		PlanType:   "premium",
		PeriodDays: 7,
		Price:      70000,
	}
	optionals := []model.SessionLine{
		{
			Type:      model.LineTypeOptional,
			Name:      "gps",
			Quantity:  2,
			UnitPrice: 1000,
		},
		{
			Type:      model.LineTypeInsurance,
			Name:      "full",
			Quantity:  1,
			UnitPrice: 9000,
		},
	}
	b, err := pricing.QuoteSession(car, optionals, model.PaymentOnline)
	require.NoError(t, err)
	assert.Equal(t, int64(70000+2*1000+9000), b.Subtotal)
	assert.Equal(t, int64(7000), b.Discount)
	assert.Equal(t, int64(74000), b.Total)
}
