// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package pricing computes cart and reservation totals. It is a pure
// function over its inputs: it never persists anything and calling it
// twice on the same inputs yields the same breakdown, so callers are
// free to recompute whenever items, groups, or plans change and
// persist the result themselves.
package pricing

import (
	"fmt"

	"github.com/bmoradi/fleetrent/pkg/core/cerr"
	"github.com/bmoradi/fleetrent/pkg/core/model"
)

// OnlineDiscountPercent is the fixed discount applied to the base
// fare (never to optionals or insurance) when the customer pays
// online. Store payment applies no discount.
const OnlineDiscountPercent = 10

// LineTotal is the priced form of one line item.
type LineTotal struct {
	Type      model.LineType `json:"type"`
	Name      string         `json:"name"`
	Quantity  int            `json:"quantity"`
	UnitPrice int64          `json:"unit_price"`
	Total     int64          `json:"total"`
}

// Breakdown captures the aggregated monetary result of pricing a
// cart or a reservation. All amounts are integral cents and
// Total == Subtotal - Discount always holds.
type Breakdown struct {
	Lines    []LineTotal `json:"line_totals"`
	Subtotal int64       `json:"subtotal"`
	Discount int64       `json:"discount"`
	Total    int64       `json:"total"`
}

// Quote prices the given line items under the method payment method.
// Every line must carry a non-negative unit price and a positive
// quantity; the first violating line is rejected with a bad-request
// error before any other work happens.
func Quote(
	items []model.LineItem, method model.PaymentMethod,
) (*Breakdown, error) {
	if err := method.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	b := &Breakdown{}
	for i, li := range items {
		if err := li.Validate(); err != nil {
			return nil, cerr.BadRequest(
				fmt.Errorf("line %d: %w", i, err),
			)
		}
		lt := LineTotal{
			Type:      li.LineType(),
			Name:      li.Label(),
			Quantity:  li.Quantity(),
			UnitPrice: li.UnitPrice(),
			Total:     model.LineTotal(li),
		}
		b.Lines = append(b.Lines, lt)
		b.Subtotal += lt.Total
		if method == model.PaymentOnline &&
			lt.Type == model.LineTypeCarGroup {
			b.Discount += lt.Total * OnlineDiscountPercent / 100
		}
	}
	b.Total = b.Subtotal - b.Discount
	return b, nil
}

// QuoteSession prices a persisted reservation: the selected car fare
// plus its optional lines, under the method payment method. It is
// used whenever a reservation mutation (e.g., a group upgrade or the
// payment method selection) must recompute the stored total.
func QuoteSession(
	car model.SelectedCar,
	optionals []model.SessionLine,
	method model.PaymentMethod,
) (*Breakdown, error) {
	items := make([]model.LineItem, 0, len(optionals)+1)
	items = append(items, model.CarGroupLine{
		GroupID:    car.GroupID,
		Category:   car.Category,
		PlanType:   car.PlanType,
		PeriodDays: car.PeriodDays,
		Price:      car.Price,
	})
	for _, o := range optionals {
		switch o.Type {
		case model.LineTypeInsurance:
			items = append(items, model.InsuranceLine{
				PlanName: o.Name,
				Price:    o.UnitPrice,
			})
		default:
			items = append(items, model.OptionalLine{
				Name:  o.Name,
				Count: o.Quantity,
				Price: o.UnitPrice,
			})
		}
	}
	return Quote(items, method)
}
