// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "github.com/google/uuid"

// CarGroup is a pricing/marketing tier (e.g., "SUV Black") to which
// many fleet vehicles and fares belong. Groups are ranked by
// DisplayOrder; a reservation may only be upgraded to a group with a
// strictly higher rank. The catalog is read-only from the
// reservation core's perspective.
type CarGroup struct {
	ID           uuid.UUID `json:"id"`
	Category     string    `json:"category"`
	Description  string    `json:"description,omitempty"`
	DisplayOrder int       `json:"display_order"`
}

// Fare describes the pricing of a car group under one plan for a
// rental period: the base fare, the kilometers it includes, and the
// price of each extra kilometer. Amounts are integral cents.
type Fare struct {
	ID           uuid.UUID `json:"id"`
	GroupID      uuid.UUID `json:"group_id"`
	PlanType     string    `json:"plan_type"`
	PeriodDays   int       `json:"period_days"`
	BasePrice    int64     `json:"base_price"`
	KMIncluded   int64     `json:"km_included"`
	ExtraKMPrice int64     `json:"extra_km_price"`
}

// UpgradeCandidate pairs a higher ranked car group with the fare it
// carries under a reservation's current plan and period.
type UpgradeCandidate struct {
	Group CarGroup `json:"group"`
	Fare  Fare     `json:"fare"`
}
