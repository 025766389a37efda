// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package payment defines the payment gateway port of the reservation
// core. The core only depends on this request/response contract; the
// gateway itself is an external collaborator behind an adapter.
package payment

import (
	"context"
	"errors"
)

// IntentStatus is the gateway-reported state of a payment intent.
type IntentStatus string

// Valid values for the IntentStatus enum.
const (
	IntentPending   IntentStatus = "pending"
	IntentSucceeded IntentStatus = "succeeded"
	IntentFailed    IntentStatus = "failed"
)

// ErrUnknownIntentStatus indicates that the gateway reported a status
// outside of the known contract.
var ErrUnknownIntentStatus = errors.New("unknown intent status")

// Validate returns nil if the IntentStatus value is valid.
func (s IntentStatus) Validate() error {
	switch s {
	case IntentPending, IntentSucceeded, IntentFailed:
		return nil
	default:
		return ErrUnknownIntentStatus
	}
}

// Intent is a created payment intent. The ClientSecret is handed to
// the customer-facing client so it can collect the payment
// instrument; the core never sees instrument details.
type Intent struct {
	ID           string
	ClientSecret string
	Status       IntentStatus
}

// Gateway is the payment gateway contract which the checkout flow
// consumes.
type Gateway interface {
	// CreateIntent registers a payment intent for the amount (in
	// cents) on behalf of the customerRef customer.
	CreateIntent(
		ctx context.Context, amount int64, customerRef string,
	) (*Intent, error)

	// IntentStatus polls the current status of a previously created
	// intent.
	IntentStatus(
		ctx context.Context, intentID string,
	) (IntentStatus, error)
}
