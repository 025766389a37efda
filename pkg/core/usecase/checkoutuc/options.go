// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package checkoutuc

import (
	"errors"
	"time"
)

// Option represents a functional option for the checkout use case.
type Option func(uc *UseCase) error

// WithMinPickupLead returns an option which asks for the given
// minimum lead between a schedule submission and the requested pickup
// day. A zero lead (the default) only rejects days in the past.
func WithMinPickupLead(lead time.Duration) Option {
	return func(uc *UseCase) error {
		if lead < 0 {
			return errors.New("lead may not be negative")
		}
		if uc.minPickupLead != 0 {
			return errors.New("lead is already configured")
		}
		uc.minPickupLead = lead
		return nil
	}
}
