// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fleetuc

import "errors"

const defaultMaxCheckinPhotos = 10

// Option represents a functional option for the fleet allocation use
// case.
type Option func(uc *UseCase) error

// WithMaxCheckinPhotos returns an option which caps the number of
// photos a single check-in may attach.
func WithMaxCheckinPhotos(max int) Option {
	return func(uc *UseCase) error {
		if max <= 0 {
			return errors.New("cap must be positive")
		}
		if uc.maxCheckinPhotos != 0 {
			return errors.New("cap is already configured")
		}
		uc.maxCheckinPhotos = max
		return nil
	}
}
