// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "errors"

// PaymentMethod specifies how a reservation is paid. Paying online
// grants a discount on the base fare; paying at the store does not.
type PaymentMethod string

// Valid values for the PaymentMethod enum. The empty string is used
// for sessions whose payment step was not reached yet.
const (
	PaymentOnline PaymentMethod = "online"
	PaymentStore  PaymentMethod = "store"
)

// ErrUnknownPaymentMethod indicates that a given string may not be
// parsed as a valid/known payment method.
var ErrUnknownPaymentMethod = errors.New("unknown payment method")

// Validate returns nil if the PaymentMethod value is valid.
func (m PaymentMethod) Validate() error {
	switch m {
	case PaymentOnline, PaymentStore:
		return nil
	default:
		return ErrUnknownPaymentMethod
	}
}

// ParsePaymentMethod parses the given string and returns a
// PaymentMethod. For invalid strings, ErrUnknownPaymentMethod will
// be returned.
func ParsePaymentMethod(m string) (PaymentMethod, error) {
	pm := PaymentMethod(m)
	if err := pm.Validate(); err != nil {
		return "", err
	}
	return pm, nil
}
