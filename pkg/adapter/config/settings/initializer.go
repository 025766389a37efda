// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package settings provides the common helper types which are used
// for representation and validation of individual configuration
// settings, independent of a specific configuration file version.
package settings

// Nil2Zero overwrites the (*t) pointer, which should be nil,
// in order to point to a newly allocated T instance and initializes it
// with the zero value of T type.
// If the (*t) pointer was not nil, Nil2Zero will perform no action.
func Nil2Zero[T any](t **T) {
	if (*t) != nil {
		return
	}
	var zero T
	(*t) = &zero
}
