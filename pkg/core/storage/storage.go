// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package storage defines the object storage port which the check-in
// flow uses to attach inspection photos to a reservation. The core
// only keeps the returned references; the store itself is an external
// collaborator behind an adapter.
package storage

import "context"

// Uploader stores one named binary object and returns a URL which
// may be persisted as its reference.
type Uploader interface {
	Upload(
		ctx context.Context, name string, data []byte,
	) (url string, err error)
}
