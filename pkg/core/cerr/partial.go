// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cerr

import "fmt"

// PartialWriteError indicates that a multi-record mutation failed
// after some of its writes already took effect and the rollback could
// not undo them, leaving partial state behind. It is surfaced
// distinctly from a plain upstream failure so operators know the
// affected records need manual reconciliation. It is never retried
// automatically.
type PartialWriteError struct {
	// Op identifies the triggering operation, e.g.
	// "reservations.create-with-items".
	Op string
	// Err is the underlying failure.
	Err error
}

// Error returns a string representation of the `pwe` error instance.
func (pwe *PartialWriteError) Error() string {
	return fmt.Sprintf(
		"partial write during %s (manual reconciliation needed): %v",
		pwe.Op, pwe.Err,
	)
}

// Unwrap returns the underlying failure, so errors.Is/As keep
// working across the partial-write wrapper.
func (pwe *PartialWriteError) Unwrap() error {
	return pwe.Err
}
