// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cerr

import (
	"fmt"

	"github.com/bmoradi/fleetrent/pkg/core/model"
)

// InvalidTransitionError indicates that a requested reservation
// status change is not a legal edge of the lifecycle graph. It is an
// array of two statuses: the first element is the current status and
// the second one is the requested status, so operators can diagnose
// which transition was attempted against which state. Illegal
// requests always surface this error; they are never silently
// coerced into a legal transition.
type InvalidTransitionError [2]model.ReservationStatus

// Error returns a string representation of the `ite` error instance,
// naming the current and the requested statuses. This method causes
// *InvalidTransitionError to implement the error interface.
func (ite *InvalidTransitionError) Error() string {
	current := (*ite)[0]
	requested := (*ite)[1]
	return fmt.Sprintf(
		"illegal reservation transition: %s -> %s", current, requested,
	)
}
