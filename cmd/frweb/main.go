// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package main

import "github.com/bmoradi/fleetrent/cmd/frweb/command"

func main() {
	command.Execute()
}
