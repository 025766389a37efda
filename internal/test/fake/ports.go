// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fake

import (
	"context"
	"fmt"

	"github.com/bmoradi/fleetrent/pkg/core/cerr"
	"github.com/bmoradi/fleetrent/pkg/core/payment"
)

// Gateway is an in-memory payment.Gateway implementation. Each
// created intent starts pending; tests flip its status through the
// Settle method to simulate the asynchronous gateway side.
type Gateway struct {
	locker
	intents map[string]payment.IntentStatus
	serial  int

	// Fail makes every call report an upstream error, simulating a
	// gateway outage.
	Fail bool
}

// NewGateway creates an in-memory payment gateway.
func NewGateway() *Gateway {
	return &Gateway{intents: make(map[string]payment.IntentStatus)}
}

func (g *Gateway) CreateIntent(
	ctx context.Context, amount int64, customerRef string,
) (*payment.Intent, error) {
	defer g.lock()()
	if g.Fail {
		return nil, cerr.Upstream(
			fmt.Errorf("payment gateway is unreachable"),
		)
	}
	g.serial++
	id := fmt.Sprintf("pi_%04d", g.serial)
	g.intents[id] = payment.IntentPending
	return &payment.Intent{
		ID:           id,
		ClientSecret: id + "_secret",
		Status:       payment.IntentPending,
	}, nil
}

func (g *Gateway) IntentStatus(
	ctx context.Context, intentID string,
) (payment.IntentStatus, error) {
	defer g.lock()()
	if g.Fail {
		return "", cerr.Upstream(
			fmt.Errorf("payment gateway is unreachable"),
		)
	}
	s, ok := g.intents[intentID]
	if !ok {
		return "", cerr.NotFound(
			fmt.Errorf("intent %s does not exist", intentID),
		)
	}
	return s, nil
}

// Settle sets the status of an existing intent.
func (g *Gateway) Settle(intentID string, s payment.IntentStatus) {
	defer g.lock()()
	g.intents[intentID] = s
}

// Uploader is an in-memory storage.Uploader implementation which
// records every uploaded object. FailAfter makes uploads fail once
// that many objects have been stored, so partial-write reporting can
// be exercised; it is off when negative.
type Uploader struct {
	locker
	Objects   map[string][]byte
	FailAfter int
}

// NewUploader creates an in-memory uploader which never fails.
func NewUploader() *Uploader {
	return &Uploader{
		Objects:   make(map[string][]byte),
		FailAfter: -1,
	}
}

func (u *Uploader) Upload(
	ctx context.Context, name string, data []byte,
) (string, error) {
	defer u.lock()()
	if u.FailAfter >= 0 && len(u.Objects) >= u.FailAfter {
		return "", fmt.Errorf("object store rejected %q", name)
	}
	u.Objects[name] = append([]byte(nil), data...)
	return "fake://objects/" + name, nil
}
