// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package payment provides the payment gateway adapter, implementing
// the core payment.Gateway port against the provider's REST intents
// API. Transport and decoding failures are reported as upstream
// errors; the caller decides whether the operation may be retried.
package payment

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bmoradi/fleetrent/pkg/core/cerr"
	"github.com/bmoradi/fleetrent/pkg/core/payment"
	"github.com/goccy/go-json"
)

// DefaultTimeout bounds one gateway round-trip when the caller's
// context carries no earlier deadline.
const DefaultTimeout = 10 * time.Second

// Gateway is a payment.Gateway implementation talking to the
// provider's HTTP API. A zero http.Client is usable; the API key is
// sent as a bearer token.
type Gateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// New instantiates a payment gateway adapter for the API rooted at
// the baseURL address, authenticating with the apiKey key. A nil
// client falls back to http.DefaultClient.
func New(
	baseURL, apiKey string, client *http.Client,
) (*Gateway, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("gateway base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf(
			"invalid gateway base URL %q: %w", baseURL, err,
		)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gateway API key is required")
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
	}, nil
}

type intentReq struct {
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	CustomerRef string `json:"customer_ref,omitempty"`
}

type intentResp struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	Message      string `json:"message,omitempty"`
}

// CreateIntent registers a payment intent for the amount cents and
// returns its id and client secret. The client secret is handed to
// the customer's browser; it never needs to be persisted.
func (g *Gateway) CreateIntent(
	ctx context.Context, amount int64, customerRef string,
) (*payment.Intent, error) {
	if amount <= 0 {
		return nil, fmt.Errorf(
			"intent amount must be positive, got %d", amount,
		)
	}
	r, err := g.do(ctx, http.MethodPost, "/v1/intents", &intentReq{
		Amount:      amount,
		Currency:    "eur",
		CustomerRef: customerRef,
	})
	if err != nil {
		return nil, err
	}
	return &payment.Intent{
		ID:           r.ID,
		ClientSecret: r.ClientSecret,
		Status:       payment.IntentStatus(r.Status),
	}, nil
}

// IntentStatus polls the provider for the current status of the
// intentID intent.
func (g *Gateway) IntentStatus(
	ctx context.Context, intentID string,
) (payment.IntentStatus, error) {
	if intentID == "" {
		return "", fmt.Errorf("intent id is required")
	}
	r, err := g.do(
		ctx, http.MethodGet,
		"/v1/intents/"+url.PathEscape(intentID), nil,
	)
	if err != nil {
		return "", err
	}
	return payment.IntentStatus(r.Status), nil
}

func (g *Gateway) do(
	ctx context.Context, method, path string, body *intentReq,
) (*intentResp, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf(
				"encoding intent request: %w", err,
			)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(
		ctx, method, g.baseURL+path, rd,
	)
	if err != nil {
		return nil, fmt.Errorf("building gateway request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, cerr.Upstream(
			fmt.Errorf("calling payment gateway: %w", err),
		)
	}
	defer resp.Body.Close()
	rb, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, cerr.Upstream(
			fmt.Errorf("reading gateway response: %w", err),
		)
	}
	var r intentResp
	if err := json.Unmarshal(rb, &r); err != nil {
		return nil, cerr.Upstream(fmt.Errorf(
			"decoding gateway response (status %d): %w",
			resp.StatusCode, err,
		))
	}
	if resp.StatusCode != http.StatusOK &&
		resp.StatusCode != http.StatusCreated {
		return nil, cerr.Upstream(fmt.Errorf(
			"gateway reported status %d: %s",
			resp.StatusCode, r.Message,
		))
	}
	return &r, nil
}
