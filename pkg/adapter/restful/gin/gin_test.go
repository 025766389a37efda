// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gin_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/bmoradi/fleetrent/internal/test/dbcontainer"
	"github.com/bmoradi/fleetrent/internal/test/fake"
	"github.com/bmoradi/fleetrent/pkg/adapter/db/postgres"
	"github.com/bmoradi/fleetrent/pkg/adapter/db/postgres/catalogrp"
	"github.com/bmoradi/fleetrent/pkg/adapter/db/postgres/driversrp"
	"github.com/bmoradi/fleetrent/pkg/adapter/db/postgres/fleetrp"
	"github.com/bmoradi/fleetrent/pkg/adapter/db/postgres/reservationsrp"
	"github.com/bmoradi/fleetrent/pkg/adapter/db/postgres/settle"
	"github.com/bmoradi/fleetrent/pkg/adapter/restful/gin"
	"github.com/bmoradi/fleetrent/pkg/adapter/restful/gin/checkoutrs"
	"github.com/bmoradi/fleetrent/pkg/adapter/restful/gin/fleetrs"
	"github.com/bmoradi/fleetrent/pkg/adapter/restful/gin/reservationsrs"
	"github.com/bmoradi/fleetrent/pkg/core/model"
	"github.com/bmoradi/fleetrent/pkg/core/repo"
	"github.com/bmoradi/fleetrent/pkg/core/usecase/checkoutuc"
	"github.com/bmoradi/fleetrent/pkg/core/usecase/fleetuc"
	"github.com/bmoradi/fleetrent/pkg/core/usecase/reservationuc"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// Base prices of the development seed catalog, for the standard plan
// over a 7 days period, as created by the settle package.
const (
	economyWeekly = 150000
	sedanWeekly   = 240000
)

type IntegrationGinTestSuite struct {
	suite.Suite

	Ctx    context.Context
	Pg     *sqltestutil.PostgresContainer
	Pool   *postgres.Pool
	Gin    *gin.Engine
	Groups map[string]model.CarGroup

	gateway  *fake.Gateway
	uploader *fake.Uploader
}

func TestIntegrationGinTestSuite(t *testing.T) {
	ctx := context.Background()
	pg, pool, dfrs, ok := dbcontainer.New(ctx, 60*time.Second, t)
	for _, f := range dfrs {
		defer f()
	}
	if !ok {
		return // errors are already logged
	}
	suite.Run(t, &IntegrationGinTestSuite{
		Ctx:  ctx,
		Pg:   pg,
		Pool: pool,
	})
}

func (igts *IntegrationGinTestSuite) SetupSuite() {
	err := igts.Pool.Conn(
		igts.Ctx, func(ctx context.Context, c repo.Conn) error {
			return c.Tx(
				ctx, func(ctx context.Context, tx repo.Tx) error {
					return settle.New(tx).InitDevSchema(ctx)
				},
			)
		},
	)
	igts.Require().NoError(err, "failed to initialize dev schema")

	catrp := catalogrp.New()
	igts.Groups = make(map[string]model.CarGroup)
	err = igts.Pool.Conn(
		igts.Ctx, func(ctx context.Context, c repo.Conn) error {
			gs, err := catrp.Conn(c).ListGroupsAbove(ctx, 0)
			if err != nil {
				return err
			}
			for _, g := range gs {
				igts.Groups[g.Category] = g
			}
			return nil
		},
	)
	igts.Require().NoError(err, "failed to load the seeded catalog")
	igts.Require().Len(igts.Groups, 3, "expected three car groups")

	resrvrp := reservationsrp.New()
	igts.gateway = fake.NewGateway()
	igts.uploader = fake.NewUploader()
	checkout, err := checkoutuc.New(
		igts.Pool, resrvrp, driversrp.New(), igts.gateway,
	)
	igts.Require().NoError(err, "cannot create checkout use case")
	resrv := reservationuc.New(igts.Pool, resrvrp, catrp)
	fleet, err := fleetuc.New(
		igts.Pool, fleetrp.New(), resrvrp, igts.uploader,
	)
	igts.Require().NoError(err, "cannot create fleet use case")

	igts.Gin = gin.New(gin.Logger(), gin.Recovery())
	igts.Require().NotNil(igts.Gin, "cannot instantiate Gin engine")
	r := igts.Gin.Group("/api/fleetrent/v1")
	checkoutrs.Register(r, checkout)
	reservationsrs.Register(r, resrv)
	fleetrs.Register(r, fleet)
}

func (igts *IntegrationGinTestSuite) sendJSON(
	method, path string, body, res any,
) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		igts.Require().NoError(err, "cannot marshal request body")
		r = bytes.NewReader(b)
	}
	w := httptest.NewRecorder()
	req, err := http.NewRequest(
		method, "/api/fleetrent/v1"+path, r,
	)
	igts.Require().NoError(err, "cannot create %s request", method)
	if body != nil {
		req.Header.Add("Content-Type", "application/json")
	}
	igts.Gin.ServeHTTP(w, req)
	if res != nil {
		igts.Require().NoError(
			json.Unmarshal(w.Body.Bytes(), res),
			"body is not json: %s", w.Body.String(),
		)
	}
	return w
}

// createSession commits a cart for the category car group with one
// gps optional of 2000 cents, returning the created draft session.
func (igts *IntegrationGinTestSuite) createSession(
	category string, basePrice int64,
) *model.CheckoutSession {
	g, ok := igts.Groups[category]
	igts.Require().True(ok, "unknown car group %q", category)
	s := &model.CheckoutSession{}
	w := igts.sendJSON(http.MethodPost, "/sessions", map[string]any{
		"car_group": map[string]any{
			"group_id":    g.ID.String(),
			"category":    g.Category,
			"plan_type":   "standard",
			"period_days": 7,
			"price":       basePrice,
		},
		"optionals": []map[string]any{{
			"optional_id": uuid.New().String(),
			"name":        "gps",
			"count":       1,
			"price":       2000,
		}},
	}, s)
	igts.Require().Equal(201, w.Code, "cannot create session")
	igts.Equal(model.StatusDraft, s.Status)
	igts.EqualValues(basePrice+2000, s.TotalAmount)
	return s
}

// schedule submits a pickup schedule three days ahead.
func (igts *IntegrationGinTestSuite) schedule(sid uuid.UUID) {
	s := &model.CheckoutSession{}
	w := igts.sendJSON(
		http.MethodPatch, "/sessions/"+sid.String()+"/schedule",
		map[string]any{
			"pickup_date": time.Now().AddDate(0, 0, 3).
				Format(time.DateOnly),
			"pickup_time": "09:30",
		}, s,
	)
	igts.Require().Equal(200, w.Code, "cannot submit schedule")
	igts.Equal(model.StatusScheduled, s.Status)
}

// pay confirms the payment method, returning the updated session and
// the client secret (empty for the store method).
func (igts *IntegrationGinTestSuite) pay(
	sid uuid.UUID, method string,
) (*model.CheckoutSession, string) {
	res := &struct {
		Session      *model.CheckoutSession `json:"session"`
		ClientSecret string                 `json:"client_secret"`
	}{}
	w := igts.sendJSON(
		http.MethodPost, "/sessions/"+sid.String()+"/payment",
		map[string]any{
			"method":       method,
			"customer_ref": "cust-1",
		}, res,
	)
	igts.Require().Equal(200, w.Code, "cannot confirm payment")
	igts.Equal(model.StatusPendingApproval, res.Session.Status)
	return res.Session, res.ClientSecret
}

func (igts *IntegrationGinTestSuite) approve(
	sid uuid.UUID,
) *model.CheckoutSession {
	s := &model.CheckoutSession{}
	w := igts.sendJSON(
		http.MethodPatch,
		"/reservations/"+sid.String()+"?op=approve", nil, s,
	)
	igts.Require().Equal(200, w.Code, "cannot approve reservation")
	igts.Equal(model.StatusApproved, s.Status)
	return s
}

func (igts *IntegrationGinTestSuite) TestBadRequest() {
	res := map[string][]string{}
	w := igts.sendJSON(
		http.MethodPost, "/sessions", map[string]any{}, &res,
	)
	igts.Equal(400, w.Code)
	igts.NotEmpty(res["CarGroup"], "missing car_group must be named")

	w = igts.sendJSON(
		http.MethodPatch,
		"/reservations/"+uuid.New().String()+"?op=bogus",
		nil, &res,
	)
	igts.Equal(400, w.Code)

	w = igts.sendJSON(
		http.MethodGet, "/fleet/candidates", nil, nil,
	)
	igts.Equal(400, w.Code, "group or session must be required")
}

func (igts *IntegrationGinTestSuite) TestNotFound() {
	res := &struct {
		Detail string
	}{}
	w := igts.sendJSON(
		http.MethodGet, "/reservations/"+uuid.New().String(),
		nil, res,
	)
	igts.Equal(404, w.Code)
	igts.Contains(res.Detail, "no session with id", "wrong detail")
}

// The full customer flow with a store payment, followed by the admin
// approval and a vehicle assignment which is then undone.
func (igts *IntegrationGinTestSuite) TestStoreCheckoutAndAssignment() {
	s := igts.createSession("Economy Hatch", economyWeekly)
	igts.schedule(s.ID)
	paid, secret := igts.pay(s.ID, "store")
	igts.Empty(secret, "the store path involves no intent")
	igts.EqualValues(economyWeekly+2000, paid.TotalAmount)
	igts.approve(s.ID)

	res := &struct {
		Candidates []model.FleetVehicle `json:"candidates"`
	}{}
	w := igts.sendJSON(
		http.MethodGet,
		"/fleet/candidates?session="+s.ID.String(), nil, res,
	)
	igts.Require().Equal(200, w.Code)
	igts.Require().Len(res.Candidates, 2)
	igts.Equal("FLT-0101", res.Candidates[0].Plate)
	igts.Equal("FLT-0102", res.Candidates[1].Plate)
	vid := res.Candidates[0].ID

	got := &model.CheckoutSession{}
	w = igts.sendJSON(
		http.MethodPost, "/reservations/"+s.ID.String()+"/vehicle",
		map[string]any{"vehicle_id": vid.String()}, got,
	)
	igts.Require().Equal(200, w.Code)
	igts.Equal(model.StatusCompleted, got.Status)
	igts.Require().NotNil(got.AssignedVehicleID)
	igts.Equal(vid, *got.AssignedVehicleID)

	// the claimed vehicle must disappear from the candidates
	w = igts.sendJSON(
		http.MethodGet,
		"/fleet/candidates?group="+s.Car.GroupID.String(), nil, res,
	)
	igts.Require().Equal(200, w.Code)
	igts.Require().Len(res.Candidates, 1)
	igts.Equal("FLT-0102", res.Candidates[0].Plate)

	// a second reservation cannot claim the same vehicle
	s2 := igts.createSession("Economy Hatch", economyWeekly)
	igts.schedule(s2.ID)
	igts.pay(s2.ID, "store")
	igts.approve(s2.ID)
	w = igts.sendJSON(
		http.MethodPost, "/reservations/"+s2.ID.String()+"/vehicle",
		map[string]any{"vehicle_id": vid.String()}, nil,
	)
	igts.Equal(409, w.Code, "double claim must conflict")

	// undoing the assignment releases the vehicle
	w = igts.sendJSON(
		http.MethodDelete,
		"/reservations/"+s.ID.String()+"/vehicle", nil, got,
	)
	igts.Require().Equal(200, w.Code)
	igts.Equal(model.StatusApproved, got.Status)
	igts.Nil(got.AssignedVehicleID)
}

// The online payment path registers an intent with the gateway and
// discounts the base fare, but never the optionals.
func (igts *IntegrationGinTestSuite) TestOnlinePayment() {
	s := igts.createSession("Economy Hatch", economyWeekly)
	igts.schedule(s.ID)
	paid, secret := igts.pay(s.ID, "online")
	igts.NotEmpty(secret, "the online path must expose a secret")
	igts.NotEmpty(paid.PaymentRef)
	igts.EqualValues(economyWeekly*9/10+2000, paid.TotalAmount)

	res := &struct {
		Status string `json:"status"`
	}{}
	w := igts.sendJSON(
		http.MethodGet, "/sessions/"+s.ID.String()+"/payment",
		nil, res,
	)
	igts.Require().Equal(200, w.Code)
	igts.Equal("pending", res.Status)
}

// A rejected reservation may be returned to review and approved on
// the second pass.
func (igts *IntegrationGinTestSuite) TestRejectAndReturnToReview() {
	s := igts.createSession("Economy Hatch", economyWeekly)
	igts.schedule(s.ID)
	igts.pay(s.ID, "store")

	got := &model.CheckoutSession{}
	w := igts.sendJSON(
		http.MethodPatch,
		"/reservations/"+s.ID.String()+"?op=reject", nil, got,
	)
	igts.Require().Equal(200, w.Code)
	igts.Equal(model.StatusRejected, got.Status)

	w = igts.sendJSON(
		http.MethodPatch,
		"/reservations/"+s.ID.String()+"?op=review", nil, got,
	)
	igts.Require().Equal(200, w.Code)
	igts.Equal(model.StatusPendingApproval, got.Status)

	igts.approve(s.ID)
}

// Upgrading moves the reservation to a higher ranked group and
// reprices it under the retained payment method.
func (igts *IntegrationGinTestSuite) TestUpgrade() {
	s := igts.createSession("Economy Hatch", economyWeekly)
	igts.schedule(s.ID)
	igts.pay(s.ID, "online")

	res := &struct {
		Candidates []model.UpgradeCandidate `json:"candidates"`
	}{}
	w := igts.sendJSON(
		http.MethodGet,
		"/reservations/"+s.ID.String()+"/upgrades", nil, res,
	)
	igts.Require().Equal(200, w.Code)
	igts.Require().Len(res.Candidates, 2)
	igts.Equal("Sedan Comfort", res.Candidates[0].Group.Category)
	igts.Equal("SUV Black", res.Candidates[1].Group.Category)

	got := &model.CheckoutSession{}
	sedan := igts.Groups["Sedan Comfort"]
	w = igts.sendJSON(
		http.MethodPatch,
		"/reservations/"+s.ID.String()+"?op=upgrade",
		map[string]any{"group_id": sedan.ID.String()}, got,
	)
	igts.Require().Equal(200, w.Code)
	igts.Equal(sedan.ID, got.Car.GroupID)
	igts.EqualValues(sedanWeekly, got.Car.Price)
	igts.EqualValues(sedanWeekly*9/10+2000, got.TotalAmount)
	igts.Nil(got.AssignedVehicleID)

	// a downgrade back to the economy group is not allowed
	economy := igts.Groups["Economy Hatch"]
	w = igts.sendJSON(
		http.MethodPatch,
		"/reservations/"+s.ID.String()+"?op=upgrade",
		map[string]any{"group_id": economy.ID.String()}, nil,
	)
	igts.Equal(400, w.Code)
}

// Checking in an approved reservation uploads the inspection photos
// and moves it to check_in_in_progress; assigning a vehicle
// afterwards completes it.
func (igts *IntegrationGinTestSuite) TestCheckIn() {
	s := igts.createSession("Sedan Comfort", sedanWeekly)
	igts.schedule(s.ID)
	igts.pay(s.ID, "store")
	igts.approve(s.ID)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	igts.Require().NoError(mw.WriteField("fuel_level", "75"))
	igts.Require().NoError(mw.WriteField("odometer_km", "30950"))
	igts.Require().NoError(
		mw.WriteField("notes", "scratch on the rear bumper"),
	)
	for _, name := range []string{"front.jpg", "rear.jpg"} {
		fw, err := mw.CreateFormFile("photos", name)
		igts.Require().NoError(err, "cannot create photo part")
		_, err = fw.Write([]byte{0xff, 0xd8, 0xff})
		igts.Require().NoError(err, "cannot write photo part")
	}
	igts.Require().NoError(mw.Close())

	w := httptest.NewRecorder()
	req, err := http.NewRequest(
		http.MethodPost,
		"/api/fleetrent/v1/reservations/"+s.ID.String()+"/checkin",
		body,
	)
	igts.Require().NoError(err, "cannot create POST request")
	req.Header.Add("Content-Type", mw.FormDataContentType())
	igts.Gin.ServeHTTP(w, req)

	got := &model.CheckoutSession{}
	igts.Require().NoError(
		json.Unmarshal(w.Body.Bytes(), got),
		"body is not json: %s", w.Body.String(),
	)
	igts.Require().Equal(200, w.Code)
	igts.Equal(model.StatusCheckIn, got.Status)
	igts.Require().NotNil(got.CheckIn)
	igts.Equal(75, got.CheckIn.FuelLevel)
	igts.EqualValues(30950, got.CheckIn.OdometerKM)
	igts.Len(got.CheckIn.PhotoURLs, 2)
	igts.Len(igts.uploader.Objects, 2)

	// picking the concrete vehicle finishes the lifecycle
	res := &struct {
		Candidates []model.FleetVehicle `json:"candidates"`
	}{}
	w2 := igts.sendJSON(
		http.MethodGet,
		"/fleet/candidates?session="+s.ID.String(), nil, res,
	)
	igts.Require().Equal(200, w2.Code)
	igts.Require().NotEmpty(res.Candidates)
	w2 = igts.sendJSON(
		http.MethodPost, "/reservations/"+s.ID.String()+"/vehicle",
		map[string]any{
			"vehicle_id": res.Candidates[0].ID.String(),
		}, got,
	)
	igts.Require().Equal(200, w2.Code)
	igts.Equal(model.StatusCompleted, got.Status)
}

func (igts *IntegrationGinTestSuite) TestDriverVerification() {
	d := &model.Driver{}
	w := igts.sendJSON(http.MethodPost, "/drivers", map[string]any{
		"full_name": "Margaret Hamilton",
		"email":     "margaret@example.com",
	}, d)
	igts.Require().Equal(201, w.Code, "cannot register driver")
	igts.Equal(model.VerificationPending, d.Verification)

	w = igts.sendJSON(
		http.MethodPatch, "/drivers/"+d.ID.String()+"/kyc",
		map[string]any{
			"document_number": "Z2468101",
			"license_number":  "B-555",
			"license_expiry": time.Now().AddDate(4, 0, 0).
				Format(time.DateOnly),
		}, d,
	)
	igts.Require().Equal(200, w.Code, "cannot submit KYC")
	igts.Equal(model.VerificationPending, d.Verification)

	w = igts.sendJSON(
		http.MethodPatch,
		"/drivers/"+d.ID.String()+"/verification",
		map[string]any{"status": "verified"}, d,
	)
	igts.Require().Equal(200, w.Code, "cannot verify driver")
	igts.Equal(model.VerificationVerified, d.Verification)

	res := map[string][]string{}
	w = igts.sendJSON(
		http.MethodPatch,
		"/drivers/"+d.ID.String()+"/verification",
		map[string]any{"status": "approved"}, &res,
	)
	igts.Equal(400, w.Code)
	igts.NotEmpty(res["Status"])
}
