// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// LineType specifies the cart line item kind enum. Although this enum
// is numeric, it is (de)serialized as a string for readability in the
// adapter layer.
type LineType int

// Valid values for the LineType enum.
const (
	LineTypeInvalid LineType = iota // zero value is invalid

	LineTypeCarGroup  // the single vehicle-group selection of a cart
	LineTypeOptional  // an extra such as a child seat or a GPS unit
	LineTypeInsurance // an insurance plan
)

// ErrUnknownLineType indicates that a given string may not be parsed
// as a valid/known line item type.
var ErrUnknownLineType = errors.New("unknown line item type")

// LineTypeError indicates an invalid line item type, containing the
// invalid kind as an integer.
type LineTypeError int

// Error implements the error interface, returning a string
// representation of the LineTypeError.
func (e LineTypeError) Error() string {
	return fmt.Sprintf("invalid line item type: %d", e)
}

// Validate returns nil if the LineType value is valid. For invalid
// values, an instance of the LineTypeError will be returned.
func (t LineType) Validate() error {
	switch t {
	case LineTypeCarGroup, LineTypeOptional, LineTypeInsurance:
		return nil
	default:
		return LineTypeError(t)
	}
}

// String converts the LineType enum to a string, helping to serialize
// it for transmission to web clients. Invalid types cause a panic.
func (t LineType) String() string {
	switch t {
	case LineTypeCarGroup:
		return "car_group"
	case LineTypeOptional:
		return "optional"
	case LineTypeInsurance:
		return "insurance"
	default:
		panic(LineTypeError(t))
	}
}

// ParseLineType parses the given string and returns a LineType,
// helping to deserialize it when reading a REST API request.
// For invalid strings, LineTypeInvalid and ErrUnknownLineType will
// be returned.
func ParseLineType(t string) (LineType, error) {
	switch t {
	case "car_group":
		return LineTypeCarGroup, nil
	case "optional":
		return LineTypeOptional, nil
	case "insurance":
		return LineTypeInsurance, nil
	default:
		return LineTypeInvalid, ErrUnknownLineType
	}
}

// MarshalText serializes a LineType as its string form, so structs
// embedding it can be encoded as JSON without custom marshallers.
func (t LineType) MarshalText() ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return []byte(t.String()), nil
}

// UnmarshalText deserializes a LineType from its string form.
func (t *LineType) UnmarshalText(b []byte) error {
	lt, err := ParseLineType(string(b))
	if err != nil {
		return err
	}
	*t = lt
	return nil
}

// LineItem is one cart line. Each concrete line kind is a distinct
// struct with its own required fields (checked by Validate at
// construction time), instead of one loosely validated bag of
// metadata. All amounts are integral cents.
type LineItem interface {
	// LineType returns the kind tag of this line.
	LineType() LineType
	// Label returns the human readable name of this line.
	Label() string
	// Quantity returns the number of billed units, at least 1.
	Quantity() int
	// UnitPrice returns the price of one unit in cents.
	UnitPrice() int64
	// Validate checks the required fields of this line kind and
	// returns a descriptive error for the first violation.
	Validate() error
}

// LineTotal returns the total price of the li line item.
func LineTotal(li LineItem) int64 {
	return int64(li.Quantity()) * li.UnitPrice()
}

// CarGroupLine is the vehicle-group selection of a cart. A cart holds
// at most one of these at a time.
type CarGroupLine struct {
	GroupID    uuid.UUID
	Category   string
	PlanType   string
	PeriodDays int
	Price      int64 // base fare for the whole period, in cents
}

// LineType returns LineTypeCarGroup.
func (l CarGroupLine) LineType() LineType { return LineTypeCarGroup }

// Label returns the car group category name.
func (l CarGroupLine) Label() string { return l.Category }

// Quantity returns 1; a car group selection is never multiplied.
func (l CarGroupLine) Quantity() int { return 1 }

// UnitPrice returns the base fare for the whole rental period.
func (l CarGroupLine) UnitPrice() int64 { return l.Price }

// Validate checks the required fields of a car group line.
func (l CarGroupLine) Validate() error {
	switch {
	case l.GroupID == uuid.Nil:
		return errors.New("car group line requires a group id")
	case l.Category == "":
		return errors.New("car group line requires a category")
	case l.PlanType == "":
		return errors.New("car group line requires a plan type")
	case l.PeriodDays <= 0:
		return errors.New("car group line requires a positive period")
	case l.Price < 0:
		return errors.New("car group line price may not be negative")
	}
	return nil
}

// OptionalLine is an extra added on top of the car group selection,
// such as a child seat.
type OptionalLine struct {
	OptionalID uuid.UUID
	Name       string
	Count      int
	Price      int64 // price of one unit, in cents
}

// LineType returns LineTypeOptional.
func (l OptionalLine) LineType() LineType { return LineTypeOptional }

// Label returns the optional name.
func (l OptionalLine) Label() string { return l.Name }

// Quantity returns the number of billed units.
func (l OptionalLine) Quantity() int { return l.Count }

// UnitPrice returns the price of one unit.
func (l OptionalLine) UnitPrice() int64 { return l.Price }

// Validate checks the required fields of an optional line.
func (l OptionalLine) Validate() error {
	switch {
	case l.Name == "":
		return errors.New("optional line requires a name")
	case l.Count <= 0:
		return errors.New("optional line requires a positive quantity")
	case l.Price < 0:
		return errors.New("optional line price may not be negative")
	}
	return nil
}

// InsuranceLine is an insurance plan added to the cart.
type InsuranceLine struct {
	PlanName string
	Price    int64 // plan price for the whole period, in cents
}

// LineType returns LineTypeInsurance.
func (l InsuranceLine) LineType() LineType { return LineTypeInsurance }

// Label returns the insurance plan name.
func (l InsuranceLine) Label() string { return l.PlanName }

// Quantity returns 1; insurance plans cover the whole period.
func (l InsuranceLine) Quantity() int { return 1 }

// UnitPrice returns the plan price.
func (l InsuranceLine) UnitPrice() int64 { return l.Price }

// Validate checks the required fields of an insurance line.
func (l InsuranceLine) Validate() error {
	switch {
	case l.PlanName == "":
		return errors.New("insurance line requires a plan name")
	case l.Price < 0:
		return errors.New("insurance line price may not be negative")
	}
	return nil
}

// Cart is the in-memory, client-held collection of line items which
// is committed into a checkout session. It is an explicit value which
// callers thread through function arguments; it is not durable and an
// abandoned cart leaves no trace.
type Cart struct {
	items     []LineItem
	sessionID *uuid.UUID // session created from this cart, if any
}

// AddItem validates and appends the li line to the cart. Adding a
// car group line first evicts any existing car group line, because a
// cart holds at most one vehicle-group selection at a time.
func (c *Cart) AddItem(li LineItem) error {
	if err := li.Validate(); err != nil {
		return fmt.Errorf("validating %s line: %w", li.LineType(), err)
	}
	if li.LineType() == LineTypeCarGroup {
		items := c.items[:0]
		for _, it := range c.items {
			if it.LineType() != LineTypeCarGroup {
				items = append(items, it)
			}
		}
		c.items = items
	}
	c.items = append(c.items, li)
	return nil
}

// Clear drops all lines and any stale reference to a previously
// created checkout session, so the next commit creates a fresh
// session instead of reusing totals from an abandoned flow.
func (c *Cart) Clear() {
	c.items = nil
	c.sessionID = nil
}

// Items returns a copy of the cart lines in insertion order.
func (c *Cart) Items() []LineItem {
	items := make([]LineItem, len(c.items))
	copy(items, c.items)
	return items
}

// Len returns the number of cart lines.
func (c *Cart) Len() int {
	return len(c.items)
}

// CarGroup returns the single car group line of the cart, if any.
func (c *Cart) CarGroup() (CarGroupLine, bool) {
	for _, it := range c.items {
		if cg, ok := it.(CarGroupLine); ok {
			return cg, true
		}
	}
	return CarGroupLine{}, false
}

// Total returns the sum of the line totals, without any payment
// method discount (discounts are the pricing engine's concern).
func (c *Cart) Total() int64 {
	var sum int64
	for _, it := range c.items {
		sum += LineTotal(it)
	}
	return sum
}

// BindSession records the session which was created from this cart.
func (c *Cart) BindSession(sid uuid.UUID) {
	c.sessionID = &sid
}

// SessionID returns the bound session id, or false if the cart was
// not committed yet (or was cleared since).
func (c *Cart) SessionID() (uuid.UUID, bool) {
	if c.sessionID == nil {
		return uuid.Nil, false
	}
	return *c.sessionID, true
}
