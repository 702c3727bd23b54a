package domain

import (
	"database/sql/driver"

	"github.com/google/uuid"
)

// CustomerRef is an optional reference to an identified customer.
// The zero value is a guest (no customer).
type CustomerRef struct {
	id    uuid.UUID
	valid bool
}

// SomeCustomer returns a reference to the given customer
func SomeCustomer(id uuid.UUID) CustomerRef {
	return CustomerRef{id: id, valid: true}
}

// NoCustomer returns a guest reference
func NoCustomer() CustomerRef {
	return CustomerRef{}
}

// Get returns the customer id and whether it is present
func (c CustomerRef) Get() (uuid.UUID, bool) {
	return c.id, c.valid
}

// IsGuest returns true if no customer is attached
func (c CustomerRef) IsGuest() bool {
	return !c.valid
}

// Is returns true if the reference points to the given customer
func (c CustomerRef) Is(id uuid.UUID) bool {
	return c.valid && c.id == id
}

// String returns the customer id or "guest"
func (c CustomerRef) String() string {
	if !c.valid {
		return "guest"
	}
	return c.id.String()
}

// Scan implements sql.Scanner for a nullable UUID column
func (c *CustomerRef) Scan(src interface{}) error {
	var n uuid.NullUUID
	if err := n.Scan(src); err != nil {
		return err
	}
	c.id, c.valid = n.UUID, n.Valid
	return nil
}

// Value implements driver.Valuer
func (c CustomerRef) Value() (driver.Value, error) {
	return uuid.NullUUID{UUID: c.id, Valid: c.valid}.Value()
}

// Actor is the caller of an operation
type Actor struct {
	CustomerID uuid.UUID
	IsAdmin    bool
}

// CanAccess returns true if the actor may read or change data of the given customer
func (a Actor) CanAccess(customer CustomerRef) bool {
	return a.IsAdmin || customer.Is(a.CustomerID)
}
