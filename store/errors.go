package store

import "fmt"

// Error kinds are comparable string types so callers can both match a
// specific failure with errors.Is and map a whole kind with errors.As.

// ValidationError reports malformed caller input, detected before any
// data access.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// NotFoundError reports an entity that is absent after a successful
// data access.
type NotFoundError string

func (e NotFoundError) Error() string { return string(e) }

// ConflictError reports a uniqueness violation.
type ConflictError string

func (e ConflictError) Error() string { return string(e) }

// ExpiredError reports a business-rule rejection of an expired item.
type ExpiredError string

func (e ExpiredError) Error() string { return string(e) }

const (
	ErrInvalidProductID  = ValidationError("invalid product id")
	ErrInvalidItemID     = ValidationError("invalid item id")
	ErrInvalidExpiryDate = ValidationError("invalid expiry date")
	ErrInvalidItem       = ValidationError("invalid item")

	ErrProductNotFound = NotFoundError("product not found")
	ErrItemNotFound    = NotFoundError("item not found")

	ErrItemExists = ConflictError("item already exists")

	ErrItemExpired = ExpiredError("item expired")
)

// SourceError reports a failed collection fetch. It is surfaced to the
// caller unchanged, assembly is never attempted on partial data.
type SourceError struct {
	Collection string
	Err        error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("collection %q unavailable: %v", e.Collection, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }
