package auctionerrors

import (
	"errors"
	"sort"
	"strings"
)

// Not-found errors
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrItemNotFound  = errors.New("item not found")
	ErrQueryNotFound = errors.New("query not found")
)

// Bid engine errors, reported in this order by the bid checks
var (
	ErrSelfBid            = errors.New("you cannot bid on your own items")
	ErrAuctionEnded       = errors.New("item auction has ended")
	ErrMissingPrice       = errors.New("bid price must be provided")
	ErrPriceNotIncreasing = errors.New("new bid price must be higher than previous bid price")
	ErrPriceBelowStarting = errors.New("bid price cannot be less than starting price")
	ErrBidConflict        = errors.New("item was updated by a concurrent bid, please retry")
)

// Field validation errors
var (
	ErrInvalidPrice           = errors.New("enter a valid amount with at most 2 decimal places")
	ErrNegativePrice          = errors.New("price cannot be negative")
	ErrInvalidDate            = errors.New("enter a valid date")
	ErrStartingPriceImmutable = errors.New("starting price cannot be changed after creation")
	ErrInvalidUpload          = errors.New("upload a valid image file")
)

// Authorization errors
var (
	ErrUnauthenticated    = errors.New("you must be authenticated to perform this action")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotItemOwner       = errors.New("you can only edit your own items")
	ErrNotQueryAsker      = errors.New("you can only edit your own queries")
	ErrNotAnswerer        = errors.New("you can only answer queries on your own items")
	ErrNotProfileOwner    = errors.New("you can only edit your own user profile")
)

// Conflict errors
var (
	ErrEmailTaken      = errors.New("email already registered")
	ErrSweepInProgress = errors.New("another auction sweep is in progress")
)

// Notification errors
var (
	ErrDelivery      = errors.New("notification delivery failed")
	ErrMissingBidder = errors.New("item does not have a bidder")
)

// Kind classifies an error for callers that need to react to its category.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindDelivery
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindDelivery:
		return "delivery"
	default:
		return "internal"
	}
}

var kinds = []struct {
	kind Kind
	errs []error
}{
	{KindNotFound, []error{ErrUserNotFound, ErrItemNotFound, ErrQueryNotFound}},
	{KindUnauthenticated, []error{ErrUnauthenticated, ErrInvalidCredentials}},
	{KindForbidden, []error{ErrNotItemOwner, ErrNotQueryAsker, ErrNotAnswerer, ErrNotProfileOwner, ErrAuctionEnded}},
	{KindConflict, []error{ErrEmailTaken, ErrBidConflict, ErrSweepInProgress}},
	{KindDelivery, []error{ErrDelivery, ErrMissingBidder}},
	{KindValidation, []error{
		ErrSelfBid, ErrMissingPrice, ErrPriceNotIncreasing, ErrPriceBelowStarting,
		ErrInvalidPrice, ErrNegativePrice, ErrInvalidDate, ErrStartingPriceImmutable, ErrInvalidUpload,
	}},
}

// KindOf reports the category of err. Unknown errors are KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}
	for _, group := range kinds {
		for _, target := range group.errs {
			if errors.Is(err, target) {
				return group.kind
			}
		}
	}
	var fieldErr *FieldError
	var formErr *FormError
	if errors.As(err, &fieldErr) || errors.As(err, &formErr) {
		return KindValidation
	}
	return KindInternal
}

// FieldError is a validation failure attached to a single input field.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Err.Error() }

func (e *FieldError) Unwrap() error { return e.Err }

// Field wraps err as a validation failure on field.
func Field(field string, err error) error {
	return &FieldError{Field: field, Err: err}
}

// FormError collects per-field messages from struct validation.
type FormError struct {
	Fields map[string]string
}

func (e *FormError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields extracts field-level messages from err, or nil if it carries none.
func Fields(err error) map[string]string {
	var formErr *FormError
	if errors.As(err, &formErr) {
		return formErr.Fields
	}
	var fieldErr *FieldError
	if errors.As(err, &fieldErr) {
		return map[string]string{fieldErr.Field: fieldErr.Err.Error()}
	}
	return nil
}
