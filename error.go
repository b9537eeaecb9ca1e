package edgecache

import "fmt"

// Error types for cache construction and growth

// ErrIllegalKey indicates that a write used the reserved sentinel key.
// EmptyKey marks free slots internally and can never be stored; real
// symbol values must not collide with it.
var ErrIllegalKey = &CacheError{
	Kind:    IllegalKey,
	Message: "symbol collides with the reserved empty-slot sentinel",
}

// ErrInvalidCapacity indicates that a requested capacity failed
// validation: below 1, or beyond the absolute ceiling after rounding up
// to a power of two. This is caught at construction.
var ErrInvalidCapacity = &CacheError{
	Kind:    InvalidCapacity,
	Message: "requested capacity is out of range",
}

// ErrCapacityLimit indicates that the probing table reached the absolute
// capacity ceiling and cannot grow further. The cache stays readable and
// keeps accepting writes that fit, but the offending insert is lost.
var ErrCapacityLimit = &CacheError{
	Kind:    CapacityLimit,
	Message: "table capacity limit reached",
}

// ErrorKind classifies cache errors into categories
type ErrorKind uint8

const (
	// IllegalKey indicates the reserved sentinel was used as a symbol
	IllegalKey ErrorKind = iota

	// InvalidCapacity indicates capacity validation failed at construction
	InvalidCapacity

	// CapacityLimit indicates growth beyond the absolute table ceiling
	CapacityLimit
)

// String returns a human-readable error kind name
func (k ErrorKind) String() string {
	switch k {
	case IllegalKey:
		return "IllegalKey"
	case InvalidCapacity:
		return "InvalidCapacity"
	case CapacityLimit:
		return "CapacityLimit"
	default:
		return fmt.Sprintf("UnknownErrorKind(%d)", k)
	}
}

// CacheError represents an error from cache construction or growth
type CacheError struct {
	Kind    ErrorKind
	Message string
	Cause   error // Optional underlying error
}

// Error implements the error interface
func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error (for errors.Is/As)
func (e *CacheError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison for errors.Is
func (e *CacheError) Is(target error) bool {
	t, ok := target.(*CacheError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// capacityError builds an InvalidCapacity error carrying the rejected
// request.
func capacityError(requested int) *CacheError {
	return &CacheError{
		Kind:    InvalidCapacity,
		Message: fmt.Sprintf("capacity %d is out of range [1, %d]", requested, capacityLimit),
	}
}
