package domain

import "errors"

var (
	// ErrResourceNotFound is returned by LocalStore lookups/deletes for a
	// key that is not currently held locally.
	ErrResourceNotFound = errors.New("domain: resource not found")
	// ErrNotResponsible is returned when a node is asked to hold a key
	// outside the (predecessor, self] interval it currently owns.
	ErrNotResponsible = errors.New("domain: node is not responsible for this key")
)

// Resource is the opaque value stored under a ring identifier. The store
// does not distinguish primary copies from backup copies; that
// classification is re-derived from current ring neighbors during
// maintenance.
type Resource struct {
	Key   ID
	Value string
}
