// Package pkierr defines the kind-agnostic sentinel errors surfaced by the
// core (§7). Call sites wrap one of these with fmt.Errorf's %w verb so
// callers can still recover the category with errors.Is.
package pkierr

import "errors"

var (
	// ErrAllocation is raised when an arena or map allocation would have
	// returned null in the source.
	ErrAllocation = errors.New("pkicore: allocation failure")

	// ErrNotFound is raised when a bulk retrieval produces no objects.
	ErrNotFound = errors.New("pkicore: not found")

	// ErrTokenFailure is raised when the token driver reports failure on
	// delete or attribute read.
	ErrTokenFailure = errors.New("pkicore: token operation failed")

	// ErrInvalidArgument is raised when an encoding is unexpectedly
	// absent while computing a UID.
	ErrInvalidArgument = errors.New("pkicore: invalid argument")
)
