package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnknownClient signals a validation request for a client id that
	// was never registered.
	ErrUnknownClient = errors.New("unknown client")
	// ErrUnavailable signals a missing optional collaborator (graph store,
	// cache, ledger) required by the requested operation.
	ErrUnavailable = errors.New("unavailable")
)
