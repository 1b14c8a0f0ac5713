package slirc

import "errors"

var (
	// ErrNoTag is reported when a required tag is absent from an event.
	ErrNoTag = errors.New("no such tag")

	// ErrNoModule is reported when no module is loaded for the requested
	// API, or the loaded module is not of the requested concrete type.
	ErrNoModule = errors.New("no such module")

	// ErrInvalidHandler is the panic value of Attach when the identity or
	// the callback is invalid.
	ErrInvalidHandler = errors.New("invalid handler registration")
)
