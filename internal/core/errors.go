// Package core defines sentinel errors and the upper-layer dispatch table.
package core

import "errors"

// Sentinel errors for the wire codecs. Callers wrap these with %w and
// match with errors.Is.
var (
	// Header parsing errors
	ErrMalformedHeader = errors.New("nxwire: malformed header")
	ErrUnalignedSize   = errors.New("nxwire: extension header size not a multiple of 8")

	// Match field errors
	ErrUnknownFieldType        = errors.New("nxwire: unknown match field type")
	ErrInsufficientMatchLength = errors.New("nxwire: insufficient match length")

	// Registry errors
	ErrDuplicateRegistration = errors.New("nxwire: duplicate registration")
)
