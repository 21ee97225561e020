package resolve

import "github.com/bvanjoi/node-resolver/internal/resolver"

// ErrorKind mirrors internal/resolver.ErrorKind, re-exported so callers
// never need to import the internal package to inspect an error (spec.md
// §6 "Errors surfaced").
type ErrorKind = resolver.ErrorKind

const (
	ErrResolveFailed    = resolver.ErrResolveFailed
	ErrOverflow         = resolver.ErrOverflow
	ErrUnexpectedJSON   = resolver.ErrUnexpectedJSON
	ErrUnexpectedValue  = resolver.ErrUnexpectedValue
	ErrCantFindTsConfig = resolver.ErrCantFindTsConfig
	ErrIO               = resolver.ErrIO
)

// Error is the public error type Resolve/LoadSideEffects return. It has
// the same shape as internal/resolver.Error — a defined type over it
// rather than a re-export, so the public API surface doesn't name an
// internal package in its exported signatures.
type Error resolver.Error

func (e *Error) Error() string {
	return (*resolver.Error)(e).Error()
}

func (e *Error) Unwrap() error {
	return (*resolver.Error)(e).Unwrap()
}

// IsResolveFailed reports the "expected, no diagnostic detail" soft
// failure spec.md §7 distinguishes from hard errors.
func (e *Error) IsResolveFailed() bool { return e.Kind == ErrResolveFailed }
