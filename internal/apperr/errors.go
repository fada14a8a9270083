// Package apperr holds the sentinel errors shared across inkwell packages.
package apperr

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidPath = errors.New("invalid path")
	ErrDisabled    = errors.New("disabled")
)
