package model

import "errors"

var (
	// ErrInsufficientHistory means the table holds fewer usable rows than a computation needs.
	ErrInsufficientHistory = errors.New("insufficient history")
	// ErrMissingIndicator means a required indicator is absent or non-finite on the latest row.
	ErrMissingIndicator = errors.New("missing indicator")
	// ErrInvalidPrice means a zero or negative price broke a ratio computation.
	ErrInvalidPrice = errors.New("invalid price")
)
