package models

import "errors"

var (
	// ErrInvalidSeed rejects a malformed or incomplete seed table.
	ErrInvalidSeed = errors.New("invalid seed table")
	// ErrInvalidAllocation marks a negative or non-finite signed-units total.
	ErrInvalidAllocation = errors.New("invalid signed units allocation")
	ErrScrapeFailed      = errors.New("scrape failed")
	ErrExportFailed      = errors.New("export failed")
	ErrStoreFailed       = errors.New("store failed")
)
