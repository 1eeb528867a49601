package ingest

import "errors"

var (
	// ErrSourceUnavailable is returned when the export cannot be opened or
	// read. The load fails as a whole and no database is produced.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrUnknownEncoding is returned when the configured encoding label is
	// not recognised.
	ErrUnknownEncoding = errors.New("unknown source encoding")

	// ErrBadIdentifier marks a line whose numeric identifier cannot be
	// represented. Only that line is skipped.
	ErrBadIdentifier = errors.New("identifier out of range")

	// ErrMalformedLine marks a line whose processing failed unexpectedly.
	ErrMalformedLine = errors.New("malformed line")
)
