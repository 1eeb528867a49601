// Package services holds the conversation logic of the bot and the
// read-side use-cases of the HTTP API. This file centralizes the
// service-level error values so callers can check them with errors.Is.
//
// The bot handler maps its own errors to user messages; handlers of the HTTP
// layer translate the rest into status codes.
package services

import (
	"errors"

	"github.com/kote12ab-cloud/minjust-searh-base/internal/session"
)

var (
	// ErrEmptyQuery is returned when the query is blank after trimming.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrNoSession indicates navigation without a prior search.
	ErrNoSession = session.ErrNoSession

	// ErrUnknownAction is returned for a navigation action other than
	// prev/next.
	ErrUnknownAction = errors.New("unknown navigation action")

	// ErrRecordNotFound indicates that no record has the requested id.
	ErrRecordNotFound = errors.New("record not found")

	// ErrNoIngestRun is returned when no load has been reported yet.
	ErrNoIngestRun = errors.New("no ingestion run recorded")
)
