// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case and stable; clients branch on them rather
// than on messages. Generic codes mirror the HTTP status. Domain codes name
// failures the status alone cannot convey.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "page_out_of_range",
//	  "message": "page 4 does not exist"
//	}
package handlers

const (
	ErrCodeBadRequest  = "bad_request"
	ErrCodeNotFound    = "not_found"
	ErrCodeRateLimited = "too_many_requests"
	ErrCodeInternal    = "internal_error"
	ErrCodeUnavailable = "service_unavailable"
	ErrCodeMissingUser = "missing_user_id"
	ErrCodeTooLarge    = "payload_too_large"
	ErrCodeNotAllowed  = "method_not_allowed"
	ErrCodeUnsupported = "unsupported_action"

	// Domain-specific:
	ErrCodeEmptyQuery   = "empty_query"
	ErrCodePageRange    = "page_out_of_range"
	ErrCodeNoIngestRun  = "no_ingest_run"
	ErrCodeHandleFailed = "handle_failed"
	ErrCodeSearchFailed = "search_failed"
	ErrCodeReportFailed = "report_failed"
)
