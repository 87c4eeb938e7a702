// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// These symbolic constants are mapped to HTTP responses via the `fail()`
// helper and give clients a stable, machine-readable taxonomy alongside the
// human-readable message. Generic codes mirror common HTTP status semantics;
// domain-specific codes cover outcomes a status alone cannot convey (most
// importantly lookup_failed, which distinguishes "the metadata service could
// not confirm this title" from a plain validation failure).
package handlers

const (
	ErrCodeBadRequest  = "bad_request"
	ErrCodeNotFound    = "not_found"
	ErrCodeRateLimited = "too_many_requests"
	ErrCodeInternal    = "internal_error"

	// Domain-specific:
	ErrCodeLookupFailed     = "lookup_failed"
	ErrCodeCreateFailed     = "create_failed"
	ErrCodeListFailed       = "list_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
