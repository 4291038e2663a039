package api

import "errors"

var (
	// ErrInvalidRequestBody is returned when the request body cannot be decoded
	ErrInvalidRequestBody = errors.New("invalid request body")
	// ErrMultipleJSONObjects is returned when the request body contains more than one JSON object
	ErrMultipleJSONObjects = errors.New("request body must contain a single JSON object")
	// ErrTooManyRequests is returned when the caller exceeds the rate limit
	ErrTooManyRequests = errors.New("too many requests, please try again later")
	// ErrSubmissionRejected is returned when the abuse heuristic flags a submission
	ErrSubmissionRejected = errors.New("submission rejected")
	// ErrEmailRequired is returned when a signup is missing a valid email address
	ErrEmailRequired = errors.New("a valid email address is required")
	// ErrMessageRequired is returned when a contact submission has no message
	ErrMessageRequired = errors.New("a message is required")
	// ErrNameRequired is returned when a submission is missing a usable name
	ErrNameRequired = errors.New("name must be at least 2 characters")
	// ErrProductRequired is returned when a waitlist entry names no product
	ErrProductRequired = errors.New("a product is required")
	// ErrLeadIDRequired is returned when an operation is missing the lead identifier
	ErrLeadIDRequired = errors.New("leadId is required")
	// ErrStatusRequired is returned when a status update names no status
	ErrStatusRequired = errors.New("status is required")
	// ErrUnauthenticated is returned when an admin operation lacks valid credentials
	ErrUnauthenticated = errors.New("authentication required")
	// ErrLeadNotFound is returned when no lead matches the given identifier
	ErrLeadNotFound = errors.New("lead not found")
)
