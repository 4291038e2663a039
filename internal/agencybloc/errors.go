package agencybloc

import "errors"

var (
	// ErrMissingCredentials is returned when the AgencyBloc sid/key pair is not configured
	ErrMissingCredentials = errors.New("agencybloc sid and key are required")
	// ErrRequestFailed is returned when an AgencyBloc request cannot be completed
	ErrRequestFailed = errors.New("agencybloc request failed")
	// ErrUnexpectedStatus is returned when AgencyBloc responds with an unexpected HTTP status
	ErrUnexpectedStatus = errors.New("unexpected agencybloc response status")
	// ErrCreateRejected is returned when AgencyBloc rejects a lead create call
	ErrCreateRejected = errors.New("agencybloc rejected lead create")
)
