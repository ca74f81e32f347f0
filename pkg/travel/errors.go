package travel

import "errors"

var (
	// ErrParseFailure means the extractor could not determine required fields
	ErrParseFailure = errors.New("could not extract required travel parameters")

	// ErrProvider covers network, HTTP and job failures from one backend
	ErrProvider = errors.New("provider failed")

	// ErrTimeout means a polled job exceeded its wait budget
	ErrTimeout = errors.New("provider job timed out")

	// ErrValidation means required reservation fields are missing
	ErrValidation = errors.New("reservation request is invalid")

	// ErrPersistence means the trip cache document could not be read or written
	ErrPersistence = errors.New("trip cache persistence failed")
)
