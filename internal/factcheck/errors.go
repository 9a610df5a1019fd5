package factcheck

import "errors"

var (
	// ErrInvalidArgument marks bad or missing request fields
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMissingCredential marks a missing API key; it also matches ErrInvalidArgument
	ErrMissingCredential = &credentialError{}
)

type credentialError struct{}

func (e *credentialError) Error() string { return "missing credential" }

func (e *credentialError) Unwrap() error { return ErrInvalidArgument }
