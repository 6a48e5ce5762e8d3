package errors

import "github.com/pkg/errors"

var (
	// common errors
	ErrNotFound     = errors.New("record not found")
	ErrInvalidInput = errors.New("invalid input parameters")

	// pipeline errors
	ErrAlreadyProcessed = errors.New("email is already processed")
	ErrPassInFlight     = errors.New("processing pass already in progress")

	// classifier errors
	ErrNoProviderAvailable = errors.New("no AI provider available")

	// cipher errors
	ErrMalformedCiphertext = errors.New("malformed ciphertext")

	// executor errors
	ErrUnsupportedActionType = errors.New("unsupported action type")
)
