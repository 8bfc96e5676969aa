// Package domain holds the error taxonomy shared by the status list packages.
//
// Every sentinel carries a distinct domain code, so errors.Is matches them
// through any number of dErrors.Wrap layers.
package domain

import (
	dErrors "statuslist/pkg/domain-errors"
)

var (
	ErrConfiguration = dErrors.New(dErrors.CodeConfiguration, "missing required configuration")
	ErrNotFound      = dErrors.New(dErrors.CodeNotFound, "status list entry not found")
	ErrSigning       = dErrors.New(dErrors.CodeSigningFailed, "signing failed")
	ErrStorage       = dErrors.New(dErrors.CodeStorageFailed, "storage write failed")

	ErrEmptyBody           = dErrors.New(dErrors.CodeEmptyBody, "request body is empty")
	ErrMalformedToken      = dErrors.New(dErrors.CodeMalformedToken, "malformed token")
	ErrInvalidPayloadShape = dErrors.New(dErrors.CodeInvalidPayloadShape, "token payload is not a JSON object")
	ErrMissingURI          = dErrors.New(dErrors.CodeMissingURI, "token payload is missing 'uri' claim")
	ErrMissingIndex        = dErrors.New(dErrors.CodeMissingIndex, "token payload is missing 'idx' claim")
)
