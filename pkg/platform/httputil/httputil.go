package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "statuslist/pkg/domain-errors"
)

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; an encoding error cannot change the status.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError translates a domain error into an HTTP status and a JSON body
// of the form {"error": code, "error_description": message}.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		response := map[string]string{
			"error": DomainCodeToHTTPCode(domainErr.Code),
		}
		if domainErr.Message != "" {
			response["error_description"] = domainErr.Message
		}
		WriteJSON(w, DomainCodeToHTTPStatus(domainErr.Code), response)
		return
	}

	WriteJSON(w, http.StatusInternalServerError, map[string]string{
		"error": DomainCodeToHTTPCode(dErrors.CodeInternal),
	})
}

// DomainCodeToHTTPStatus maps client input defects to 400, unknown entries to
// 404 and failures of the signer or the object store to 502.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	if code.IsInputDefect() {
		return http.StatusBadRequest
	}
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeSigningFailed, dErrors.CodeStorageFailed:
		return http.StatusBadGateway
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	case dErrors.CodeConfiguration, dErrors.CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// DomainCodeToHTTPCode returns the error string for the JSON body. Revocation
// input codes pass through unchanged so clients can tell them apart.
func DomainCodeToHTTPCode(code dErrors.Code) string {
	switch code {
	case dErrors.CodeNotFound:
		return "not_found"
	case dErrors.CodeBadRequest, dErrors.CodeInvalidInput:
		return "bad_request"
	case dErrors.CodeValidation:
		return "validation_error"
	case dErrors.CodeEmptyBody, dErrors.CodeMalformedToken, dErrors.CodeInvalidPayloadShape,
		dErrors.CodeMissingURI, dErrors.CodeMissingIndex:
		return string(code)
	case dErrors.CodeSigningFailed:
		return "signing_failed"
	case dErrors.CodeStorageFailed:
		return "storage_failed"
	case dErrors.CodeTimeout:
		return "timeout"
	case dErrors.CodeConfiguration:
		return "configuration_error"
	default:
		return "internal_error"
	}
}
