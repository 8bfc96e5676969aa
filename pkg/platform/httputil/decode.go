package httputil

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "statuslist/pkg/domain-errors"
)

// ReadBody reads the whole request body as a string.
// On failure it writes an error response and returns "", false; a body over
// the BodyLimit middleware's cap gets 413.
//
// Usage:
//
//	body, ok := httputil.ReadBody(w, r, h.logger, ctx, requestID)
//	if !ok {
//	    return
//	}
func ReadBody(w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (string, bool) {
	if r.Body == nil {
		return "", true
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		logger.WarnContext(ctx, "failed to read request body",
			"error", err,
			"request_id", requestID,
		)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WritePayloadTooLarge(w)
			return "", false
		}
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return "", false
	}
	return string(data), true
}

// WritePayloadTooLarge writes the 413 response shared by ReadBody and the
// BodyLimit middleware.
func WritePayloadTooLarge(w http.ResponseWriter) {
	WriteJSON(w, http.StatusRequestEntityTooLarge, map[string]string{
		"error":             "payload_too_large",
		"error_description": "request body too large",
	})
}
