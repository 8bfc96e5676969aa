package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-jose/go-jose/v4"

	"statuslist/internal/statuslist/service"
	"statuslist/pkg/platform/httputil"
	"statuslist/pkg/platform/middleware/request"
)

// Service is the status list flow surface used by the handler.
type Service interface {
	Issue(ctx context.Context) (*service.IssueResult, error)
	Revoke(ctx context.Context, body string) (*service.RevokeResult, error)
}

// JWKSPublisher writes the current signing key set to storage.
type JWKSPublisher interface {
	Publish(ctx context.Context) (*jose.JSONWebKeySet, error)
}

type Handler struct {
	service Service
	jwks    JWKSPublisher
	logger  *slog.Logger
}

// New builds the handler. jwks may be nil, in which case the publish route
// is not mounted.
func New(service Service, jwks JWKSPublisher, logger *slog.Logger) *Handler {
	return &Handler{service: service, jwks: jwks, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/issue", h.HandleIssue)
	r.Post("/revoke", h.HandleRevoke)
	if h.jwks != nil {
		r.Post("/jwks/publish", h.HandlePublishJWKS)
	}
}

// HandleIssue responds 200 with {"idx": n, "uri": "..."}.
func (h *Handler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.RequestIDFromContext(ctx)

	result, err := h.service.Issue(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue status list token",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleRevoke takes the compact token as the raw request body and responds
// 202 with {"message": "...", "revokedAt": ms}. A body sent as a JSON string
// literal is unwrapped first.
func (h *Handler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.RequestIDFromContext(ctx)

	body, ok := httputil.ReadBody(w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Revoke(ctx, unquote(body))
	if err != nil {
		h.logger.WarnContext(ctx, "failed to revoke status list token",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, result)
}

func (h *Handler) HandlePublishJWKS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.RequestIDFromContext(ctx)

	set, err := h.jwks.Publish(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to publish jwks",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, set)
}

func unquote(body string) string {
	trimmed := strings.TrimSpace(body)
	if len(trimmed) < 2 || trimmed[0] != '"' {
		return body
	}
	var s string
	if err := json.Unmarshal([]byte(trimmed), &s); err != nil {
		return body
	}
	return s
}
