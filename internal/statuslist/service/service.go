// Package service runs the two status list flows: issuing a fresh token and
// rewriting an existing one as revoked.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"statuslist/internal/platform/tracer"
	"statuslist/internal/statuslist/events"
	"statuslist/internal/statuslist/metrics"
	"statuslist/internal/statuslist/objectstore"
	"statuslist/internal/statuslist/registry"
	"statuslist/internal/statuslist/token"
	dErrors "statuslist/pkg/domain-errors"
	"statuslist/pkg/platform/middleware/request"
	"statuslist/pkg/platform/middleware/requesttime"
)

// SubjectPathPrefix sits between the self URL and the object identifier.
const SubjectPathPrefix = "/t/"

// RevokeMessage is the fixed acknowledgement text for a revocation.
const RevokeMessage = "Request processed for revocation"

// Signer returns the JOSE signature segment for a signing input.
type Signer interface {
	SignJOSE(ctx context.Context, signingInput, keyID string) (string, error)
}

// ObjectStore overwrites the object at (container, key).
type ObjectStore interface {
	Put(ctx context.Context, container, key string, body []byte, contentType string) error
}

// EventPublisher announces flow outcomes. It must not block on delivery.
type EventPublisher interface {
	Publish(ctx context.Context, e events.Event)
}

type Config struct {
	KeyID string
	// Bucket is the storage container for signed tokens.
	Bucket string
	// SelfURL is both the token issuer and the base of subject URIs.
	SelfURL string
}

type IssueResult struct {
	Index int    `json:"idx"`
	URI   string `json:"uri"`
}

type RevokeResult struct {
	Message string `json:"message"`
	// RevokedAt is epoch milliseconds.
	RevokedAt int64 `json:"revokedAt"`
}

type Option func(*Service)

type Service struct {
	registry *registry.Registry
	signer   Signer
	store    ObjectStore
	keyID    string
	bucket   string
	selfURL  string

	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  tracer.Tracer
	events  EventPublisher
	random  registry.Source
	newID   func() string
}

// New builds the service. The registry, signer and store are required.
func New(reg *registry.Registry, signer Signer, store ObjectStore, cfg Config, opts ...Option) (*Service, error) {
	if reg == nil || signer == nil || store == nil {
		return nil, dErrors.New(dErrors.CodeConfiguration, "registry, signer and store are required")
	}
	if cfg.KeyID == "" || cfg.Bucket == "" || cfg.SelfURL == "" {
		return nil, dErrors.New(dErrors.CodeConfiguration, "key id, bucket and self url are required")
	}

	s := &Service{
		registry: reg,
		signer:   signer,
		store:    store,
		keyID:    cfg.KeyID,
		bucket:   cfg.Bucket,
		selfURL:  strings.TrimRight(cfg.SelfURL, "/"),
		logger:   slog.Default(),
		tracer:   tracer.NewNoop(),
		events:   events.NoopPublisher{},
		random:   registry.DefaultSource,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func WithEvents(p EventPublisher) Option {
	return func(s *Service) {
		s.events = p
	}
}

// WithRandom pins registry selection. Tests pass a seeded *rand.Rand.
func WithRandom(src registry.Source) Option {
	return func(s *Service) {
		s.random = src
	}
}

// WithIDGenerator replaces uuid.NewString for object identifiers.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		s.newID = fn
	}
}

// Issue picks a registry entry at random, signs a token for it under a new
// subject URI and stores it.
//
// Side effects: one signer call and one storage write. Nothing is stored if
// signing fails.
//
// Errors: signing errors (CodeSigningFailed) and storage errors
// (CodeStorageFailed) abort the flow; there is no retry.
func (s *Service) Issue(ctx context.Context) (result *IssueResult, err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, tracer.SpanIssue)
	defer func() {
		span.End(err)
		s.observe(metrics.FlowIssue, start, err)
	}()

	s.logger.InfoContext(ctx, "issuing status list token",
		"message_code", "ISSUE_STARTED",
		"request_id", request.RequestIDFromContext(ctx),
	)

	index, list := s.registry.PickRandomValid(s.random)
	uri := s.selfURL + SubjectPathPrefix + s.newID()
	span.SetAttributes(tracer.Int(tracer.AttrIndex, index), tracer.String(tracer.AttrURI, uri))

	key, err := StorageKey(uri)
	if err != nil {
		return nil, err
	}
	signed, err := s.signToken(ctx, list, uri)
	if err != nil {
		return nil, err
	}
	if err := s.put(ctx, key, signed); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementIssued()
	}
	s.events.Publish(ctx, events.NewEvent(events.TypeIssued, index, uri, requesttime.Now(ctx).UnixMilli()))
	span.AddEvent(tracer.EventStatusPublished)

	s.logger.InfoContext(ctx, "status list token issued",
		"message_code", "ISSUE_COMPLETED",
		"idx", index,
		"uri", uri,
		"request_id", request.RequestIDFromContext(ctx),
	)
	return &IssueResult{Index: index, URI: uri}, nil
}

// Revoke re-issues the token named by body with its revoked status list and
// overwrites the stored object.
//
// The inbound token's signature is not verified; its uri and idx claims are
// trusted as presented. Every input check runs before the signer or the
// store is touched.
//
// Errors: ErrEmptyBody, ErrMalformedToken, ErrInvalidPayloadShape,
// ErrMissingURI, ErrMissingIndex and ErrNotFound for bad input; signing and
// storage errors as in Issue.
func (s *Service) Revoke(ctx context.Context, body string) (result *RevokeResult, err error) {
	start := time.Now()
	revokedAt := requesttime.Now(ctx)
	ctx, span := s.tracer.Start(ctx, tracer.SpanRevoke)
	defer func() {
		span.End(err)
		s.observe(metrics.FlowRevoke, start, err)
	}()

	s.logger.InfoContext(ctx, "revoking status list token",
		"message_code", "REVOKE_STARTED",
		"request_id", request.RequestIDFromContext(ctx),
	)

	claims, err := ParseRevocationClaims(body)
	if err != nil {
		s.rejected(ctx, err)
		return nil, err
	}
	key, err := StorageKey(claims.URI)
	if err != nil {
		s.rejected(ctx, err)
		return nil, err
	}
	index, err := claims.Index()
	if err != nil {
		s.rejected(ctx, err)
		return nil, err
	}
	span.SetAttributes(tracer.Int(tracer.AttrIndex, index), tracer.String(tracer.AttrURI, claims.URI))

	list, err := s.registry.Lookup(index, registry.KindRevoked)
	if err != nil {
		s.rejected(ctx, err)
		return nil, err
	}

	signed, err := s.signToken(ctx, list, claims.URI)
	if err != nil {
		return nil, err
	}
	if err := s.put(ctx, key, signed); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementRevoked()
	}
	s.events.Publish(ctx, events.NewEvent(events.TypeRevoked, index, claims.URI, revokedAt.UnixMilli()))
	span.AddEvent(tracer.EventStatusPublished)

	s.logger.InfoContext(ctx, "status list token revoked",
		"message_code", "REVOKE_COMPLETED",
		"idx", index,
		"uri", claims.URI,
		"request_id", request.RequestIDFromContext(ctx),
	)
	return &RevokeResult{Message: RevokeMessage, RevokedAt: revokedAt.UnixMilli()}, nil
}

// signToken builds, signs and assembles a token for list with sub = subject.
func (s *Service) signToken(ctx context.Context, list registry.StatusList, subject string) (signed string, err error) {
	header := token.BuildHeader(s.keyID)
	payload := token.BuildPayload(s.selfURL, list, subject, requesttime.Now(ctx).Unix())

	input, err := token.SigningInput(header, payload)
	if err != nil {
		return "", err
	}

	ctx, span := s.tracer.Start(ctx, tracer.SpanSign, tracer.String(tracer.AttrKeyID, s.keyID))
	defer func() { span.End(err) }()

	sig, err := s.signer.SignJOSE(ctx, input, s.keyID)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncrementSigningFailures()
		}
		s.logger.ErrorContext(ctx, "failed to sign status list token",
			"key_id", s.keyID,
			"error", err,
			"request_id", request.RequestIDFromContext(ctx),
		)
		return "", dErrors.WrapAs(err, dErrors.CodeSigningFailed, "failed to sign status list token")
	}
	return token.Assemble(input, sig), nil
}

func (s *Service) put(ctx context.Context, key, signed string) (err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanStore,
		tracer.String(tracer.AttrContainer, s.bucket),
		tracer.String(tracer.AttrStorageKey, key),
	)
	defer func() { span.End(err) }()

	if err := s.store.Put(ctx, s.bucket, key, []byte(signed), objectstore.ContentTypeJSON); err != nil {
		if s.metrics != nil {
			s.metrics.IncrementStorageFailures()
		}
		s.logger.ErrorContext(ctx, "failed to store status list token",
			"bucket", s.bucket,
			"key", key,
			"error", err,
			"request_id", request.RequestIDFromContext(ctx),
		)
		return dErrors.WrapAs(err, dErrors.CodeStorageFailed, "failed to store status list token")
	}
	return nil
}

func (s *Service) rejected(ctx context.Context, err error) {
	reason := "unknown"
	if code, ok := dErrors.CodeOf(err); ok {
		reason = string(code)
	}
	if s.metrics != nil {
		s.metrics.IncrementRevokeRejected(reason)
	}
	s.logger.WarnContext(ctx, "revocation rejected",
		"reason", reason,
		"error", err,
		"request_id", request.RequestIDFromContext(ctx),
	)
}

func (s *Service) observe(flow string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	s.metrics.ObserveFlow(flow, outcome, time.Since(start).Seconds())
}
