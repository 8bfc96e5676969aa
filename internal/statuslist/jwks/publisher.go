// Package jwks publishes the signing key's public half as a JSON Web Key Set
// so token consumers can verify status list tokens.
package jwks

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/x509"
	"encoding/json"
	"log/slog"

	"github.com/go-jose/go-jose/v4"

	"statuslist/internal/platform/tracer"
	"statuslist/internal/statuslist/metrics"
	dErrors "statuslist/pkg/domain-errors"
	"statuslist/pkg/platform/middleware/request"
)

const (
	// ObjectKey is where the key set is written in the JWKS bucket.
	ObjectKey   = ".well-known/jwks.json"
	ContentType = "application/json"
)

// KeySource returns the DER SubjectPublicKeyInfo for keyID.
type KeySource interface {
	PublicKey(ctx context.Context, keyID string) ([]byte, error)
}

type ObjectStore interface {
	Put(ctx context.Context, container, key string, body []byte, contentType string) error
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Publisher) { p.metrics = m }
}

func WithTracer(t tracer.Tracer) Option {
	return func(p *Publisher) { p.tracer = t }
}

type Publisher struct {
	keys   KeySource
	store  ObjectStore
	keyID  string
	bucket string

	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  tracer.Tracer
}

func NewPublisher(keys KeySource, store ObjectStore, keyID, bucket string, opts ...Option) *Publisher {
	p := &Publisher{
		keys:   keys,
		store:  store,
		keyID:  keyID,
		bucket: bucket,
		logger: slog.Default(),
		tracer: tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish fetches the public key, renders it as a one-key JWKS and writes it
// to ObjectKey, replacing any previous document.
//
// Errors: CodeSigningFailed when the key cannot be fetched or is not EC
// P-256; CodeStorageFailed when the write fails.
func (p *Publisher) Publish(ctx context.Context) (set *jose.JSONWebKeySet, err error) {
	ctx, span := p.tracer.Start(ctx, tracer.SpanPublishJWKS, tracer.String(tracer.AttrKeyID, p.keyID))
	defer func() { span.End(err) }()

	p.logger.InfoContext(ctx, "publishing jwks",
		"message_code", "JWKS_STARTED",
		"key_id", p.keyID,
		"request_id", request.RequestIDFromContext(ctx),
	)

	der, err := p.keys.PublicKey(ctx, p.keyID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeSigningFailed, "failed to fetch signing public key")
	}
	set, err = KeySet(der, p.keyID)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(set)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode jwks")
	}
	if err := p.store.Put(ctx, p.bucket, ObjectKey, body, ContentType); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStorageFailed, "failed to store jwks")
	}

	if p.metrics != nil {
		p.metrics.IncrementJWKSPublished()
	}
	p.logger.InfoContext(ctx, "jwks published",
		"message_code", "JWKS_COMPLETED",
		"bucket", p.bucket,
		"key", ObjectKey,
		"request_id", request.RequestIDFromContext(ctx),
	)
	return set, nil
}

// KeySet parses a DER public key and wraps it in a JWKS with kid, alg ES256
// and use "sig".
func KeySet(der []byte, keyID string) (*jose.JSONWebKeySet, error) {
	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeSigningFailed, "signing public key is not valid DER")
	}
	ec, ok := pub.(*ecdsa.PublicKey)
	if !ok || ec.Curve != elliptic.P256() {
		return nil, dErrors.New(dErrors.CodeSigningFailed, "signing public key is not an EC P-256 key")
	}
	return &jose.JSONWebKeySet{
		Keys: []jose.JSONWebKey{{
			Key:       ec,
			KeyID:     keyID,
			Algorithm: string(jose.ES256),
			Use:       "sig",
		}},
	}, nil
}
