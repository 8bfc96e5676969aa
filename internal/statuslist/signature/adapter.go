package signature

import (
	"context"
	"log/slog"

	"statuslist/internal/statuslist/domain"
	"statuslist/internal/statuslist/token"
	dErrors "statuslist/pkg/domain-errors"
)

// Signer produces a DER ECDSA signature over message with the named key.
// The signer hashes the message itself.
type Signer interface {
	Sign(ctx context.Context, message []byte, keyID string) ([]byte, error)
}

// Adapter makes exactly one signer call per request and normalizes its output.
// There is no retry and no timeout beyond what ctx carries.
type Adapter struct {
	signer Signer
	logger *slog.Logger
}

type AdapterOption func(*Adapter)

func WithAdapterLogger(logger *slog.Logger) AdapterOption {
	return func(a *Adapter) { a.logger = logger }
}

func NewAdapter(signer Signer, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		signer: signer,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Sign returns the raw DER signature. Signer failures and empty results are
// reported as signing errors.
func (a *Adapter) Sign(ctx context.Context, message []byte, keyID string) ([]byte, error) {
	der, err := a.signer.Sign(ctx, message, keyID)
	if err != nil {
		a.logger.ErrorContext(ctx, "SIGNING_FAILED", "key_id", keyID, "error", err)
		return nil, dErrors.WrapAs(err, dErrors.CodeSigningFailed, domain.ErrSigning.Error())
	}
	if len(der) == 0 {
		a.logger.ErrorContext(ctx, "SIGNING_EMPTY", "key_id", keyID)
		return nil, dErrors.New(dErrors.CodeSigningFailed, "signer returned an empty signature")
	}
	return der, nil
}

// SignJOSE signs the token signing input and returns the JOSE signature
// segment for token.Algorithm, the algorithm every token header declares.
func (a *Adapter) SignJOSE(ctx context.Context, signingInput, keyID string) (string, error) {
	der, err := a.Sign(ctx, []byte(signingInput), keyID)
	if err != nil {
		return "", err
	}
	sig, err := DERToJOSE(der, token.Algorithm)
	if err != nil {
		a.logger.ErrorContext(ctx, "SIGNATURE_CONVERSION_FAILED", "key_id", keyID, "error", err)
		return "", err
	}
	return sig, nil
}
