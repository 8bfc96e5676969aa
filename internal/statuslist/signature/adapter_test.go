package signature

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statuslist/internal/statuslist/domain"
	"statuslist/internal/statuslist/token"
)

type signerFunc func(ctx context.Context, message []byte, keyID string) ([]byte, error)

func (f signerFunc) Sign(ctx context.Context, message []byte, keyID string) ([]byte, error) {
	return f(ctx, message, keyID)
}

func TestAdapter_SignJOSE(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	calls := 0
	a := NewAdapter(signerFunc(func(_ context.Context, message []byte, keyID string) ([]byte, error) {
		calls++
		assert.Equal(t, "k1", keyID)
		digest := sha256.Sum256(message)
		return ecdsa.SignASN1(rand.Reader, key, digest[:])
	}))

	input := "aGVhZGVy.cGF5bG9hZA"
	sig, err := a.SignJOSE(context.Background(), input, "k1")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	raw, err := token.DecodeSegment(sig)
	require.NoError(t, err)
	assert.NoError(t, jwt.SigningMethodES256.Verify(input, raw, &key.PublicKey))
}

func TestAdapter_SignerErrorIsNotRetried(t *testing.T) {
	calls := 0
	boom := errors.New("kms unavailable")
	a := NewAdapter(signerFunc(func(context.Context, []byte, string) ([]byte, error) {
		calls++
		return nil, boom
	}))

	_, err := a.SignJOSE(context.Background(), "a.b", "k1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSigning)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestAdapter_EmptySignature(t *testing.T) {
	a := NewAdapter(signerFunc(func(context.Context, []byte, string) ([]byte, error) {
		return []byte{}, nil
	}))

	_, err := a.Sign(context.Background(), []byte("a.b"), "k1")
	assert.ErrorIs(t, err, domain.ErrSigning)
}

func TestAdapter_MalformedDER(t *testing.T) {
	a := NewAdapter(signerFunc(func(context.Context, []byte, string) ([]byte, error) {
		return []byte("not der"), nil
	}))

	_, err := a.SignJOSE(context.Background(), "a.b", "k1")
	assert.ErrorIs(t, err, domain.ErrSigning)
}

// Tokens always declare ES256, so a signature from a wider curve is refused
// rather than emitted at its own size.
func TestAdapter_SignJOSE_RejectsNonES256Signature(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	require.NoError(t, err)
	a := NewAdapter(signerFunc(func(_ context.Context, message []byte, _ string) ([]byte, error) {
		digest := sha256.Sum256(message)
		for {
			der, err := ecdsa.SignASN1(rand.Reader, key, digest[:])
			if err != nil {
				return nil, err
			}
			r, s, err := parseDER(der)
			if err != nil {
				return nil, err
			}
			if r.BitLen() > 256 || s.BitLen() > 256 {
				return der, nil
			}
		}
	}))

	_, err = a.SignJOSE(context.Background(), "a.b", "k1")
	assert.ErrorIs(t, err, domain.ErrSigning)
}
