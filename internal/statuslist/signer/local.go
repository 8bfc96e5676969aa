package signer

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
)

// Local signs with an in-memory P-256 key. The key ID is ignored.
type Local struct {
	key *ecdsa.PrivateKey
}

// NewLocal generates a fresh key.
func NewLocal() (*Local, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate local signing key: %w", err)
	}
	return &Local{key: key}, nil
}

// LoadLocal reads a P-256 private key from a PEM file holding either an
// "EC PRIVATE KEY" (SEC 1) or a "PRIVATE KEY" (PKCS #8) block.
func LoadLocal(path string) (*Local, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read signing key file: %w", err)
	}
	return ParseLocalPEM(data)
}

func ParseLocalPEM(data []byte) (*Local, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("signing key file has no PEM block")
	}

	var key *ecdsa.PrivateKey
	switch block.Type {
	case "EC PRIVATE KEY":
		k, err := x509.ParseECPrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parse EC private key: %w", err)
		}
		key = k
	case "PRIVATE KEY":
		k, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parse PKCS8 private key: %w", err)
		}
		ec, ok := k.(*ecdsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("signing key is %T, want ECDSA", k)
		}
		key = ec
	default:
		return nil, fmt.Errorf("unsupported PEM block %q", block.Type)
	}
	if key.Curve != elliptic.P256() {
		return nil, fmt.Errorf("signing key curve is %s, want P-256", key.Curve.Params().Name)
	}
	return &Local{key: key}, nil
}

func NewLocalFromKey(key *ecdsa.PrivateKey) *Local {
	return &Local{key: key}
}

func (l *Local) Sign(_ context.Context, message []byte, _ string) ([]byte, error) {
	digest := sha256.Sum256(message)
	return ecdsa.SignASN1(rand.Reader, l.key, digest[:])
}

func (l *Local) PublicKey(_ context.Context, _ string) ([]byte, error) {
	return x509.MarshalPKIXPublicKey(&l.key.PublicKey)
}

// ECDSAPublicKey is the verifying key, for tests and token consumers.
func (l *Local) ECDSAPublicKey() *ecdsa.PublicKey {
	return &l.key.PublicKey
}
