// Package token builds and decodes compact status list tokens.
//
// A token is three dot-joined segments: base64url(header JSON),
// base64url(payload JSON) and a JOSE-encoded ECDSA signature over the first
// two. Encoding never pads; decoding accepts padded and unpadded segments.
package token

import (
	"crypto/ecdsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"statuslist/internal/statuslist/registry"
	dErrors "statuslist/pkg/domain-errors"
)

const (
	// Algorithm must match the signer's key type: EC P-256 with SHA-256.
	Algorithm = "ES256"
	Type      = "statuslist+jwt"
	// TTL is the token lifetime in seconds.
	TTL int64 = 3600
)

// Header is the JOSE header. Field order is the serialization order.
type Header struct {
	Alg string `json:"alg"`
	Kid string `json:"kid"`
	Typ string `json:"typ"`
}

// Payload is the status list token claim set. Field order is the
// serialization order, which keeps the signing input reproducible.
type Payload struct {
	IssuedAt   int64               `json:"iat"`
	ExpiresAt  int64               `json:"exp"`
	Issuer     string              `json:"iss"`
	StatusList registry.StatusList `json:"status_list"`
	Subject    string              `json:"sub"`
	TTL        int64               `json:"ttl"`
}

// GetExpirationTime implements jwt.Claims.
func (p Payload) GetExpirationTime() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(p.ExpiresAt, 0)), nil
}

// GetIssuedAt implements jwt.Claims.
func (p Payload) GetIssuedAt() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(p.IssuedAt, 0)), nil
}

// GetNotBefore implements jwt.Claims.
func (p Payload) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }

// GetIssuer implements jwt.Claims.
func (p Payload) GetIssuer() (string, error) { return p.Issuer, nil }

// GetSubject implements jwt.Claims.
func (p Payload) GetSubject() (string, error) { return p.Subject, nil }

// GetAudience implements jwt.Claims.
func (p Payload) GetAudience() (jwt.ClaimStrings, error) { return nil, nil }

var _ jwt.Claims = Payload{}

// BuildHeader returns the fixed ES256 status list header for keyID.
func BuildHeader(keyID string) Header {
	return Header{Alg: Algorithm, Kid: keyID, Typ: Type}
}

// BuildPayload stamps iat from now (epoch seconds) and derives exp from it,
// so exp - iat == ttl holds exactly.
func BuildPayload(issuer string, list registry.StatusList, subject string, now int64) Payload {
	return Payload{
		IssuedAt:   now,
		ExpiresAt:  now + TTL,
		Issuer:     issuer,
		StatusList: list,
		Subject:    subject,
		TTL:        TTL,
	}
}

// SigningInput returns base64url(header) + "." + base64url(payload).
func SigningInput(h Header, p Payload) (string, error) {
	method := jwt.GetSigningMethod(h.Alg)
	if method == nil {
		return "", dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unsupported token algorithm %q", h.Alg))
	}
	t := jwt.NewWithClaims(method, p)
	t.Header = map[string]any{
		"alg": h.Alg,
		"kid": h.Kid,
		"typ": h.Typ,
	}
	input, err := t.SigningString()
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "encode token signing input")
	}
	return input, nil
}

// Assemble appends the JOSE signature to the signing input.
func Assemble(signingInput, joseSignature string) string {
	return signingInput + "." + joseSignature
}

// EncodeSegment is unpadded base64url.
func EncodeSegment(seg []byte) string {
	return base64.RawURLEncoding.EncodeToString(seg)
}

var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// DecodeSegment decodes base64url with or without trailing padding.
func DecodeSegment(seg string) ([]byte, error) {
	return segmentParser.DecodeSegment(seg)
}

// Split separates a compact token into its three segments.
func Split(signed string) (header, payload, signature string, err error) {
	parts := strings.Split(signed, ".")
	if len(parts) != 3 {
		return "", "", "", dErrors.New(dErrors.CodeMalformedToken, fmt.Sprintf("token has %d segments, want 3", len(parts)))
	}
	return parts[0], parts[1], parts[2], nil
}

// Decode returns the header and payload of a compact token without checking
// its signature.
func Decode(signed string) (Header, Payload, error) {
	hSeg, pSeg, _, err := Split(signed)
	if err != nil {
		return Header{}, Payload{}, err
	}

	var h Header
	if err := decodeJSONSegment(hSeg, &h); err != nil {
		return Header{}, Payload{}, dErrors.Wrap(err, dErrors.CodeMalformedToken, "decode token header")
	}
	var p Payload
	if err := decodeJSONSegment(pSeg, &p); err != nil {
		return Header{}, Payload{}, dErrors.Wrap(err, dErrors.CodeMalformedToken, "decode token payload")
	}
	return h, p, nil
}

// Verify checks the ES256 signature of a compact token against pub.
// Revocation does not call it.
func Verify(signed string, pub *ecdsa.PublicKey) error {
	if _, _, _, err := Split(signed); err != nil {
		return err
	}
	i := strings.LastIndex(signed, ".")
	sig, err := DecodeSegment(signed[i+1:])
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeMalformedToken, "decode token signature")
	}
	if err := jwt.SigningMethodES256.Verify(signed[:i], sig, pub); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "token signature invalid")
	}
	return nil
}

func decodeJSONSegment(seg string, out any) error {
	raw, err := DecodeSegment(seg)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
