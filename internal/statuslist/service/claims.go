package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strings"

	"statuslist/internal/statuslist/domain"
	"statuslist/internal/statuslist/token"
	dErrors "statuslist/pkg/domain-errors"
)

// RevocationClaims are the two payload claims revocation reads from an
// inbound token.
type RevocationClaims struct {
	URI string
	// Idx is kept as the raw JSON number so that integral checks happen at
	// lookup time rather than during parsing.
	Idx json.Number
}

// ParseRevocationClaims decodes the payload segment of a compact token and
// extracts uri and idx. The signature segment is not checked.
func ParseRevocationClaims(body string) (RevocationClaims, error) {
	body = strings.TrimSpace(body)
	if body == "" || body == "null" {
		return RevocationClaims{}, domain.ErrEmptyBody
	}

	_, payloadSeg, _, err := token.Split(body)
	if err != nil {
		return RevocationClaims{}, err
	}
	raw, err := token.DecodeSegment(payloadSeg)
	if err != nil {
		return RevocationClaims{}, dErrors.Wrap(err, dErrors.CodeMalformedToken, "token payload is not base64url")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return RevocationClaims{}, dErrors.Wrap(err, dErrors.CodeMalformedToken, "token payload is not JSON")
	}
	if dec.More() {
		return RevocationClaims{}, dErrors.New(dErrors.CodeMalformedToken, "token payload has trailing data")
	}
	obj, ok := payload.(map[string]any)
	if !ok {
		return RevocationClaims{}, domain.ErrInvalidPayloadShape
	}

	uri, ok := obj["uri"].(string)
	if !ok || uri == "" {
		return RevocationClaims{}, domain.ErrMissingURI
	}
	idx, ok := obj["idx"].(json.Number)
	if !ok {
		return RevocationClaims{}, domain.ErrMissingIndex
	}
	return RevocationClaims{URI: uri, Idx: idx}, nil
}

// Index converts idx to a registry index. A number that is not a whole value
// in int range can never name an entry and reports ErrNotFound.
func (c RevocationClaims) Index() (int, error) {
	if n, err := c.Idx.Int64(); err == nil {
		if n < math.MinInt || n > math.MaxInt {
			return 0, notFoundIndex(c.Idx)
		}
		return int(n), nil
	}
	f, err := c.Idx.Float64()
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) ||
		f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, notFoundIndex(c.Idx)
	}
	return int(f), nil
}

func notFoundIndex(idx json.Number) error {
	return dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("no revoked entry found for index %s", idx.String()))
}

// StorageKey maps a subject URI to its object key: the URI path without the
// leading slash. Issuance and revocation both use it, so a revocation
// overwrites exactly the object issuance wrote.
func StorageKey(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeMissingURI, "uri claim is not a valid URL")
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", dErrors.New(dErrors.CodeMissingURI, "uri claim has no object path")
	}
	return key, nil
}
