package testutil

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"statuslist/internal/statuslist/token"
)

const (
	TestSelfURL = "https://status.example.com"
	TestKeyID   = "alias/status-list-test"
	TestBucket  = "status-lists"
)

// junkSignature fills the third segment of inbound tokens. Revocation never
// checks it.
var junkSignature = token.EncodeSegment([]byte("not-checked"))

var inboundHeader = token.EncodeSegment([]byte(`{"alg":"ES256","typ":"JWT"}`))

// TestURI returns a fresh subject URI under TestSelfURL.
func TestURI() string {
	return fmt.Sprintf("%s/t/%s", TestSelfURL, uuid.NewString())
}

// RevocationTokenBuilder builds the compact tokens clients send to /revoke.
type RevocationTokenBuilder struct {
	claims map[string]any
}

// NewRevocationToken starts with a fresh uri and idx 0.
func NewRevocationToken() *RevocationTokenBuilder {
	return &RevocationTokenBuilder{
		claims: map[string]any{
			"uri": TestURI(),
			"idx": 0,
		},
	}
}

func (b *RevocationTokenBuilder) WithURI(uri string) *RevocationTokenBuilder {
	b.claims["uri"] = uri
	return b
}

// WithIndex accepts any JSON value so tests can send 5.0, "5" or null.
func (b *RevocationTokenBuilder) WithIndex(idx any) *RevocationTokenBuilder {
	b.claims["idx"] = idx
	return b
}

func (b *RevocationTokenBuilder) WithClaim(name string, value any) *RevocationTokenBuilder {
	b.claims[name] = value
	return b
}

func (b *RevocationTokenBuilder) Without(name string) *RevocationTokenBuilder {
	delete(b.claims, name)
	return b
}

func (b *RevocationTokenBuilder) Build() string {
	raw, err := json.Marshal(b.claims)
	if err != nil {
		panic(err)
	}
	return RawRevocationToken(string(raw))
}

// RawRevocationToken wraps payload verbatim, for shapes a map cannot express.
func RawRevocationToken(payload string) string {
	return inboundHeader + "." + token.EncodeSegment([]byte(payload)) + "." + junkSignature
}
