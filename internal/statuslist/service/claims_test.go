package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statuslist/internal/statuslist/domain"
)

func TestStorageKey(t *testing.T) {
	cases := map[string]string{
		"https://ex.com/t/abc":          "t/abc",
		"https://ex.com/t/abc?q=1#frag": "t/abc",
		"https://ex.com/base/t/abc":     "base/t/abc",
		"t/abc":                         "t/abc",
		"/t/abc":                        "t/abc",
	}
	for uri, want := range cases {
		got, err := StorageKey(uri)
		require.NoError(t, err, uri)
		assert.Equal(t, want, got, uri)
	}

	for _, uri := range []string{"https://ex.com", "https://ex.com/", "%zz"} {
		_, err := StorageKey(uri)
		assert.ErrorIs(t, err, domain.ErrMissingURI, uri)
	}
}

func TestParseRevocationClaims_PaddedPayload(t *testing.T) {
	body := "eyJhbGciOiJFUzI1NiJ9." +
		"eyJ1cmkiOiJodHRwczovL2V4LmNvbS90L2FiYyIsImlkeCI6MH0=" +
		".sig"
	claims, err := ParseRevocationClaims(body)
	require.NoError(t, err)
	assert.Equal(t, "https://ex.com/t/abc", claims.URI)
	assert.Equal(t, json.Number("0"), claims.Idx)
}

func TestRevocationClaims_Index(t *testing.T) {
	cases := []struct {
		idx  json.Number
		want int
		ok   bool
	}{
		{"0", 0, true},
		{"5", 5, true},
		{"5.0", 5, true},
		{"-0", 0, true},
		{"2.5", 0, false},
		{"1e400", 0, false},
		{"99999999999999999999", 0, false},
	}
	for _, tc := range cases {
		got, err := RevocationClaims{Idx: tc.idx}.Index()
		if !tc.ok {
			assert.ErrorIs(t, err, domain.ErrNotFound, tc.idx)
			continue
		}
		require.NoError(t, err, tc.idx)
		assert.Equal(t, tc.want, got, tc.idx)
	}
}
