// Package signature turns raw signer output into the JOSE form tokens carry.
package signature

import (
	"fmt"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"

	"statuslist/internal/statuslist/token"
	dErrors "statuslist/pkg/domain-errors"
)

// componentSize is the fixed byte length of r and s for each ECDSA algorithm.
var componentSize = map[string]int{
	"ES256": 32,
	"ES384": 48,
	"ES512": 66,
}

// DERToJOSE converts an ASN.1 DER ECDSA signature, SEQUENCE { INTEGER r,
// INTEGER s }, into unpadded base64url of r || s, each left-padded with zeros
// to the curve size. For ES256 the result is always 86 characters.
func DERToJOSE(der []byte, alg string) (string, error) {
	raw, err := DERToRaw(der, alg)
	if err != nil {
		return "", err
	}
	return token.EncodeSegment(raw), nil
}

// DERToRaw is DERToJOSE without the final base64url step.
func DERToRaw(der []byte, alg string) ([]byte, error) {
	size, ok := componentSize[alg]
	if !ok {
		return nil, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unsupported signature algorithm %q", alg))
	}

	r, s, err := parseDER(der)
	if err != nil {
		return nil, err
	}
	if r.BitLen() > size*8 || s.BitLen() > size*8 {
		return nil, dErrors.New(dErrors.CodeSigningFailed, fmt.Sprintf("signature component exceeds %d bytes", size))
	}

	out := make([]byte, 2*size)
	r.FillBytes(out[:size])
	s.FillBytes(out[size:])
	return out, nil
}

func parseDER(der []byte) (*big.Int, *big.Int, error) {
	r, s := new(big.Int), new(big.Int)
	var inner cryptobyte.String
	input := cryptobyte.String(der)
	if !input.ReadASN1(&inner, asn1.SEQUENCE) ||
		!input.Empty() ||
		!inner.ReadASN1Integer(r) ||
		!inner.ReadASN1Integer(s) ||
		!inner.Empty() {
		return nil, nil, dErrors.New(dErrors.CodeSigningFailed, "signature is not a DER ECDSA sequence")
	}
	if r.Sign() <= 0 || s.Sign() <= 0 {
		return nil, nil, dErrors.New(dErrors.CodeSigningFailed, "signature components must be positive")
	}
	return r, s, nil
}
