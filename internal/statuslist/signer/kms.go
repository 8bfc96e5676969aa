// Package signer holds the ECDSA signing backends: AWS KMS for deployed
// environments and an in-process P-256 key for local runs and tests.
//
// Both return ASN.1 DER signatures and DER SubjectPublicKeyInfo public keys.
package signer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/kms/types"
)

// KMSAPI is the subset of *kms.Client the signer uses.
type KMSAPI interface {
	Sign(ctx context.Context, params *kms.SignInput, optFns ...func(*kms.Options)) (*kms.SignOutput, error)
	GetPublicKey(ctx context.Context, params *kms.GetPublicKeyInput, optFns ...func(*kms.Options)) (*kms.GetPublicKeyOutput, error)
}

// KMS signs with an asymmetric ECC_NIST_P256 key held in AWS KMS.
// The message is sent raw; KMS computes the SHA-256 digest.
type KMS struct {
	client KMSAPI
}

func NewKMS(client KMSAPI) *KMS {
	return &KMS{client: client}
}

func (k *KMS) Sign(ctx context.Context, message []byte, keyID string) ([]byte, error) {
	out, err := k.client.Sign(ctx, &kms.SignInput{
		KeyId:            aws.String(keyID),
		Message:          message,
		MessageType:      types.MessageTypeRaw,
		SigningAlgorithm: types.SigningAlgorithmSpecEcdsaSha256,
	})
	if err != nil {
		return nil, fmt.Errorf("kms sign: %w", err)
	}
	return out.Signature, nil
}

func (k *KMS) PublicKey(ctx context.Context, keyID string) ([]byte, error) {
	out, err := k.client.GetPublicKey(ctx, &kms.GetPublicKeyInput{KeyId: aws.String(keyID)})
	if err != nil {
		return nil, fmt.Errorf("kms get public key: %w", err)
	}
	if len(out.PublicKey) == 0 {
		return nil, fmt.Errorf("kms key %s returned no public key", keyID)
	}
	if out.KeySpec != "" && out.KeySpec != types.KeySpecEccNistP256 {
		return nil, fmt.Errorf("kms key %s has spec %s, want %s", keyID, out.KeySpec, types.KeySpecEccNistP256)
	}
	return out.PublicKey, nil
}
