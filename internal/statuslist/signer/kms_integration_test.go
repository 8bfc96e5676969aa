//go:build integration

package signer_test

import (
	"context"
	"crypto/ecdsa"
	"crypto/sha256"
	"crypto/x509"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/kms/types"
	"github.com/stretchr/testify/suite"

	"statuslist/internal/platform/awsclient"
	"statuslist/internal/platform/config"
	"statuslist/internal/statuslist/signature"
	"statuslist/internal/statuslist/signer"
	"statuslist/internal/statuslist/token"
	"statuslist/pkg/testutil/containers"
)

type KMSSuite struct {
	suite.Suite
	signer *signer.KMS
	keyID  string
	pub    *ecdsa.PublicKey
}

func TestKMSSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KMSSuite))
}

func (s *KMSSuite) SetupSuite() {
	ctx := context.Background()
	ls := containers.GetManager().GetLocalStack(s.T())

	awsCfg := config.AWSConfig{IsLocal: true, Endpoint: ls.Endpoint, Region: containers.LocalStackRegion}
	loaded, err := awsclient.Load(ctx, awsCfg)
	s.Require().NoError(err)
	client := awsclient.New(loaded, awsCfg).KMS

	created, err := client.CreateKey(ctx, &kms.CreateKeyInput{
		KeySpec:  types.KeySpecEccNistP256,
		KeyUsage: types.KeyUsageTypeSignVerify,
	})
	s.Require().NoError(err)
	s.keyID = aws.ToString(created.KeyMetadata.KeyId)
	s.signer = signer.NewKMS(client)

	der, err := s.signer.PublicKey(ctx, s.keyID)
	s.Require().NoError(err)
	parsed, err := x509.ParsePKIXPublicKey(der)
	s.Require().NoError(err)
	var ok bool
	s.pub, ok = parsed.(*ecdsa.PublicKey)
	s.Require().True(ok)
}

func (s *KMSSuite) TestSignReturnsVerifiableDER() {
	msg := []byte("header.payload")
	sig, err := s.signer.Sign(context.Background(), msg, s.keyID)
	s.Require().NoError(err)

	digest := sha256.Sum256(msg)
	s.True(ecdsa.VerifyASN1(s.pub, digest[:], sig))
}

func (s *KMSSuite) TestAdapterProducesVerifiableJOSE() {
	adapter := signature.NewAdapter(s.signer)
	input := "eyJhbGciOiJFUzI1NiJ9.eyJzdWIiOiJ4In0"

	sig, err := adapter.SignJOSE(context.Background(), input, s.keyID)
	s.Require().NoError(err)
	s.Len(sig, 86)
	s.NoError(token.Verify(token.Assemble(input, sig), s.pub))
}

func (s *KMSSuite) TestUnknownKey() {
	_, err := s.signer.Sign(context.Background(), []byte("x"), "alias/does-not-exist")
	s.Error(err)

	_, err = s.signer.PublicKey(context.Background(), "alias/does-not-exist")
	s.Error(err)
}
