package service

import (
	"context"
	"errors"
	"math/rand/v2"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/mock/gomock"

	"statuslist/internal/statuslist/domain"
	"statuslist/internal/statuslist/events"
	"statuslist/internal/statuslist/registry"
	"statuslist/internal/statuslist/token"
	dErrors "statuslist/pkg/domain-errors"
)

func (s *ServiceSuite) TestIssue() {
	s.Run("signs and stores a token for a registry entry", func() {
		var input, stored string
		var published events.Event
		gomock.InOrder(
			s.expectSign(&input),
			s.expectPut("t/"+testObjID, &stored),
		)
		s.mockEvents.EXPECT().Publish(gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, e events.Event) { published = e })

		result, err := s.service.Issue(s.ctx)
		s.Require().NoError(err)

		wantURI := testSelfURL + "/t/" + testObjID
		s.Equal(wantURI, result.URI)
		s.Equal(input+"."+testSig, stored)

		h, p, err := token.Decode(stored)
		s.Require().NoError(err)
		s.Equal(token.Header{Alg: "ES256", Kid: testKeyID, Typ: "statuslist+jwt"}, h)

		list, err := s.registry.Lookup(result.Index, registry.KindValid)
		s.Require().NoError(err)
		s.Equal(token.Payload{
			IssuedAt:   t0.Unix(),
			ExpiresAt:  t0.Unix() + token.TTL,
			Issuer:     testSelfURL,
			StatusList: list,
			Subject:    wantURI,
			TTL:        token.TTL,
		}, p)

		s.Equal(events.TypeIssued, published.Type)
		s.Equal(result.Index, published.Index)
		s.Equal(wantURI, published.URI)
		s.Equal(t0.UnixMilli(), published.OccurredAt)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.TokensIssued))
	})
}

func (s *ServiceSuite) TestIssue_SingleEntryRegistry() {
	reg, err := registry.New(registry.Entry{
		Index:   0,
		Valid:   registry.StatusList{Bits: 2, Encoded: "eNpzcAEAAMYAhQ"},
		Revoked: registry.StatusList{Bits: 2, Encoded: "eNpzdAEAAMgAhg"},
	})
	s.Require().NoError(err)
	svc, err := New(reg, s.mockSigner, s.mockStore,
		Config{KeyID: testKeyID, Bucket: testBucket, SelfURL: testSelfURL},
		WithIDGenerator(func() string { return "abc" }),
		WithRandom(rand.New(rand.NewPCG(1, 2))),
	)
	s.Require().NoError(err)

	var stored string
	s.expectSign(nil)
	s.expectPut("t/abc", &stored)

	result, err := svc.Issue(s.ctx)
	s.Require().NoError(err)
	s.Equal(&IssueResult{Index: 0, URI: testSelfURL + "/t/abc"}, result)

	_, p, err := token.Decode(stored)
	s.Require().NoError(err)
	s.Equal(registry.StatusList{Bits: 2, Encoded: "eNpzcAEAAMYAhQ"}, p.StatusList)
	s.Equal(p.TTL, p.ExpiresAt-p.IssuedAt)
}

func (s *ServiceSuite) TestIssue_SigningFailureStoresNothing() {
	boom := errors.New("kms throttled")
	s.mockSigner.EXPECT().SignJOSE(gomock.Any(), gomock.Any(), testKeyID).
		Return("", &dErrors.Error{Code: dErrors.CodeSigningFailed, Message: "signing failed", Err: boom}).Times(1)

	result, err := s.service.Issue(s.ctx)
	s.Nil(result)
	s.ErrorIs(err, domain.ErrSigning)
	s.ErrorIs(err, boom)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.SigningFailures))
	s.Equal(0.0, testutil.ToFloat64(s.metrics.TokensIssued))
}

func (s *ServiceSuite) TestIssue_PlainSignerErrorBecomesSigningError() {
	s.mockSigner.EXPECT().SignJOSE(gomock.Any(), gomock.Any(), testKeyID).
		Return("", errors.New("connection reset"))

	_, err := s.service.Issue(s.ctx)
	s.ErrorIs(err, domain.ErrSigning)
}

func (s *ServiceSuite) TestIssue_StorageFailure() {
	boom := errors.New("bucket missing")
	s.expectSign(nil).Times(1)
	s.mockStore.EXPECT().Put(gomock.Any(), testBucket, "t/"+testObjID, gomock.Any(), gomock.Any()).
		Return(boom)

	result, err := s.service.Issue(s.ctx)
	s.Nil(result)
	s.ErrorIs(err, domain.ErrStorage)
	s.ErrorIs(err, boom)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.StorageFailures))
}

func (s *ServiceSuite) TestNew_Validation() {
	cfg := Config{KeyID: testKeyID, Bucket: testBucket, SelfURL: testSelfURL}

	_, err := New(nil, s.mockSigner, s.mockStore, cfg)
	s.ErrorIs(err, domain.ErrConfiguration)

	_, err = New(s.registry, s.mockSigner, s.mockStore, Config{KeyID: testKeyID, Bucket: testBucket})
	s.ErrorIs(err, domain.ErrConfiguration)
}
