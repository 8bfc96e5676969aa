package service

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/mock/gomock"

	"statuslist/internal/statuslist/domain"
	"statuslist/internal/statuslist/events"
	"statuslist/internal/statuslist/registry"
	"statuslist/internal/statuslist/token"
)

func (s *ServiceSuite) TestRevoke() {
	s.Run("overwrites the object with the revoked list", func() {
		var stored string
		var published events.Event
		s.expectSign(nil)
		s.expectPut("t/abc", &stored)
		s.mockEvents.EXPECT().Publish(gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, e events.Event) { published = e })

		body := inboundToken(map[string]any{"uri": "https://ex.com/t/abc", "idx": 0})
		result, err := s.service.Revoke(s.ctx, body)
		s.Require().NoError(err)
		s.Equal(&RevokeResult{Message: "Request processed for revocation", RevokedAt: t0.UnixMilli()}, result)

		_, p, err := token.Decode(stored)
		s.Require().NoError(err)
		revoked, err := s.registry.Lookup(0, registry.KindRevoked)
		s.Require().NoError(err)
		s.Equal(revoked, p.StatusList)
		s.Equal("https://ex.com/t/abc", p.Subject)
		s.Equal(testSelfURL, p.Issuer)
		s.Equal(t0.Unix(), p.IssuedAt)
		s.Equal(t0.Unix()+token.TTL, p.ExpiresAt)

		s.Equal(events.TypeRevoked, published.Type)
		s.Equal(0, published.Index)
		s.Equal(t0.UnixMilli(), published.OccurredAt)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.TokensRevoked))
	})

	s.Run("accepts an integral float index", func() {
		var stored string
		s.expectSign(nil)
		s.expectPut("t/xyz", &stored)
		s.mockEvents.EXPECT().Publish(gomock.Any(), gomock.Any())

		_, err := s.service.Revoke(s.ctx, inboundRawPayload(`{"uri":"https://ex.com/t/xyz","idx":5.0}`))
		s.Require().NoError(err)

		_, p, err := token.Decode(stored)
		s.Require().NoError(err)
		s.Equal(registry.StatusList{Bits: 2, Encoded: "eNqTSwcAAKUAhg"}, p.StatusList)
	})

	s.Run("ignores extra claims and a bad signature", func() {
		s.expectSign(nil)
		s.expectPut("lists/t/abc", nil)
		s.mockEvents.EXPECT().Publish(gomock.Any(), gomock.Any())

		body := inboundToken(map[string]any{
			"uri":    "https://ex.com/lists/t/abc?x=1",
			"idx":    5,
			"status": map[string]any{"nested": true},
		})
		_, err := s.service.Revoke(s.ctx, body)
		s.NoError(err)
	})
}

func (s *ServiceSuite) TestRevoke_IsIdempotent() {
	var first, second string
	s.expectSign(nil).Times(2)
	gomock.InOrder(
		s.expectPut("t/abc", &first),
		s.expectPut("t/abc", &second),
	)
	s.mockEvents.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(2)

	body := inboundToken(map[string]any{"uri": "https://ex.com/t/abc", "idx": 0})
	_, err := s.service.Revoke(s.ctx, body)
	s.Require().NoError(err)
	_, err = s.service.Revoke(s.ctx, body)
	s.Require().NoError(err)

	s.Equal(first, second)
}

// No mock expectations are set: any signer, store or event call fails the test.
func (s *ServiceSuite) TestRevoke_RejectsBeforeSideEffects() {
	cases := []struct {
		name string
		body string
		want error
	}{
		{"empty body", "", domain.ErrEmptyBody},
		{"whitespace body", "  \n", domain.ErrEmptyBody},
		{"null literal", "null", domain.ErrEmptyBody},
		{"single segment", "abc", domain.ErrMalformedToken},
		{"missing signature segment", "aGVhZGVy.cGF5bG9hZA", domain.ErrMalformedToken},
		{"too many segments", "a.b.c.d", domain.ErrMalformedToken},
		{"payload not base64url", "a.!!!.c", domain.ErrMalformedToken},
		{"payload not json", inboundRawPayload(`{uri:`), domain.ErrMalformedToken},
		{"payload trailing data", inboundRawPayload(`{"uri":"https://ex.com/t/abc","idx":0} {}`), domain.ErrMalformedToken},
		{"payload is array", inboundRawPayload(`[1,2]`), domain.ErrInvalidPayloadShape},
		{"payload is string", inboundRawPayload(`"uri"`), domain.ErrInvalidPayloadShape},
		{"payload is null", inboundRawPayload(`null`), domain.ErrInvalidPayloadShape},
		{"uri missing", inboundToken(map[string]any{"idx": 0}), domain.ErrMissingURI},
		{"uri empty", inboundToken(map[string]any{"uri": "", "idx": 0}), domain.ErrMissingURI},
		{"uri not string", inboundToken(map[string]any{"uri": 42, "idx": 0}), domain.ErrMissingURI},
		{"uri without path", inboundToken(map[string]any{"uri": "https://ex.com", "idx": 0}), domain.ErrMissingURI},
		{"uri unparsable", inboundToken(map[string]any{"uri": "https://ex.com/%zz", "idx": 0}), domain.ErrMissingURI},
		{"idx missing", inboundToken(map[string]any{"uri": "https://ex.com/t/abc"}), domain.ErrMissingIndex},
		{"idx string", inboundToken(map[string]any{"uri": "https://ex.com/t/abc", "idx": "0"}), domain.ErrMissingIndex},
		{"idx bool", inboundToken(map[string]any{"uri": "https://ex.com/t/abc", "idx": true}), domain.ErrMissingIndex},
		{"idx null", inboundRawPayload(`{"uri":"https://ex.com/t/abc","idx":null}`), domain.ErrMissingIndex},
		{"idx unknown", inboundToken(map[string]any{"uri": "https://ex.com/t/abc", "idx": 7}), domain.ErrNotFound},
		{"idx negative", inboundToken(map[string]any{"uri": "https://ex.com/t/abc", "idx": -1}), domain.ErrNotFound},
		{"idx fractional", inboundRawPayload(`{"uri":"https://ex.com/t/abc","idx":0.5}`), domain.ErrNotFound},
		{"idx exponent", inboundRawPayload(`{"uri":"https://ex.com/t/abc","idx":1e2}`), domain.ErrNotFound},
		{"idx huge", inboundRawPayload(`{"uri":"https://ex.com/t/abc","idx":1e300}`), domain.ErrNotFound},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			result, err := s.service.Revoke(s.ctx, tc.body)
			s.Nil(result)
			s.Require().Error(err)
			s.ErrorIs(err, tc.want)
		})
	}
	s.Equal(float64(len(cases)), testutil.ToFloat64(s.metrics.RevokeRejected.WithLabelValues("empty_body"))+
		testutil.ToFloat64(s.metrics.RevokeRejected.WithLabelValues("malformed_token"))+
		testutil.ToFloat64(s.metrics.RevokeRejected.WithLabelValues("invalid_payload_shape"))+
		testutil.ToFloat64(s.metrics.RevokeRejected.WithLabelValues("missing_uri"))+
		testutil.ToFloat64(s.metrics.RevokeRejected.WithLabelValues("missing_index"))+
		testutil.ToFloat64(s.metrics.RevokeRejected.WithLabelValues("not_found")))
}

func (s *ServiceSuite) TestRevoke_SigningFailureStoresNothing() {
	s.mockSigner.EXPECT().SignJOSE(gomock.Any(), gomock.Any(), testKeyID).Return("", errors.New("kms down"))

	_, err := s.service.Revoke(s.ctx, inboundToken(map[string]any{"uri": "https://ex.com/t/abc", "idx": 0}))
	s.ErrorIs(err, domain.ErrSigning)
}

func (s *ServiceSuite) TestRevoke_StorageFailureAfterSigning() {
	boom := errors.New("write refused")
	s.expectSign(nil).Times(1)
	s.mockStore.EXPECT().Put(gomock.Any(), testBucket, "t/abc", gomock.Any(), gomock.Any()).Return(boom).Times(1)

	result, err := s.service.Revoke(s.ctx, inboundToken(map[string]any{"uri": "https://ex.com/t/abc", "idx": 0}))
	s.Nil(result)
	s.ErrorIs(err, domain.ErrStorage)
	s.ErrorIs(err, boom)
	s.Equal(0.0, testutil.ToFloat64(s.metrics.TokensRevoked))
}
