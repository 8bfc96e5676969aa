//go:build integration

package producer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"statuslist/internal/platform/kafka"
	"statuslist/internal/platform/kafka/producer"
	"statuslist/pkg/testutil/containers"
)

type ProducerIntegrationSuite struct {
	suite.Suite
	kafka    *containers.KafkaContainer
	producer *producer.Producer
}

func TestProducerIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ProducerIntegrationSuite))
}

func (s *ProducerIntegrationSuite) SetupSuite() {
	s.kafka = containers.GetManager().GetKafka(s.T())

	cfg := kafka.DefaultProducerConfig(s.kafka.Brokers)
	cfg.DeliveryTimeout = 10 * time.Second
	prod, err := producer.New(cfg, nil)
	s.Require().NoError(err)
	s.producer = prod
}

func (s *ProducerIntegrationSuite) TearDownSuite() {
	if s.producer != nil {
		s.producer.Close(5 * time.Second)
	}
}

func (s *ProducerIntegrationSuite) TestProduceDeliversWithHeaders() {
	ctx := context.Background()
	topic := "status-events-sync"
	s.Require().NoError(s.kafka.CreateTopic(ctx, topic, 1, 1))

	err := s.producer.Produce(ctx, &producer.Message{
		Topic:   topic,
		Key:     []byte("t/abc"),
		Value:   []byte(`{"type":"status_list.issued"}`),
		Headers: map[string]string{"event_type": "status_list.issued"},
	})
	s.Require().NoError(err)

	consumer, err := s.kafka.NewConsumer(topic)
	s.Require().NoError(err)
	defer consumer.Close()

	record := s.kafka.WaitForMessage(ctx, consumer, 5*time.Second, func(r *kgo.Record) bool {
		return string(r.Key) == "t/abc"
	})
	s.Require().NotNil(record)
	s.Equal(`{"type":"status_list.issued"}`, string(record.Value))
	s.Require().Len(record.Headers, 1)
	s.Equal("event_type", record.Headers[0].Key)
	s.Equal("status_list.issued", string(record.Headers[0].Value))
}

func (s *ProducerIntegrationSuite) TestProduceAsyncAutoCreatesTopic() {
	ctx := context.Background()
	topic := "status-events-async-" + time.Now().Format("20060102150405")

	s.Require().NoError(s.producer.ProduceAsync(&producer.Message{
		Topic: topic,
		Key:   []byte("t/async"),
		Value: []byte("{}"),
	}))

	consumer, err := s.kafka.NewConsumer(topic)
	s.Require().NoError(err)
	defer consumer.Close()

	record := s.kafka.WaitForMessage(ctx, consumer, 10*time.Second, func(r *kgo.Record) bool {
		return string(r.Key) == "t/async"
	})
	s.NotNil(record)
}

func (s *ProducerIntegrationSuite) TestProducerHealthy() {
	s.True(s.producer.Healthy(context.Background()))
}
