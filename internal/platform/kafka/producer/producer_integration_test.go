//go:build integration

package producer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"credvault/internal/platform/config"
	"credvault/internal/platform/kafka/producer"
	"credvault/pkg/testutil/containers"
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

	prod, err := producer.New(config.KafkaConfig{
		Brokers:         s.kafka.Brokers,
		Acks:            "all",
		Retries:         3,
		DeliveryTimeout: 10 * time.Second,
	}, nil)
	s.Require().NoError(err)
	s.producer = prod
}

func (s *ProducerIntegrationSuite) TearDownSuite() {
	if s.producer != nil {
		_ = s.producer.Close()
	}
}

func (s *ProducerIntegrationSuite) consume(topic, group, key string) *kgo.Record {
	consumer, err := s.kafka.NewConsumer(group, topic)
	s.Require().NoError(err)
	defer consumer.Close()

	return s.kafka.WaitForRecord(context.Background(), consumer, 10*time.Second, func(r *kgo.Record) bool {
		return string(r.Key) == key
	})
}

// Produce returns only after the broker acknowledged, with the stored offset.
func (s *ProducerIntegrationSuite) TestProduceReturnsReceipt() {
	ctx := context.Background()
	topic := "test-produce-receipt"
	s.Require().NoError(s.kafka.CreateTopic(ctx, topic, 1, 1))

	receipt, err := s.producer.Produce(ctx, &producer.Message{
		Topic: topic,
		Key:   []byte("cred_1"),
		Value: []byte(`{"hash":"abc"}`),
	})
	s.Require().NoError(err)
	s.Equal(topic, receipt.Topic)
	s.GreaterOrEqual(receipt.Offset, int64(0))

	record := s.consume(topic, "receipt-group", "cred_1")
	s.Require().NotNil(record)
	s.Equal(receipt.Offset, record.Offset)
	s.Equal(`{"hash":"abc"}`, string(record.Value))
}

func (s *ProducerIntegrationSuite) TestProducePreservesHeaders() {
	ctx := context.Background()
	topic := "test-produce-headers"
	s.Require().NoError(s.kafka.CreateTopic(ctx, topic, 1, 1))

	_, err := s.producer.Produce(ctx, &producer.Message{
		Topic:   topic,
		Key:     []byte("header-key"),
		Value:   []byte("v"),
		Headers: map[string]string{"activity_type": "credential_issued"},
	})
	s.Require().NoError(err)

	record := s.consume(topic, "headers-group", "header-key")
	s.Require().NotNil(record)
	headers := make(map[string]string)
	for _, h := range record.Headers {
		headers[h.Key] = string(h.Value)
	}
	s.Equal("credential_issued", headers["activity_type"])
}

func (s *ProducerIntegrationSuite) TestProduceAsyncDelivers() {
	topic := "test-produce-async"
	s.Require().NoError(s.kafka.CreateTopic(context.Background(), topic, 1, 1))

	s.Require().NoError(s.producer.ProduceAsync(&producer.Message{
		Topic: topic,
		Key:   []byte("async-key"),
		Value: []byte("v"),
	}))

	s.NotNil(s.consume(topic, "async-group", "async-key"))
}

func (s *ProducerIntegrationSuite) TestHealthy() {
	s.NoError(s.producer.Healthy(context.Background()))
}

func (s *ProducerIntegrationSuite) TestClosedProducerRejects() {
	prod, err := producer.New(config.KafkaConfig{Brokers: s.kafka.Brokers}, nil)
	s.Require().NoError(err)
	s.Require().NoError(prod.Close())

	_, err = prod.Produce(context.Background(), &producer.Message{Topic: "x"})
	s.ErrorIs(err, producer.ErrClosed)
	s.ErrorIs(prod.ProduceAsync(&producer.Message{Topic: "x"}), producer.ErrClosed)
	s.ErrorIs(prod.Healthy(context.Background()), producer.ErrClosed)
}
