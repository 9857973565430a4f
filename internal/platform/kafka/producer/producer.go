package producer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"credvault/internal/platform/config"
)

// ErrClosed is returned when producing on a closed producer.
var ErrClosed = errors.New("producer is closed")

// Message represents a message to be published to Kafka.
type Message struct {
	Topic   string
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// Receipt identifies where the broker stored an acknowledged record.
type Receipt struct {
	Topic     string
	Partition int32
	Offset    int64
	Timestamp time.Time
}

// Producer wraps the franz-go client with a synchronous, receipt-returning interface.
type Producer struct {
	client *kgo.Client
	logger *slog.Logger
	mu     sync.RWMutex
	closed bool
}

// New creates a Kafka producer from the shared Kafka configuration.
func New(cfg config.KafkaConfig, logger *slog.Logger) (*Producer, error) {
	if cfg.Brokers == "" {
		return nil, fmt.Errorf("kafka brokers not configured")
	}
	if logger == nil {
		logger = slog.Default()
	}

	var brokers []string
	for _, b := range strings.Split(cfg.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	var acks kgo.Acks
	switch cfg.Acks {
	case "0":
		acks = kgo.NoAck()
	case "1":
		acks = kgo.LeaderAck()
	default:
		acks = kgo.AllISRAcks()
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.RequiredAcks(acks),
		kgo.RecordRetries(cfg.Retries),
		kgo.ProducerLinger(5 * time.Millisecond),
		kgo.AllowAutoTopicCreation(),
	}
	if acks != kgo.AllISRAcks() {
		// idempotent writes require acks=all
		opts = append(opts, kgo.DisableIdempotentWrite())
	}
	if cfg.DeliveryTimeout > 0 {
		opts = append(opts, kgo.RecordDeliveryTimeout(cfg.DeliveryTimeout))
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	return &Producer{client: client, logger: logger}, nil
}

func toRecord(msg *Message) *kgo.Record {
	headers := make([]kgo.RecordHeader, 0, len(msg.Headers))
	for k, v := range msg.Headers {
		headers = append(headers, kgo.RecordHeader{Key: k, Value: []byte(v)})
	}
	return &kgo.Record{
		Topic:   msg.Topic,
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: headers,
	}
}

func (p *Producer) isClosed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.closed
}

// Produce sends a message and waits for the broker acknowledgement.
func (p *Producer) Produce(ctx context.Context, msg *Message) (Receipt, error) {
	if p.isClosed() {
		return Receipt{}, ErrClosed
	}

	r, err := p.client.ProduceSync(ctx, toRecord(msg)).First()
	if err != nil {
		return Receipt{}, fmt.Errorf("produce message: %w", err)
	}
	return Receipt{
		Topic:     r.Topic,
		Partition: r.Partition,
		Offset:    r.Offset,
		Timestamp: r.Timestamp,
	}, nil
}

// ProduceAsync buffers a message for background delivery. Delivery failures are logged.
func (p *Producer) ProduceAsync(msg *Message) error {
	if p.isClosed() {
		return ErrClosed
	}

	p.client.Produce(context.Background(), toRecord(msg), func(r *kgo.Record, err error) {
		if err != nil {
			p.logger.Error("kafka delivery failed",
				"topic", r.Topic,
				"partition", r.Partition,
				"error", err,
			)
		}
	})
	return nil
}

// Healthy pings the brokers.
func (p *Producer) Healthy(ctx context.Context) error {
	if p.isClosed() {
		return ErrClosed
	}
	return p.client.Ping(ctx)
}

// Close flushes buffered records and shuts the client down.
func (p *Producer) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := p.client.Flush(ctx); err != nil {
		p.logger.Warn("kafka producer closed with unflushed messages", "error", err)
	}
	p.client.Close()
	return nil
}
