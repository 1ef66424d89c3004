// Package kafka publishes audit events to a Kafka topic. When the broker is
// unhealthy a circuit breaker routes events to a fallback store instead.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "pkgconfirm/pkg/platform/audit"
	"pkgconfirm/pkg/platform/circuit"
)

// Producer is the subset of *kgo.Client the sink needs.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

type Sink struct {
	producer Producer
	topic    string
	fallback audit.Store
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

type Option func(*Sink)

func WithFallback(store audit.Store) Option {
	return func(s *Sink) {
		s.fallback = store
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(s *Sink) {
		s.breaker = b
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Sink) {
		s.logger = logger
	}
}

func NewSink(producer Producer, topic string, opts ...Option) *Sink {
	s := &Sink{
		producer: producer,
		topic:    topic,
		breaker:  circuit.New("audit-kafka", circuit.WithFailureThreshold(3), circuit.WithSuccessThreshold(1)),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewClient builds a franz-go client producing to topic by default.
func NewClient(brokers []string, topic string) (*kgo.Client, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}
	return kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
}

// EnsureTopic creates topic if it does not exist.
func EnsureTopic(ctx context.Context, client *kgo.Client, topic string, partitions int32) error {
	adm := kadm.NewClient(client)
	resp, err := adm.CreateTopics(ctx, partitions, -1, nil, topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	for _, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}

// Append produces the event keyed by session ID so a session's events stay
// ordered within one partition.
func (s *Sink) Append(ctx context.Context, event audit.Event) error {
	if !s.breaker.AllowPrimary() {
		return s.appendFallback(ctx, event, errors.New("circuit open"))
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.SessionID),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: "category", Value: []byte(event.Category)},
			{Key: "action", Value: []byte(event.Action)},
		},
	}

	if err := s.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		_, change := s.breaker.RecordFailure()
		if change.Opened {
			s.logger.WarnContext(ctx, "audit kafka circuit opened", "topic", s.topic, "error", err)
		}
		return s.appendFallback(ctx, event, err)
	}

	if _, change := s.breaker.RecordSuccess(); change.Closed {
		s.logger.InfoContext(ctx, "audit kafka circuit closed", "topic", s.topic)
	}
	return nil
}

func (s *Sink) appendFallback(ctx context.Context, event audit.Event, cause error) error {
	if s.fallback == nil {
		return fmt.Errorf("produce audit event: %w", cause)
	}
	return s.fallback.Append(ctx, event)
}
