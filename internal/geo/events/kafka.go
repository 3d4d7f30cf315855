package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"projet/pkg/platform/circuit"
)

const (
	defaultProbeTimeout = 500 * time.Millisecond
	defaultPartitions   = 3
)

type producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// KafkaPublisher produces events as JSON records keyed by entity/id, so
// changes to one record stay ordered within a partition.
type KafkaPublisher struct {
	client       *kgo.Client
	producer     producer
	topic        string
	breaker      *circuit.Breaker
	fallback     Publisher
	logger       *slog.Logger
	probeTimeout time.Duration
}

// KafkaOption configures a KafkaPublisher.
type KafkaOption func(*KafkaPublisher)

func WithLogger(logger *slog.Logger) KafkaOption {
	return func(p *KafkaPublisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithFallback sets where events go when the broker rejects them.
func WithFallback(fallback Publisher) KafkaOption {
	return func(p *KafkaPublisher) {
		if fallback != nil {
			p.fallback = fallback
		}
	}
}

func WithBreaker(b *circuit.Breaker) KafkaOption {
	return func(p *KafkaPublisher) {
		if b != nil {
			p.breaker = b
		}
	}
}

// NewKafka connects a producer to brokers. The connection is lazy: no broker
// is contacted until the first publish or EnsureTopic.
func NewKafka(brokers []string, topic string, opts ...KafkaOption) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka: at least one broker is required")
	}
	if topic == "" {
		return nil, errors.New("kafka: topic is required")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerLinger(5*time.Millisecond),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	p := newKafka(client, topic, opts...)
	p.client = client
	return p, nil
}

func newKafka(prod producer, topic string, opts ...KafkaOption) *KafkaPublisher {
	p := &KafkaPublisher{
		producer:     prod,
		topic:        topic,
		breaker:      circuit.New("kafka-events"),
		logger:       slog.Default(),
		probeTimeout: defaultProbeTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.fallback == nil {
		p.fallback = NewLogPublisher(p.logger)
	}
	return p
}

// Publish produces event synchronously. On failure the event is handed to
// the fallback and the error is returned for the caller to log.
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(string(event.Entity) + "/" + strconv.FormatInt(event.ID, 10)),
		Value: value,
	}

	// While the circuit is open each publish only probes the broker briefly.
	if p.breaker.IsOpen() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.probeTimeout)
		defer cancel()
	}

	if err := p.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		_, change := p.breaker.RecordFailure()
		if change.Opened {
			p.logger.WarnContext(ctx, "event publisher circuit opened", "topic", p.topic, "error", err)
		}
		_ = p.fallback.Publish(ctx, event)
		return fmt.Errorf("produce event: %w", err)
	}
	if _, change := p.breaker.RecordSuccess(); change.Closed {
		p.logger.InfoContext(ctx, "event publisher circuit closed", "topic", p.topic)
	}
	return nil
}

// EnsureTopic creates the topic when it does not exist yet.
func (p *KafkaPublisher) EnsureTopic(ctx context.Context, replicationFactor int16) error {
	if p.client == nil {
		return errors.New("kafka: no admin client")
	}
	adm := kadm.NewClient(p.client)
	resp, err := adm.CreateTopics(ctx, defaultPartitions, replicationFactor, nil, p.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", p.topic, err)
	}
	for _, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}

// Close flushes pending records and closes the client.
func (p *KafkaPublisher) Close() {
	if p.client != nil {
		p.client.Close()
	}
}
