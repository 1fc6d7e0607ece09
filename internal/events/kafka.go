package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher publishes events through one kafka.Writer per topic.
// Writers are created lazily and reused; Close flushes and releases them.
type KafkaPublisher struct {
	brokers []string

	mu      sync.Mutex
	writers map[string]*kafka.Writer
}

func NewKafkaPublisher(brokersCSV string) *KafkaPublisher {
	return &KafkaPublisher{
		brokers: splitBrokers(brokersCSV),
		writers: make(map[string]*kafka.Writer),
	}
}

func splitBrokers(csv string) []string {
	var brokers []string
	for _, b := range strings.Split(csv, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func (p *KafkaPublisher) writer(topic string) *kafka.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()
	w, ok := p.writers[topic]
	if !ok {
		w = &kafka.Writer{
			Addr:         kafka.TCP(p.brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		}
		p.writers[topic] = w
	}
	return w
}

func (p *KafkaPublisher) Emit(ctx context.Context, topic, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return &PublishError{Topic: topic, Err: err}
	}
	msg := kafka.Message{Key: []byte(key), Value: data, Time: time.Now().UTC()}
	if err := p.writer(topic).WriteMessages(ctx, msg); err != nil {
		return &PublishError{Topic: topic, Err: err}
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var firstErr error
	for _, w := range p.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	p.writers = make(map[string]*kafka.Writer)
	return firstErr
}

// Handler processes one raw message. A returned error is logged and the
// message is not redelivered; consumption is at-most-once.
type Handler func(ctx context.Context, topic string, value []byte) error

// Consumer reads one consumer group across a set of topics.
type Consumer struct {
	brokers []string
	groupID string
}

func NewConsumer(brokersCSV, groupID string) *Consumer {
	return &Consumer{brokers: splitBrokers(brokersCSV), groupID: groupID}
}

// Run blocks consuming the given topics until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context, topics []string, h Handler) error {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     c.brokers,
		GroupID:     c.groupID,
		GroupTopics: topics,
		MinBytes:    10e3,
		MaxBytes:    10e6,
	})
	defer reader.Close()

	for {
		m, err := reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if err := h(ctx, m.Topic, m.Value); err != nil {
			log.Printf("[events] group=%s topic=%s handler error: %v", c.groupID, m.Topic, err)
		}
	}
}
