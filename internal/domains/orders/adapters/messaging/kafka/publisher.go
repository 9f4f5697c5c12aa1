package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"

	"github.com/Apurer/dairy-storefront/internal/domains/orders/domain"
	"github.com/Apurer/dairy-storefront/internal/domains/orders/ports"
)

// DefaultTopic carries status change events.
const DefaultTopic = "orders.status-changed"

var _ ports.StatusChangeRecorder = (*Publisher)(nil)

// Publisher emits status changes to Kafka, keyed by order id so events of
// one order stay on one partition.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
}

// Envelope is the JSON payload written to the topic.
type Envelope struct {
	Event      string    `json:"event"`
	ID         string    `json:"id"`
	OrderID    string    `json:"orderId"`
	From       string    `json:"fromStatus"`
	To         string    `json:"toStatus"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewPublisher wraps an existing producer. An empty topic means DefaultTopic.
func NewPublisher(producer sarama.SyncProducer, topic string) *Publisher {
	if strings.TrimSpace(topic) == "" {
		topic = DefaultTopic
	}
	return &Publisher{producer: producer, topic: topic}
}

// NewSyncProducer dials the brokers with acknowledgement from all replicas.
func NewSyncProducer(brokers []string) (sarama.SyncProducer, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Retry.Backoff = 100 * time.Millisecond
	cfg.Producer.Return.Successes = true
	cfg.Net.DialTimeout = 10 * time.Second
	cfg.Net.WriteTimeout = 10 * time.Second

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return producer, nil
}

// Record publishes one change and waits for the broker acknowledgement.
func (p *Publisher) Record(ctx context.Context, change domain.StatusChange) error {
	if p == nil || p.producer == nil {
		return errors.New("kafka publisher not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(Envelope{
		Event:      change.EventName(),
		ID:         change.ID,
		OrderID:    change.OrderID,
		From:       string(change.From),
		To:         string(change.To),
		Actor:      change.Actor,
		OccurredAt: change.OccurredAt,
	})
	if err != nil {
		return err
	}
	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(change.OrderID),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event"), Value: []byte(change.EventName())},
		},
	})
	if err != nil {
		return fmt.Errorf("publish status change %s: %w", change.ID, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	if p == nil || p.producer == nil {
		return nil
	}
	return p.producer.Close()
}
