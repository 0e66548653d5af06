// Package events publishes console audit events (logins, cart mutations,
// placed orders) to Kafka. Publishing is best-effort: failures are logged and
// never reach the user.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TopicAuth  = "auth_events"
	TopicCart  = "cart_events"
	TopicOrder = "order_events"
)

type Producer struct {
	writer *kafka.Writer
	log    *slog.Logger
}

// NewProducer returns a nop producer when brokers is empty.
func NewProducer(brokers []string, log *slog.Logger) *Producer {
	p := &Producer{log: log}
	if len(brokers) == 0 {
		return p
	}
	p.writer = &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		WriteTimeout:           5 * time.Second,
	}
	return p
}

func (p *Producer) Enabled() bool {
	return p.writer != nil
}

func (p *Producer) Publish(ctx context.Context, topic, key string, event any) {
	if p.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		p.log.Warn("event_marshal_failed", "topic", topic, "error", err)
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now().UTC(),
	})
	if err != nil {
		p.log.Warn("event_publish_failed", "topic", topic, "error", err)
	}
}

func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
