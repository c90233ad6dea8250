package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const writeTimeout = 2 * time.Second

type Event struct {
	Name     string    `json:"event"`
	MatchID  string    `json:"gameId"`
	Player   string    `json:"player"`
	Opponent string    `json:"opponent"`
	Variant  string    `json:"variant,omitempty"`
	Side     string    `json:"side,omitempty"`
	Seq      int       `json:"seq,omitempty"`
	Outcome  string    `json:"outcome,omitempty"`
	Winner   string    `json:"winner,omitempty"`
	At       time.Time `json:"ts"`
}

type Emitter interface {
	Emit(ctx context.Context, event Event) error
	Close() error
}

type KafkaEmitter struct {
	writer *kafka.Writer
}

// NewKafkaEmitter writes asynchronously so a slow broker never stalls the game loop.
func NewKafkaEmitter(brokers []string, topic string) *KafkaEmitter {
	return &KafkaEmitter{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			Async:        true,
			WriteTimeout: writeTimeout,
		},
	}
}

func (that *KafkaEmitter) Emit(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err = that.writer.WriteMessages(ctx, kafka.Message{Key: []byte(event.MatchID), Value: payload}); err != nil {
		return fmt.Errorf("failed to emit %s: %w", event.Name, err)
	}

	return nil
}

func (that *KafkaEmitter) Close() error {
	return that.writer.Close()
}

// NopEmitter is used when no brokers are configured.
type NopEmitter struct{}

func (NopEmitter) Emit(context.Context, Event) error { return nil }
func (NopEmitter) Close() error                      { return nil }

func New(brokers []string, topic string) Emitter {
	if len(brokers) == 0 {
		return NopEmitter{}
	}

	return NewKafkaEmitter(brokers, topic)
}
