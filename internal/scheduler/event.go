package scheduler

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"

	"github.com/huynhanx03/go-indexq/pkg/settings"
)

// EventType names a queue state change.
type EventType string

const (
	EventRegistered EventType = "registered"
	EventCancelled  EventType = "cancelled"
	EventServed     EventType = "served"
)

// Event is published on every state change of the queue.
type Event struct {
	Type   EventType `json:"type"`
	Person Person    `json:"person"`
	Size   int       `json:"size"`
	At     time.Time `json:"at"`
}

// EventPublisher delivers queue events.
type EventPublisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

type nopPublisher struct{}

// NopPublisher drops every event.
func NopPublisher() EventPublisher { return nopPublisher{} }

func (nopPublisher) Publish(context.Context, Event) error { return nil }
func (nopPublisher) Close() error                         { return nil }

// KafkaPublisher writes events to a Kafka topic keyed by person ID, so all
// events of one person land on the same partition. Service publishes while
// holding its lock, which keeps that partition in the order changes happened.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaPublisher wraps an existing producer.
func NewKafkaPublisher(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

// DialKafka connects a synchronous producer using cfg.
func DialKafka(cfg settings.Kafka) (*KafkaPublisher, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, ProducerConfig(cfg))
	if err != nil {
		return nil, errors.Wrap(err, "dial kafka")
	}
	return NewKafkaPublisher(producer, cfg.Topic), nil
}

// ProducerConfig translates settings into a sarama configuration.
func ProducerConfig(cfg settings.Kafka) *sarama.Config {
	sc := sarama.NewConfig()
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Return.Successes = true
	sc.Producer.Retry.Max = cfg.MaxRetries
	sc.Producer.Retry.Backoff = time.Duration(cfg.RetryBackoff) * time.Millisecond
	if cfg.Timeout > 0 {
		sc.Producer.Timeout = time.Duration(cfg.Timeout) * time.Second
		sc.Net.DialTimeout = sc.Producer.Timeout
	}
	return sc
}

// Publish sends ev and waits for the broker acknowledgement.
func (k *KafkaPublisher) Publish(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}

	msg := &sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(strconv.Itoa(ev.Person.ID)),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(ev.Type)},
		},
	}

	if _, _, err := k.producer.SendMessage(msg); err != nil {
		return errors.Wrapf(err, "send %s event", ev.Type)
	}
	return nil
}

// Close flushes and closes the producer.
func (k *KafkaPublisher) Close() error {
	return k.producer.Close()
}
