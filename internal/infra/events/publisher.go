package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

var (
	// ErrPublisherClosed возвращается при публикации после Close
	ErrPublisherClosed = errors.New("events: publisher is closed")

	// ErrEncode возвращается, когда событие не удалось сериализовать
	ErrEncode = errors.New("events: failed to encode event")

	// ErrPublish возвращается при ошибке записи в Kafka
	ErrPublish = errors.New("events: failed to publish event")
)

// messageWriter часть *kafka.Writer, используемая публикатором
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConfig параметры публикатора
type KafkaConfig struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
	RequiredAcks int // -1 all, 0 none, 1 leader
	Source       string
}

// KafkaPublisher публикует события бронирований в Kafka.
// Ключ сообщения - ID комнаты, поэтому события одной комнаты попадают в одну партицию по порядку.
type KafkaPublisher struct {
	writer       messageWriter
	source       string
	writeTimeout time.Duration

	mu     sync.RWMutex
	closed bool
}

// NewKafkaPublisher создает публикатор поверх kafka-go writer
func NewKafkaPublisher(cfg KafkaConfig) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("%w: at least one broker is required", ErrPublish)
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("%w: topic cannot be empty", ErrPublish)
	}

	var acks kafka.RequiredAcks
	switch cfg.RequiredAcks {
	case 0:
		acks = kafka.RequireNone
	case 1:
		acks = kafka.RequireOne
	default:
		acks = kafka.RequireAll
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: acks,
		WriteTimeout: cfg.WriteTimeout,
	}

	return newKafkaPublisher(writer, cfg.Source, cfg.WriteTimeout), nil
}

func newKafkaPublisher(w messageWriter, source string, writeTimeout time.Duration) *KafkaPublisher {
	return &KafkaPublisher{
		writer:       w,
		source:       source,
		writeTimeout: writeTimeout,
	}
}

// Publish отправляет событие. Ошибки возвращаются вызывающему, который решает, критичны ли они.
func (p *KafkaPublisher) Publish(ctx context.Context, event BookingEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	msg, err := buildMessage(event, p.source)
	if err != nil {
		return err
	}

	if p.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.writeTimeout)
		defer cancel()
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: booking_id=%s type=%s: %w", ErrPublish, event.BookingID, event.Type, err)
	}
	return nil
}

// Close закрывает writer
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.writer.Close()
}

func buildMessage(event BookingEvent, source string) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	return kafka.Message{
		Key:   []byte(strconv.FormatInt(event.RoomID, 10)),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: HeaderEventID, Value: []byte(uuid.NewString())},
			{Key: HeaderEventType, Value: []byte(event.Type)},
			{Key: HeaderSource, Value: []byte(source)},
			{Key: HeaderTimestamp, Value: []byte(event.OccurredAt.Format(time.RFC3339))},
		},
	}, nil
}

// NopPublisher используется, когда Kafka выключена
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, BookingEvent) error { return nil }
func (NopPublisher) Close() error                                { return nil }
