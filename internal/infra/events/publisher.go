// Package events publishes appointment status changes for notification collaborators.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

const eventType = "appointment.status_changed"

// StatusChanged payload of an appointment status event
type StatusChanged struct {
	EventID       string    `json:"eventId"`
	AppointmentID int64     `json:"appointmentId"`
	ContractorID  int64     `json:"contractorId"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// messageWriter subset of *kafka.Writer
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// defaultQueueSize events waiting for the writer before new ones are dropped
const defaultQueueSize = 1024

// KafkaPublisher best-effort publisher: events are queued and written by a
// background loop, failures are logged, never returned to the request
type KafkaPublisher struct {
	writer  messageWriter
	timeout time.Duration
	logger  Logger

	mu     sync.Mutex
	closed bool
	queue  chan kafka.Message
	done   chan struct{}
}

// NewKafkaPublisher brokers is a comma separated list
func NewKafkaPublisher(brokers, topic string, timeout time.Duration, logger Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(splitBrokers(brokers)...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}
	return newKafkaPublisher(writer, timeout, defaultQueueSize, logger)
}

func newKafkaPublisher(writer messageWriter, timeout time.Duration, queueSize int, logger Logger) *KafkaPublisher {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	p := &KafkaPublisher{
		writer:  writer,
		timeout: timeout,
		logger:  logger,
		queue:   make(chan kafka.Message, queueSize),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

// PublishStatusChanged keyed by contractor so one contractor's events stay ordered.
// Never blocks: when the queue is full the event is dropped with a warning.
func (p *KafkaPublisher) PublishStatusChanged(_ context.Context, a *domain.Appointment, at time.Time) {
	evt := StatusChanged{
		EventID:       uuid.NewString(),
		AppointmentID: a.ID,
		ContractorID:  a.ContractorID,
		Status:        string(a.Status),
		OccurredAt:    at.UTC(),
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		p.logger.Warn("PublishStatusChanged: marshal event for appointment=%d: %v", a.ID, err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(a.ContractorID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(evt.EventID)},
			{Key: "event_type", Value: []byte(eventType)},
		},
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		p.logger.Warn("PublishStatusChanged: publisher closed, dropping appointment=%d status=%s", a.ID, a.Status)
		return
	}
	select {
	case p.queue <- msg:
	default:
		p.logger.Warn("PublishStatusChanged: queue full, dropping appointment=%d status=%s", a.ID, a.Status)
	}
}

func (p *KafkaPublisher) run() {
	defer close(p.done)

	for msg := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		if err := p.writer.WriteMessages(ctx, msg); err != nil {
			p.logger.Warn("PublishStatusChanged: write event %s: %v", eventIDOf(msg), err)
		}
		cancel()
	}
}

// Close flushes queued events and closes the writer
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	<-p.done

	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("events: close kafka writer: %w", err)
	}
	return nil
}

func eventIDOf(msg kafka.Message) string {
	for _, h := range msg.Headers {
		if h.Key == "event_id" {
			return string(h.Value)
		}
	}
	return ""
}

// NopPublisher used when Kafka is disabled
type NopPublisher struct{}

func (NopPublisher) PublishStatusChanged(context.Context, *domain.Appointment, time.Time) {}

func (NopPublisher) Close() error { return nil }

func splitBrokers(brokers string) []string {
	var out []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
