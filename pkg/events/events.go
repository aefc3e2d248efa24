package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/campusclubs/clubhub/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Subscriber interface {
	Subscribe(subject string, handler func(msg *Message)) error
	QueueSubscribe(subject, queue string, handler func(msg *Message)) error
	Close() error
}

type EventBus interface {
	Publisher
	Subscriber
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject)

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Subscribe(subject string, handler func(msg *Message)) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
		})
	})
	return err
}

func (n *NATSEventBus) QueueSubscribe(subject, queue string, handler func(msg *Message)) error {
	_, err := n.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
		})
	})
	return err
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// Event subjects
const (
	RegistrationCreated = "registration.created"
	TicketIssued        = "ticket.issued"
	AttendeeCheckedIn   = "attendee.checked_in"
	NotifySend          = "notify.send"
)

// Event payloads
type RegistrationCreatedEvent struct {
	RegistrationID string    `json:"registration_id"`
	EventID        string    `json:"event_id"`
	UserID         string    `json:"user_id"`
	EventTitle     string    `json:"event_title"`
	RegisteredAt   time.Time `json:"registered_at"`
}

type TicketIssuedEvent struct {
	RegistrationID string    `json:"registration_id"`
	UserID         string    `json:"user_id"`
	ExpiresAt      time.Time `json:"expires_at"`
	IssuedAt       time.Time `json:"issued_at"`
}

type AttendeeCheckedInEvent struct {
	RegistrationID string    `json:"registration_id"`
	EventID        string    `json:"event_id"`
	UserID         string    `json:"user_id"`
	CheckedInBy    string    `json:"checked_in_by"`
	CheckedInAt    time.Time `json:"checked_in_at"`
}

type NotificationEvent struct {
	Recipient string `json:"recipient"`
	Name      string `json:"name"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}
