// Package natsadapter publishes order events to NATS.
package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"deliveryorders/internal/core/ports"

	"github.com/nats-io/nats.go"
)

// DefaultSubjectPrefix is used when no prefix is configured.
const DefaultSubjectPrefix = "delivery.orders"

// conn is the part of *nats.Conn the publisher needs.
type conn interface {
	Publish(subject string, data []byte) error
}

// orderChangedMessage is the wire form of ports.OrderChangedEvent.
type orderChangedMessage struct {
	OrderID    int64     `json:"orderId"`
	Status     string    `json:"status"`
	Price      float64   `json:"price"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher implements ports.OrderEventPublisher over core NATS.
// Events go to "<prefix>.<status>", e.g. "delivery.orders.delivered".
type Publisher struct {
	conn   conn
	prefix string
	close  func()
}

var _ ports.OrderEventPublisher = (*Publisher)(nil)

// Connect dials NATS and keeps reconnecting in the background.
func Connect(url, subjectPrefix string) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("delivery-orders"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	p := NewPublisher(nc, subjectPrefix)
	p.close = func() {
		_ = nc.Drain()
	}
	return p, nil
}

// NewPublisher wraps an existing connection. An empty prefix falls back to
// DefaultSubjectPrefix.
func NewPublisher(c conn, subjectPrefix string) *Publisher {
	if subjectPrefix == "" {
		subjectPrefix = DefaultSubjectPrefix
	}
	return &Publisher{conn: c, prefix: subjectPrefix}
}

func (p *Publisher) PublishOrderChanged(_ context.Context, event ports.OrderChangedEvent) error {
	data, err := json.Marshal(orderChangedMessage{
		OrderID:    event.OrderID,
		Status:     event.Status.String(),
		Price:      event.Price,
		OccurredAt: event.OccurredAt,
	})
	if err != nil {
		return err
	}

	subject := p.Subject(event)
	if err = p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Subject returns the subject an event is published to.
func (p *Publisher) Subject(event ports.OrderChangedEvent) string {
	return p.prefix + "." + event.Status.String()
}

// Close drains the connection opened by Connect.
func (p *Publisher) Close() {
	if p.close != nil {
		p.close()
	}
}
