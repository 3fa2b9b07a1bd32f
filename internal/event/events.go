package event

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	TypeCustomerCreated = "customer.created"
	TypeCustomerUpdated = "customer.updated"
	TypeCustomerDeleted = "customer.deleted"
)

type CustomerEventPayload struct {
	CustomerID int64  `json:"customerId"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Age        int    `json:"age"`
}

type CustomerEvent struct {
	EventID   string               `json:"eventId"`
	Type      string               `json:"type"`
	Timestamp time.Time            `json:"timestamp"`
	Payload   CustomerEventPayload `json:"payload"`
}

func NewCustomerEvent(eventType string, payload CustomerEventPayload) CustomerEvent {
	return CustomerEvent{
		EventID:   uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

type EventPublisher interface {
	PublishCustomerCreated(ctx context.Context, event CustomerEvent) error
	PublishCustomerUpdated(ctx context.Context, event CustomerEvent) error
	PublishCustomerDeleted(ctx context.Context, event CustomerEvent) error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

var _ EventPublisher = NopPublisher{}

func (NopPublisher) PublishCustomerCreated(context.Context, CustomerEvent) error { return nil }

func (NopPublisher) PublishCustomerUpdated(context.Context, CustomerEvent) error { return nil }

func (NopPublisher) PublishCustomerDeleted(context.Context, CustomerEvent) error { return nil }
