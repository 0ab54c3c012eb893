package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FlowEventType names a lifecycle change worth publishing
type FlowEventType string

const (
	EventReviewRequested FlowEventType = "review_requested"
	EventSendStarted     FlowEventType = "send_started"
	EventCardAdvanced    FlowEventType = "card_advanced"
	EventSent            FlowEventType = "sent"
	EventFlowReset       FlowEventType = "flow_reset"
	EventDialogClosed    FlowEventType = "dialog_closed"
)

// FlowEvent is emitted by a flow machine on lifecycle changes.
type FlowEvent struct {
	ID               uuid.UUID          `json:"id"`
	SessionID        uuid.UUID          `json:"session_id"`
	Type             FlowEventType      `json:"type"`
	Flow             FlowState          `json:"flow"`
	Card             CardAnimationState `json:"card"`
	Epoch            uint64             `json:"epoch"`
	AmountMinorUnits int64              `json:"amount_minor_units"`
	SenderID         string             `json:"sender_id"`
	ReceiverID       string             `json:"receiver_id"`
	Rail             Rail               `json:"rail"`
	OccurredAt       time.Time          `json:"occurred_at"`
}

// EventPublisher delivers flow events somewhere outside the process.
// Publishing is best effort; a flow never waits on or fails because of it.
type EventPublisher interface {
	Publish(ctx context.Context, event FlowEvent) error
	Close() error
}
