package events

import (
	"context"

	"go.uber.org/zap"

	"github.com/simaogato/sendflow/internal/domain"
)

// LogPublisher writes flow events to a structured logger
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, e domain.FlowEvent) error {
	p.log.Info("flow event",
		zap.String("event_id", e.ID.String()),
		zap.String("session_id", e.SessionID.String()),
		zap.String("type", string(e.Type)),
		zap.String("flow", string(e.Flow)),
		zap.String("card", string(e.Card)),
		zap.Uint64("epoch", e.Epoch),
		zap.Int64("amount_minor_units", e.AmountMinorUnits),
		zap.String("sender", e.SenderID),
		zap.String("receiver", e.ReceiverID),
		zap.String("rail", string(e.Rail)),
	)
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
