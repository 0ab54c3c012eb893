package events

import (
	"context"
	"errors"

	"github.com/simaogato/sendflow/internal/domain"
)

// MultiPublisher fans every event out to all publishers
type MultiPublisher []domain.EventPublisher

func (m MultiPublisher) Publish(ctx context.Context, e domain.FlowEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiPublisher) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NoopPublisher drops everything
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, domain.FlowEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
