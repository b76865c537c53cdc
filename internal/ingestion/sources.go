package ingestion

import (
	"context"

	"solana-launch-trigger/internal/domain"
)

// EventSource provides trade observations for the watched mint.
type EventSource interface {
	// Subscribe returns a channel of observed events. The channel is
	// closed when the context is cancelled. Transient upstream failures
	// are handled inside the source and never close the channel early.
	Subscribe(ctx context.Context) (<-chan *domain.TriggerEvent, error)
}
