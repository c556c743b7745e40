package storage

import (
	"context"

	"pythscope/internal/model"
)

// Storage defines a sink for price snapshots.
type Storage interface {
	PutSnapshots(ctx context.Context, snapshots []model.PriceSnapshot) error
}

// Multi writes every batch to each sink in order, stopping at the first failure.
type Multi []Storage

// PutSnapshots forwards the batch to all sinks.
func (m Multi) PutSnapshots(ctx context.Context, snapshots []model.PriceSnapshot) error {
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.PutSnapshots(ctx, snapshots); err != nil {
			return err
		}
	}
	return nil
}
