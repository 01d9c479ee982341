package repository

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"
)

// Item is an entity the Synchronizer can submit and reconcile.
type Item interface {
	SequenceIndex() int
	IsPersisted() bool
	SetRemoteID(id int64)
}

// Assignment is one {index, remote id} pair of a batch reply.
type Assignment struct {
	Index    int    `json:"index"`
	RemoteID int64  `json:"dqfId"`
	ClientID string `json:"clientId"`
}

// SubmitFunc sends one chunk and returns the ids the service assigned.
type SubmitFunc[T Item] func(ctx context.Context, chunk []T) ([]Assignment, error)

// SyncResult summarises a Run.
type SyncResult struct {
	// Submitted is the number of pending items sent.
	Submitted int
	// Chunks is the number of submit calls that succeeded.
	Chunks int
	// Assigned is the number of remote ids written back.
	Assigned int
}

// Synchronizer submits ordered collections in chunks of at most Limit items
// and writes the returned remote ids back by sequence index.
type Synchronizer[T Item] struct {
	Limit  int
	Logger hclog.Logger
}

// Run submits the pending items of items. Items already carrying a remote id
// are skipped, so a Run that failed partway can be repeated with the same
// collection to send only what is left. Ids assigned by chunks that
// succeeded before a failure are kept.
func (s Synchronizer[T]) Run(ctx context.Context, items []T, submit SubmitFunc[T]) (SyncResult, error) {
	var result SyncResult

	limit := s.Limit
	if limit <= 0 {
		limit = DefaultBatchLimit
	}
	logger := s.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	pending := make([]T, 0, len(items))
	for _, item := range items {
		if !item.IsPersisted() {
			pending = append(pending, item)
		}
	}
	if len(pending) == 0 {
		return result, nil
	}

	total := (len(pending) + limit - 1) / limit
	for start := 0; start < len(pending); start += limit {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		end := min(start+limit, len(pending))
		chunk := pending[start:end]

		logger.Debug("submitting chunk",
			"chunk", result.Chunks+1,
			"chunks", total,
			"size", len(chunk),
		)
		assigned, err := submit(ctx, chunk)
		if err != nil {
			logger.Error("chunk submission failed",
				"chunk", result.Chunks+1,
				"assigned", result.Assigned,
				"error", err,
			)
			return result, fmt.Errorf("chunk %d of %d: %w", result.Chunks+1, total, err)
		}

		result.Chunks++
		result.Submitted += len(chunk)
		result.Assigned += reconcile(items, assigned)
	}

	logger.Info("synchronized items",
		"submitted", result.Submitted,
		"chunks", result.Chunks,
		"assigned", result.Assigned,
	)
	return result, nil
}

// reconcile writes each assignment onto every item with the same index and
// returns the number of items updated.
func reconcile[T Item](items []T, assigned []Assignment) int {
	n := 0
	for _, a := range assigned {
		if a.RemoteID == 0 {
			continue
		}
		for _, item := range items {
			if item.SequenceIndex() == a.Index {
				item.SetRemoteID(a.RemoteID)
				n++
			}
		}
	}
	return n
}
