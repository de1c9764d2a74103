// Package ingest implements the streaming ingestion pipeline for Copilot
// premium-request usage exports: a row normalizer, a composable aggregator
// contract, and the orchestrator that fans normalized rows out to every
// registered aggregator in a single pass over the file.
package ingest

import (
	"context"

	"github.com/mhersi/copilot-premium-tui/internal/models"
)

// RunContext is the read-only configuration shared by every aggregator for
// one ingestion run. It is created once per Ingest call and discarded
// afterwards, so concurrent runs (should they ever exist) stay isolated.
type RunContext struct {
	Pricing models.Pricing

	// ctx carries advisory cancellation; the orchestrator checks it
	// between chunks.
	ctx context.Context
}

// Done exposes the run's cancellation channel for aggregators that want to
// poll it. Aggregators are not required to.
func (rc *RunContext) Done() <-chan struct{} {
	if rc.ctx == nil {
		return nil
	}
	return rc.ctx.Done()
}

// Aggregator is the contract every stream consumer implements. Lifecycle
// per run: Init exactly once before the first row, OnRow zero or more
// times in file order, Finalize exactly once after the stream ends. An
// instance must be re-initialized before it can serve another run.
//
// OnRow mutates only the aggregator's own state. Errors returned from
// OnRow or Finalize (and panics, which the orchestrator converts) are
// isolated per aggregator: they become warnings on the result and never
// abort the run.
type Aggregator interface {
	// ID identifies the aggregator's slot in the result bundle.
	ID() string

	// Init resets internal state for a fresh run.
	Init(rc *RunContext)

	// OnRow consumes one normalized row.
	OnRow(row *models.NormalizedRow) error

	// Finalize assembles the immutable artifact for the completed run.
	Finalize() (any, error)
}

// ChunkObserver is optionally implemented by aggregators that want a hook
// after each source chunk has been fully dispatched, for batched
// bookkeeping.
type ChunkObserver interface {
	OnChunkEnd()
}
