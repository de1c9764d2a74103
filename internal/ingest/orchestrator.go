package ingest

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mhersi/copilot-premium-tui/internal/logger"
	"github.com/mhersi/copilot-premium-tui/internal/models"
)

// DefaultProgressResolution is the row interval between progress events.
const DefaultProgressResolution = 500

// Progress is the payload of a progress callback.
type Progress struct {
	RowsProcessed int
}

// Options configures one ingestion run. Callbacks are invoked on the
// goroutine driving Ingest; OnProgress must return quickly because row
// dispatch continues only after it does.
type Options struct {
	Pricing            models.Pricing
	ProgressResolution int
	OnProgress         func(Progress)
	OnComplete         func(*models.IngestionResult)
	OnError            func(error)
}

// Ingest drives a single streaming pass: it pulls chunks from the source,
// normalizes each record once, fans every valid row out to all registered
// aggregators in registration order, and finalizes them when the stream
// ends.
//
// Failure semantics: a row that fails validation is dropped (with a
// warning when it carried a bad quantity); an error or panic from one
// aggregator's OnRow or Finalize is recorded as a warning and never stops
// the others; a source-level parse or read error aborts the run through
// OnError and no result is produced. Cancellation via ctx is checked
// between chunks — dispatched rows are never reprocessed, and already
// accumulated state is still finalized for a clean wind-down.
func Ingest(ctx context.Context, src Source, aggregators []Aggregator, opts Options) {
	resolution := opts.ProgressResolution
	if resolution < 1 {
		resolution = DefaultProgressResolution
	}

	rc := &RunContext{Pricing: opts.Pricing, ctx: ctx}
	for _, agg := range aggregators {
		agg.Init(rc)
	}

	var warnings []string
	rowsProcessed := 0
	start := time.Now()

	for {
		if ctx != nil && ctx.Err() != nil {
			logger.Info("ingestion cancelled", "rowsProcessed", rowsProcessed)
			break
		}

		chunk, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Error("ingestion aborted", "error", err)
			if opts.OnError != nil {
				opts.OnError(err)
			}
			return
		}

		for i := range chunk {
			row, warn := Normalize(chunk[i])
			if warn != "" {
				warnings = append(warnings, warn)
			}
			if row == nil {
				continue
			}

			rowsProcessed++
			for _, agg := range aggregators {
				if err := guard(func() error { return agg.OnRow(row) }); err != nil {
					warnings = append(warnings, fmt.Sprintf("Aggregator %s error: %v", agg.ID(), err))
				}
			}

			if opts.OnProgress != nil && rowsProcessed%resolution == 0 {
				opts.OnProgress(Progress{RowsProcessed: rowsProcessed})
			}
		}

		for _, agg := range aggregators {
			if obs, ok := agg.(ChunkObserver); ok {
				if err := guard(func() error { obs.OnChunkEnd(); return nil }); err != nil {
					warnings = append(warnings, fmt.Sprintf("Aggregator %s error: %v", agg.ID(), err))
				}
			}
		}
	}

	outputs := make(map[string]any, len(aggregators))
	for _, agg := range aggregators {
		var artifact any
		err := guard(func() error {
			var ferr error
			artifact, ferr = agg.Finalize()
			return ferr
		})
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Aggregator %s error: %v", agg.ID(), err))
			artifact = nil
		}
		outputs[agg.ID()] = artifact
	}

	result := &models.IngestionResult{
		Outputs:       outputs,
		RowsProcessed: rowsProcessed,
		Duration:      time.Since(start),
		Warnings:      warnings,
	}

	logger.Info("ingestion complete",
		"rowsProcessed", rowsProcessed,
		"warnings", len(warnings),
		"duration", result.Duration)

	if opts.OnComplete != nil {
		opts.OnComplete(result)
	}
}

// guard runs fn, converting a panic into an error so one misbehaving
// aggregator cannot abort the pipeline.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
