package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Adriano-luizello/Profeta-sub001/internal/service"
)

// Runner imports many files through a bounded worker pool
type Runner struct {
	importer Importer
	config   Config
}

// NewRunner creates a new pipeline runner
func NewRunner(importer Importer, config Config) *Runner {
	if config.WorkerCount < 1 {
		config.WorkerCount = 1
	}
	return &Runner{importer: importer, config: config}
}

// Run imports every job and returns one result per job, in job order. A
// failing file does not stop the others; only cancellation does, and the
// files not yet started are then reported as cancelled.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]FileResult, error) {
	results := make([]FileResult, len(jobs))
	if len(jobs) == 0 {
		return results, nil
	}

	log.Info().
		Str("organization_id", r.config.OrganizationID).
		Int("files", len(jobs)).
		Int("workers", r.config.WorkerCount).
		Msg("pipeline: starting run")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.WorkerCount)

	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = FileResult{Name: job.Name, Status: FileStatusCancelled, Error: err.Error(), Err: err}
				return nil
			}
			results[i] = r.processFile(gctx, job)
			return nil
		})
	}

	// Workers never return errors; per-file failures live in results
	_ = g.Wait()

	summary := Summarize(results)
	log.Info().
		Int("completed", summary.Completed).
		Int("failed", summary.Failed).
		Int("rows", summary.Rows).
		Msg("pipeline: run finished")

	return results, ctx.Err()
}

// processFile fetches and imports a single file
func (r *Runner) processFile(ctx context.Context, job Job) FileResult {
	start := time.Now()
	result := FileResult{Name: job.Name}

	fail := func(err error) FileResult {
		result.Status = FileStatusFailed
		result.Err = err
		result.Error = err.Error()
		result.Duration = time.Since(start)
		log.Error().Err(err).Str("file", job.Name).Msg("pipeline: file failed")
		return result
	}

	data, err := job.Fetch(ctx)
	if err != nil {
		return fail(fmt.Errorf("fetch failed: %w", err))
	}

	imported, err := r.importer.Import(ctx, service.ImportRequest{
		OrganizationID:   r.config.OrganizationID,
		FileName:         job.Name,
		Data:             data,
		ValueType:        r.config.ValueType,
		DateFormat:       r.config.DateFormat,
		DecimalSeparator: r.config.DecimalSeparator,
	})
	result.Result = imported
	if err != nil {
		return fail(err)
	}

	result.Status = FileStatusCompleted
	result.Duration = time.Since(start)
	log.Info().
		Str("file", job.Name).
		Str("analysis_id", imported.AnalysisID).
		Dur("duration", result.Duration).
		Msg("pipeline: file imported")

	return result
}
