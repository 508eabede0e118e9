package drive

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Adriano-luizello/Profeta-sub001/internal/pipeline"
)

// Watcher polls a Drive folder and imports spreadsheets that are new or were
// modified since the last poll. A file that fails is retried on the next poll.
type Watcher struct {
	files    Files
	runner   *pipeline.Runner
	folderID string
	interval time.Duration

	mu   sync.Mutex
	seen map[string]string // file id -> modifiedTime
}

func NewWatcher(files Files, runner *pipeline.Runner, folderID string, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Watcher{
		files:    files,
		runner:   runner,
		folderID: folderID,
		interval: interval,
		seen:     make(map[string]string),
	}
}

// Poll imports every changed spreadsheet once
func (w *Watcher) Poll(ctx context.Context) ([]pipeline.FileResult, error) {
	listed, err := w.files.ListFiles(ctx, w.folderID)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	var changed []*File
	for _, f := range listed {
		if !pipeline.Importable(f.Name) {
			continue
		}
		if modified, ok := w.seen[f.ID]; ok && modified == f.ModifiedTime {
			continue
		}
		changed = append(changed, f)
	}
	w.mu.Unlock()

	if len(changed) == 0 {
		return nil, nil
	}

	jobs := make([]pipeline.Job, len(changed))
	for i, f := range changed {
		jobs[i] = Job(w.files, f)
	}

	results, err := w.runner.Run(ctx, jobs)

	w.mu.Lock()
	for i, r := range results {
		if r.Status == pipeline.FileStatusCompleted {
			w.seen[changed[i].ID] = changed[i].ModifiedTime
		}
	}
	w.mu.Unlock()

	return results, err
}

// Run polls until ctx is done
func (w *Watcher) Run(ctx context.Context) error {
	log.Info().Str("folder_id", w.folderID).Dur("interval", w.interval).Msg("drive: watching folder")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if _, err := w.Poll(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Str("folder_id", w.folderID).Msg("drive: poll failed")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
