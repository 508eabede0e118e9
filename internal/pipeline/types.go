package pipeline

import (
	"context"
	"time"

	"github.com/Adriano-luizello/Profeta-sub001/internal/csvadapter"
	"github.com/Adriano-luizello/Profeta-sub001/internal/service"
)

// Importer imports one file. *service.UploadService implements it.
type Importer interface {
	Import(ctx context.Context, req service.ImportRequest) (*service.ImportResult, error)
}

// Job is one file waiting to be imported. Fetch is called by the worker that
// picks the job up, so downloads run concurrently too.
type Job struct {
	Name  string
	Fetch func(ctx context.Context) ([]byte, error)
}

// Config holds configuration for a pipeline run
type Config struct {
	OrganizationID   string
	WorkerCount      int // Number of concurrent workers
	ValueType        csvadapter.ValueType
	DateFormat       csvadapter.DateFormat
	DecimalSeparator string
}

// DefaultConfig returns sensible defaults
func DefaultConfig(organizationID string) Config {
	return Config{
		OrganizationID: organizationID,
		WorkerCount:    4,
		DateFormat:     csvadapter.DateAuto,
	}
}

// FileStatus represents the state of a single file import
type FileStatus string

const (
	FileStatusCompleted FileStatus = "completed"
	FileStatusFailed    FileStatus = "failed"
	FileStatusCancelled FileStatus = "cancelled"
)

// FileResult tracks the import of a single file
type FileResult struct {
	Name     string                `json:"name"`
	Status   FileStatus            `json:"status"`
	Result   *service.ImportResult `json:"result,omitempty"`
	Error    string                `json:"error,omitempty"`
	Duration time.Duration         `json:"duration"`
	Err      error                 `json:"-"`
}

// Summary holds the totals of a run for logging and CLI output
type Summary struct {
	Files     int `json:"files"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Rows      int `json:"rows"`
	Products  int `json:"products"`
}

// Summarize totals a run
func Summarize(results []FileResult) Summary {
	s := Summary{Files: len(results)}
	for _, r := range results {
		if r.Status != FileStatusCompleted {
			s.Failed++
			continue
		}
		s.Completed++
		if r.Result != nil {
			s.Rows += r.Result.Transform.ValidRows
			s.Products += r.Result.Products
		}
	}
	return s
}
