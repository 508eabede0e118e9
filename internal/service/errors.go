package service

import "errors"

var (
	// ErrManualMappingRequired is returned when the sheet shape could not be
	// detected and the caller supplied no column mapping
	ErrManualMappingRequired = errors.New("manual mapping required")
	ErrFileRejected          = errors.New("file rejected")
	ErrNoValidRows           = errors.New("no valid rows to import")
	ErrAnalysisNotFound      = errors.New("analysis not found")
	ErrInvalidSettings       = errors.New("invalid settings")
	ErrForecastUnavailable   = errors.New("forecast service unavailable")
)
