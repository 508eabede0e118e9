package csvadapter

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is wrapped by every ConfigError
	ErrInvalidConfig = errors.New("invalid unpivot config")
	// ErrNoData is wrapped by every DataError
	ErrNoData = errors.New("no data")
)

// ConfigError reports an unpivot precondition on the caller's configuration:
// a missing product column, no date columns or a column absent from the sheet.
type ConfigError struct {
	Field   string
	Column  string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("unpivot config: %s: column %q %s", e.Field, e.Column, e.Message)
	}
	return fmt.Sprintf("unpivot config: %s: %s", e.Field, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// DataError reports input that cannot be unpivoted at all
type DataError struct {
	Message string
}

func (e *DataError) Error() string {
	return "unpivot data: " + e.Message
}

func (e *DataError) Unwrap() error {
	return ErrNoData
}
