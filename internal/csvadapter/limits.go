package csvadapter

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
)

// UploadLimits guard against accidental huge uploads. Files above the warning
// thresholds are accepted with a warning.
type UploadLimits struct {
	MaxFileSizeBytes     int64
	WarningFileSizeBytes int64
	WarningRows          int
	AllowedExtensions    []string
}

// DefaultUploadLimits returns the 50 MB hard limit and 10 MB / 50 000 row warnings
func DefaultUploadLimits() UploadLimits {
	return UploadLimits{
		MaxFileSizeBytes:     50 * 1024 * 1024,
		WarningFileSizeBytes: 10 * 1024 * 1024,
		WarningRows:          50000,
		AllowedExtensions:    []string{".csv", ".xlsx"},
	}
}

// CheckFile rejects a file by extension or size and returns the size warnings
func (l UploadLimits) CheckFile(name string, size int64) ([]string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	allowed := false
	for _, a := range l.AllowedExtensions {
		if ext == strings.ToLower(a) {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("file type %q is not allowed, expected one of %s", ext, strings.Join(l.AllowedExtensions, ", "))
	}

	if l.MaxFileSizeBytes > 0 && size > l.MaxFileSizeBytes {
		return nil, fmt.Errorf("file is %s, the limit is %s", FormatFileSize(size), FormatFileSize(l.MaxFileSizeBytes))
	}

	var warnings []string
	if l.WarningFileSizeBytes > 0 && size > l.WarningFileSizeBytes {
		warnings = append(warnings, fmt.Sprintf("large file (%s), processing may take a while", FormatFileSize(size)))
	}

	return warnings, nil
}

// CheckRows returns a warning when the sheet has many rows
func (l UploadLimits) CheckRows(rows int) []string {
	if l.WarningRows > 0 && rows > l.WarningRows {
		return []string{fmt.Sprintf("%d rows (about %d products), processing may take a while", rows, EstimateProducts(rows))}
	}
	return nil
}

// FormatFileSize renders a byte count for messages
func FormatFileSize(bytes int64) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%d B", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	}
}

// EstimateProducts assumes about 100 records per product
func EstimateProducts(rows int) int {
	return int(math.Ceil(float64(rows) / 100))
}
