package csvadapter

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Adriano-luizello/Profeta-sub001/internal/domain"
)

// WarningType tags a data-quality warning
type WarningType string

const (
	WarningPriceZero      WarningType = "price_zero"
	WarningLowData        WarningType = "low_data"
	WarningProductLowData WarningType = "product_low_data"
	WarningHighValues     WarningType = "high_values"
	WarningDateRange      WarningType = "date_range"
)

const (
	minHistoryDays      = 90
	minProductPoints    = 30
	minUniqueProducts   = 3
	highValueMultiplier = 10
)

// ValidationError flags one invalid row
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Value   any    `json:"value"`
	Message string `json:"message"`
}

// ValidationWarning is a data-quality signal that does not block the import
type ValidationWarning struct {
	Type    WarningType `json:"type"`
	Message string      `json:"message"`
	Count   int         `json:"count"`
}

// DateRange spans the observed sale dates, inclusive
type DateRange struct {
	Min  time.Time `json:"min"`
	Max  time.Time `json:"max"`
	Days int       `json:"days"`
}

// Averages are per valid row
type Averages struct {
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}

// ValidationStats summarizes a validated dataset
type ValidationStats struct {
	TotalRows      int             `json:"total_rows"`
	ValidRows      int             `json:"valid_rows"`
	InvalidRows    int             `json:"invalid_rows"`
	UniqueProducts int             `json:"unique_products"`
	DateRange      DateRange       `json:"date_range"`
	Averages       Averages        `json:"averages"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
}

// ValidationResult is the outcome of Validate
type ValidationResult struct {
	Valid    bool                `json:"valid"`
	Errors   []ValidationError   `json:"errors"`
	Warnings []ValidationWarning `json:"warnings"`
	Stats    ValidationStats     `json:"stats"`
}

// Validate checks canonical rows and computes data-quality warnings. Dates
// after the end of tomorrow, relative to now, are errors.
func Validate(rows []domain.CanonicalSalesRow, now time.Time) ValidationResult {
	result := ValidationResult{
		Errors:   []ValidationError{},
		Warnings: []ValidationWarning{},
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, ValidationError{Field: "data", Message: "no valid data found"})
		result.Stats.DateRange = DateRange{Min: now, Max: now}
		return result
	}

	y, m, d := now.Date()
	endOfTomorrow := time.Date(y, m, d+1, 23, 59, 59, int(time.Second-time.Millisecond), now.Location())

	products := make(map[string]int)
	var dates []time.Time
	var totalQuantity, totalPrice float64
	totalRevenue := decimal.Zero
	validRows := 0

	for i, row := range rows {
		rowNumber := i + 1
		rowValid := true

		if row.Date.IsZero() {
			result.Errors = append(result.Errors, ValidationError{Row: rowNumber, Field: "date", Message: "invalid date"})
			rowValid = false
		} else {
			dates = append(dates, row.Date)
			if row.Date.After(endOfTomorrow) {
				result.Errors = append(result.Errors, ValidationError{
					Row: rowNumber, Field: "date", Value: row.Date.Format("2006-01-02"), Message: "date cannot be in the future",
				})
				rowValid = false
			}
		}

		if row.Product == "" {
			result.Errors = append(result.Errors, ValidationError{Row: rowNumber, Field: "product", Message: "missing product name"})
			rowValid = false
		} else {
			products[row.Product]++
		}

		if row.Quantity <= 0 {
			result.Errors = append(result.Errors, ValidationError{
				Row: rowNumber, Field: "quantity", Value: row.Quantity, Message: "quantity must be greater than zero",
			})
			rowValid = false
		} else {
			totalQuantity += row.Quantity
		}

		if row.Price < 0 {
			result.Errors = append(result.Errors, ValidationError{
				Row: rowNumber, Field: "price", Value: row.Price, Message: "price cannot be negative",
			})
			rowValid = false
		} else {
			totalPrice += row.Price
		}

		if rowValid {
			validRows++
			totalRevenue = totalRevenue.Add(row.Revenue())
		}
	}

	stats := ValidationStats{
		TotalRows:      len(rows),
		ValidRows:      validRows,
		InvalidRows:    len(rows) - validRows,
		UniqueProducts: len(products),
		DateRange:      dateRange(dates, now),
		TotalRevenue:   totalRevenue,
	}
	if validRows > 0 {
		stats.Averages.Quantity = totalQuantity / float64(validRows)
		stats.Averages.Price = totalPrice / float64(validRows)
	}

	result.Stats = stats
	result.Warnings = warnings(rows, products, stats)
	result.Valid = len(result.Errors) == 0 && validRows > 0

	return result
}

func dateRange(dates []time.Time, now time.Time) DateRange {
	if len(dates) == 0 {
		return DateRange{Min: now, Max: now}
	}

	earliest, latest := dates[0], dates[0]
	for _, d := range dates[1:] {
		if d.Before(earliest) {
			earliest = d
		}
		if d.After(latest) {
			latest = d
		}
	}

	return DateRange{Min: earliest, Max: latest, Days: int(latest.Sub(earliest).Hours()/24) + 1}
}

func warnings(rows []domain.CanonicalSalesRow, products map[string]int, stats ValidationStats) []ValidationWarning {
	out := []ValidationWarning{}

	priceZero := 0
	for _, r := range rows {
		if r.Price == 0 {
			priceZero++
		}
	}
	if priceZero > 0 {
		out = append(out, ValidationWarning{
			Type:    WarningPriceZero,
			Message: fmt.Sprintf("%d row(s) have a zero price. Revenue analysis may be affected.", priceZero),
			Count:   priceZero,
		})
	}

	if stats.DateRange.Days < minHistoryDays {
		out = append(out, ValidationWarning{
			Type: WarningDateRange,
			Message: fmt.Sprintf("Only %d day(s) of history. At least %d days are recommended for accurate forecasts.",
				stats.DateRange.Days, minHistoryDays),
			Count: 1,
		})
	}

	lowData := 0
	for _, n := range products {
		if n < minProductPoints {
			lowData++
		}
	}
	if lowData > 0 {
		out = append(out, ValidationWarning{
			Type: WarningProductLowData,
			Message: fmt.Sprintf("%d product(s) have fewer than %d data points. Their forecasts may be less accurate.",
				lowData, minProductPoints),
			Count: lowData,
		})
	}

	if stats.Averages.Quantity > 0 {
		threshold := stats.Averages.Quantity * highValueMultiplier
		n := 0
		for _, r := range rows {
			if r.Quantity > threshold {
				n++
			}
		}
		if n > 0 {
			out = append(out, ValidationWarning{
				Type: WarningHighValues,
				Message: fmt.Sprintf("%d row(s) have very high quantities (>10x the average of %.1f). Check for typos.",
					n, stats.Averages.Quantity),
				Count: n,
			})
		}
	}

	if stats.Averages.Price > 0 {
		threshold := stats.Averages.Price * highValueMultiplier
		n := 0
		for _, r := range rows {
			if r.Price > threshold {
				n++
			}
		}
		if n > 0 {
			out = append(out, ValidationWarning{
				Type: WarningHighValues,
				Message: fmt.Sprintf("%d row(s) have very high prices (>10x the average of %.2f). Check for typos.",
					n, stats.Averages.Price),
				Count: n,
			})
		}
	}

	if stats.UniqueProducts < minUniqueProducts {
		out = append(out, ValidationWarning{
			Type: WarningLowData,
			Message: fmt.Sprintf("Only %d unique product(s) found. Data from several products gives a fuller analysis.",
				stats.UniqueProducts),
			Count: stats.UniqueProducts,
		})
	}

	return out
}
