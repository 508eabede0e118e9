package csvadapter

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ValueType says what the cells of a wide sheet measure
type ValueType string

const (
	ValueQuantity ValueType = "quantity"
	ValueRevenue  ValueType = "revenue"
)

// UnpivotConfig is the confirmed mapping of a wide sheet
type UnpivotConfig struct {
	ProductColumn   string    `json:"product_column"`
	DateColumns     []string  `json:"date_columns"`
	ValueType       ValueType `json:"value_type"`
	PreserveColumns []string  `json:"preserve_columns"`
}

// LongRow is one product × month observation produced by Unpivot. Price is
// always 0; it is unknown in wide sheets and back-filled downstream.
type LongRow struct {
	Date      string
	Product   string
	Price     float64
	Quantity  *float64
	Revenue   *float64
	Preserved map[string]any
}

// UnpivotStats counts what happened to the input
type UnpivotStats struct {
	OriginalRows int `json:"original_rows"`
	ResultRows   int `json:"result_rows"`
	SkippedEmpty int `json:"skipped_empty"`
}

// UnpivotResult is the long-format output of a wide sheet
type UnpivotResult struct {
	Data  []LongRow    `json:"data"`
	Stats UnpivotStats `json:"stats"`
}

var (
	nonNumericChars = regexp.MustCompile(`[^\d.,-]`)
	numericPrefix   = regexp.MustCompile(`^-?(\d+(\.\d*)?|\.\d+)`)
)

// Unpivot expands a wide sheet into one row per product and month. Empty,
// zero and unparsable cells are skipped and counted, never emitted as zero
// demand. rows is not modified.
func Unpivot(rows []RawRow, cfg UnpivotConfig) (*UnpivotResult, error) {
	if strings.TrimSpace(cfg.ProductColumn) == "" {
		return nil, &ConfigError{Field: "product_column", Message: "is required"}
	}
	if len(cfg.DateColumns) == 0 {
		return nil, &ConfigError{Field: "date_columns", Message: "must not be empty"}
	}
	if len(rows) == 0 {
		return nil, &DataError{Message: "input has no rows"}
	}

	// Schema is taken from the first row
	first := rows[0]
	if _, ok := first[cfg.ProductColumn]; !ok {
		return nil, &ConfigError{Field: "product_column", Column: cfg.ProductColumn, Message: "not found in sheet"}
	}
	for _, col := range cfg.DateColumns {
		if _, ok := first[col]; !ok {
			return nil, &ConfigError{Field: "date_columns", Column: col, Message: "not found in sheet"}
		}
		if !IsMonthColumn(col) {
			return nil, &ConfigError{Field: "date_columns", Column: col, Message: "is not in YYYY-MM format"}
		}
	}

	valueType := cfg.ValueType
	if valueType == "" {
		valueType = ValueQuantity
	}

	result := &UnpivotResult{Data: make([]LongRow, 0, len(rows)*len(cfg.DateColumns))}

	for _, row := range rows {
		product := strings.TrimSpace(cellString(row[cfg.ProductColumn]))
		if product == "" {
			continue
		}

		var preserved map[string]any
		for _, col := range cfg.PreserveColumns {
			v, ok := row[col]
			if !ok || v == nil || v == "" {
				continue
			}
			if preserved == nil {
				preserved = make(map[string]any, len(cfg.PreserveColumns))
			}
			preserved[col] = v
		}

		for _, col := range cfg.DateColumns {
			value, ok := parseNumericValue(row[col])
			if !ok {
				result.Stats.SkippedEmpty++
				continue
			}

			out := LongRow{
				Date:      strings.TrimSpace(col) + "-01",
				Product:   product,
				Preserved: preserved,
			}
			if valueType == ValueRevenue {
				out.Revenue = &value
			} else {
				out.Quantity = &value
			}
			result.Data = append(result.Data, out)
		}
	}

	result.Stats.OriginalRows = len(rows)
	result.Stats.ResultRows = len(result.Data)

	return result, nil
}

// parseNumericValue reads a wide-sheet cell. Everything but digits, comma,
// period and minus is stripped, the first comma becomes the decimal point and
// the longest numeric prefix is parsed. Empty, zero and invalid cells are
// reported as no data.
func parseNumericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		return numericCell(n)
	case float32:
		return numericCell(float64(n))
	case int:
		return float64(n), n != 0
	case int64:
		return float64(n), n != 0
	}

	s := strings.TrimSpace(cellString(v))
	if s == "" {
		return 0, false
	}
	s = nonNumericChars.ReplaceAllString(s, "")
	s = strings.Replace(s, ",", ".", 1)

	f, ok := parseFloatPrefix(s)
	if !ok || f == 0 {
		return 0, false
	}

	return f, true
}

func numericCell(f float64) (float64, bool) {
	if f == 0 || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// parseFloatPrefix parses the longest leading decimal number of s
func parseFloatPrefix(s string) (float64, bool) {
	m := numericPrefix.FindString(s)
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}

	return f, true
}

// cellString renders a cell the way it would appear in a CSV
func cellString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	default:
		return fmt.Sprint(v)
	}
}

// MarshalJSON flattens preserved columns next to the canonical fields
func (r LongRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any(r.RawRow()))
}

// RawRow converts the row back into a sheet row so it can go through Transform.
// A preserved column named like a canonical field is overwritten by it.
func (r LongRow) RawRow() RawRow {
	out := make(RawRow, len(r.Preserved)+4)
	for k, v := range r.Preserved {
		out[k] = v
	}
	out["date"] = r.Date
	out["product"] = r.Product
	out["price"] = r.Price
	if r.Quantity != nil {
		out["quantity"] = *r.Quantity
	}
	if r.Revenue != nil {
		out["revenue"] = *r.Revenue
	}

	return out
}
