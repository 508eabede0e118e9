package csvadapter

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Adriano-luizello/Profeta-sub001/internal/domain"
)

// DateFormat selects how ambiguous day/month dates are read
type DateFormat string

const (
	DateAuto DateFormat = "auto"
	DateDMY  DateFormat = "DD/MM/YYYY"
	DateYMD  DateFormat = "YYYY-MM-DD"
	DateMDY  DateFormat = "MM/DD/YYYY"
)

// Rows dated later than now + futureMargin are skipped
const futureMargin = 24 * time.Hour

// ColumnMapping binds canonical fields to sheet columns. Date, Product,
// Quantity and Price are required; the rest are optional.
type ColumnMapping struct {
	Date     string `json:"date"`
	Product  string `json:"product"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
	Category string `json:"category,omitempty"`
	SKU      string `json:"sku,omitempty"`
	Supplier string `json:"supplier,omitempty"`
	Stock    string `json:"stock,omitempty"`
}

// TransformConfig controls Transform
type TransformConfig struct {
	Mapping          ColumnMapping `json:"mapping"`
	DateFormat       DateFormat    `json:"date_format"`
	DecimalSeparator string        `json:"decimal_separator"`
}

// TransformError describes one rejected row
type TransformError struct {
	Row    int    `json:"row"`
	Field  string `json:"field"`
	Value  any    `json:"value"`
	Reason string `json:"reason"`
}

// TransformStats counts rows by outcome
type TransformStats struct {
	TotalRows   int `json:"total_rows"`
	ValidRows   int `json:"valid_rows"`
	InvalidRows int `json:"invalid_rows"`
	SkippedRows int `json:"skipped_rows"`
}

// TransformResult is the canonical output of a long sheet
type TransformResult struct {
	Data   []domain.CanonicalSalesRow `json:"data"`
	Errors []TransformError           `json:"errors"`
	Stats  TransformStats             `json:"stats"`
}

// MappingFromFormat turns a detected long format into a mapping. The second
// value is false when a required column is missing.
func MappingFromFormat(f CSVFormat) (ColumnMapping, bool) {
	if f.Type != FormatLong || len(f.DateColumns) == 0 {
		return ColumnMapping{}, false
	}
	m := ColumnMapping{
		Date:     f.DateColumns[0],
		Product:  f.ProductColumn,
		Quantity: f.QuantityColumn,
		Price:    f.PriceColumn,
		Category: f.CategoryColumn,
		Supplier: f.SupplierColumn,
		Stock:    f.StockColumn,
	}

	return m, m.Complete()
}

// UnpivotedMapping is the mapping of quantity-valued rows produced by
// LongRow.RawRow. Preserved columns are bound to category, supplier or stock
// by keyword.
func UnpivotedMapping(preserved []string) ColumnMapping {
	m := ColumnMapping{Date: "date", Product: "product", Quantity: "quantity", Price: "price"}

	m.Category = findColumnName(preserved, categoryKeywords)
	m.Supplier = findColumnName(preserved, supplierKeywords)
	m.Stock = findColumnName(preserved, stockKeywords)

	return m
}

// Complete reports whether every required field is mapped
func (m ColumnMapping) Complete() bool {
	return m.Date != "" && m.Product != "" && m.Quantity != "" && m.Price != ""
}

var (
	dayFirstPattern  = regexp.MustCompile(`^(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{4})$`)
	yearFirstPattern = regexp.MustCompile(`^(\d{4})[/\-.](\d{1,2})[/\-.](\d{1,2})$`)
	whitespace       = regexp.MustCompile(`\s`)
	nonDecimalChars  = regexp.MustCompile(`[^\d.-]`)
)

var fallbackLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// Transform applies a confirmed mapping to long rows. Rows that fail a field
// check are reported in Errors; rows dated more than a day after now are
// silently skipped.
func Transform(rows []RawRow, cfg TransformConfig, now time.Time) *TransformResult {
	result := &TransformResult{
		Data:   []domain.CanonicalSalesRow{},
		Errors: []TransformError{},
	}
	if len(rows) == 0 {
		return result
	}

	sep := cfg.DecimalSeparator
	if sep == "" {
		sep = "."
	}
	limit := now.Add(futureMargin)

	for i, row := range rows {
		out, terr := applyMapping(row, cfg, sep)
		if terr != nil {
			terr.Row = i + 1
			result.Errors = append(result.Errors, *terr)
			continue
		}
		if out.Date.After(limit) {
			result.Stats.SkippedRows++
			continue
		}
		result.Data = append(result.Data, out)
	}

	result.Stats.TotalRows = len(rows)
	result.Stats.ValidRows = len(result.Data)
	result.Stats.InvalidRows = len(result.Errors)

	return result
}

func applyMapping(row RawRow, cfg TransformConfig, sep string) (domain.CanonicalSalesRow, *TransformError) {
	var out domain.CanonicalSalesRow
	m := cfg.Mapping

	dateValue := row[m.Date]
	date, ok := ParseDate(cellString(dateValue), cfg.DateFormat)
	if !ok {
		return out, &TransformError{Field: "date", Value: dateValue, Reason: "invalid or missing date"}
	}
	out.Date = date

	productValue := row[m.Product]
	out.Product = strings.TrimSpace(cellString(productValue))
	if out.Product == "" {
		return out, &TransformError{Field: "product", Value: productValue, Reason: "missing product name"}
	}

	quantityValue := row[m.Quantity]
	qty, ok := ParseNumber(quantityValue, sep)
	if !ok || qty <= 0 {
		return out, &TransformError{Field: "quantity", Value: quantityValue, Reason: "quantity must be a number greater than zero"}
	}
	out.Quantity = qty

	priceValue := row[m.Price]
	price, ok := ParseNumber(priceValue, sep)
	if !ok || price < 0 {
		return out, &TransformError{Field: "price", Value: priceValue, Reason: "price must be a number greater than or equal to zero"}
	}
	out.Price = price

	out.Category = optionalText(row, m.Category)
	out.SKU = optionalText(row, m.SKU)
	out.Supplier = optionalText(row, m.Supplier)

	if optionalText(row, m.Stock) != nil {
		if stock, ok := ParseNumber(row[m.Stock], sep); ok && stock >= 0 {
			s := int(math.Floor(stock))
			out.Stock = &s
		}
	}

	return out, nil
}

func optionalText(row RawRow, column string) *string {
	if column == "" {
		return nil
	}
	s := strings.TrimSpace(cellString(row[column]))
	if s == "" {
		return nil
	}

	return &s
}

// ParseDate reads DD/MM/YYYY first, then YYYY-MM-DD, then MM/DD/YYYY when
// that format is requested, then a few ISO-like layouts. Separators may be
// slash, dash or period. Calendar-invalid dates are rejected.
func ParseDate(value string, format DateFormat) (time.Time, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, false
	}

	if m := dayFirstPattern.FindStringSubmatch(s); m != nil {
		if t, ok := calendarDate(m[3], m[2], m[1]); ok {
			return t, true
		}
	}
	if m := yearFirstPattern.FindStringSubmatch(s); m != nil {
		if t, ok := calendarDate(m[1], m[2], m[3]); ok {
			return t, true
		}
	}
	if format == DateMDY {
		if m := dayFirstPattern.FindStringSubmatch(s); m != nil {
			if t, ok := calendarDate(m[3], m[1], m[2]); ok {
				return t, true
			}
		}
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func calendarDate(year, month, day string) (time.Time, bool) {
	y, err1 := strconv.Atoi(year)
	mo, err2 := strconv.Atoi(month)
	d, err3 := strconv.Atoi(day)
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}

	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != mo || t.Day() != d {
		return time.Time{}, false
	}

	return t, true
}

// ParseNumber reads a numeric cell. With a comma separator, periods are
// thousands marks; with a period separator, commas are.
func ParseNumber(v any, decimalSeparator string) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n)
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}

	s := whitespace.ReplaceAllString(cellString(v), "")
	if decimalSeparator == "," {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	s = nonDecimalChars.ReplaceAllString(s, "")

	return parseFloatPrefix(s)
}
