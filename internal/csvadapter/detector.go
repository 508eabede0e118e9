package csvadapter

import (
	"regexp"
	"strings"
)

// FormatType is the detected sheet shape
type FormatType string

const (
	FormatWide    FormatType = "wide"
	FormatLong    FormatType = "long"
	FormatUnknown FormatType = "unknown"
)

// Diagnostic tags set on CSVFormat.DetectedPattern
const (
	PatternEmptyHeaders = "empty_headers"
	PatternWideMonthly  = "wide_monthly_columns"
	PatternLongRows     = "long_date_product_rows"
	PatternNoneMatched  = "no_recognized_pattern"
)

const (
	wideConfidence     = 0.9
	longConfidence     = 0.8
	minWideDateColumns = 3
)

// RawRow is one parsed sheet row keyed by header. Leaves are strings or numbers.
type RawRow map[string]any

// CSVFormat describes a detected sheet shape and the proposed column mapping.
// Optional columns are empty when not found.
type CSVFormat struct {
	Type            FormatType `json:"type"`
	DateColumns     []string   `json:"date_columns"`
	ProductColumn   string     `json:"product_column,omitempty"`
	QuantityColumn  string     `json:"quantity_column,omitempty"`
	PriceColumn     string     `json:"price_column,omitempty"`
	CategoryColumn  string     `json:"category_column,omitempty"`
	SupplierColumn  string     `json:"supplier_column,omitempty"`
	StockColumn     string     `json:"stock_column,omitempty"`
	Confidence      float64    `json:"confidence"`
	DetectedPattern string     `json:"detected_pattern,omitempty"`
}

var monthColumnPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// Keyword sets in Portuguese, English and Spanish. Order matters only within
// FindColumn's header scan, not between keywords.
var (
	wideProductKeywords = []string{"product", "sku", "nome", "name", "produto", "producto", "item"}
	dateKeywords        = []string{"date", "data", "dt", "fecha", "data_venda", "sale_date"}
	productKeywords     = []string{"product", "produto", "sku", "name", "nome", "producto", "item"}
	quantityKeywords    = []string{"quantity", "quantidade", "qty", "units", "sales", "vendas", "cantidad", "unidades"}
	priceKeywords       = []string{"price", "preco", "preço", "valor", "precio", "unit_price", "preco_unitario"}
	categoryKeywords    = []string{"category", "categoria", "categoría", "categoria_produto"}
	supplierKeywords    = []string{"supplier", "fornecedor", "proveedor", "fornecedor_nome"}
	stockKeywords       = []string{"stock", "estoque", "inventory", "inventario", "qty_stock"}
)

// IsMonthColumn reports whether a header names a YYYY-MM period
func IsMonthColumn(header string) bool {
	return monthColumnPattern.MatchString(strings.TrimSpace(header))
}

// FindColumn returns the index of the first header, in header order, that
// equals or contains any keyword. Matching is case-insensitive. An exact
// match later in the list does not beat an earlier substring match.
func FindColumn(headers []string, keywords []string) (int, bool) {
	normalized := make([]string, len(keywords))
	for i, kw := range keywords {
		normalized[i] = strings.ToLower(strings.TrimSpace(kw))
	}

	for i, h := range headers {
		header := strings.ToLower(strings.TrimSpace(h))
		for _, kw := range normalized {
			if header == kw || strings.Contains(header, kw) {
				return i, true
			}
		}
	}

	return -1, false
}

func findColumnName(headers []string, keywords []string) string {
	if i, ok := FindColumn(headers, keywords); ok {
		return headers[i]
	}
	return ""
}

// Detect classifies a sheet as wide, long or unknown from its headers and
// proposes a column mapping. It never fails; unknown means the caller has to
// ask for a manual mapping. sampleRows is accepted for future content probes.
func Detect(headers []string, sampleRows []RawRow) CSVFormat {
	normalized := make([]string, 0, len(headers))
	for _, h := range headers {
		if name := strings.TrimSpace(h); name != "" {
			normalized = append(normalized, name)
		}
	}
	if len(normalized) == 0 {
		return CSVFormat{
			Type:            FormatUnknown,
			DateColumns:     []string{},
			DetectedPattern: PatternEmptyHeaders,
		}
	}

	// Wide: three or more YYYY-MM columns
	var monthColumns []string
	for _, h := range normalized {
		if monthColumnPattern.MatchString(h) {
			monthColumns = append(monthColumns, h)
		}
	}
	if len(monthColumns) >= minWideDateColumns {
		return CSVFormat{
			Type:            FormatWide,
			DateColumns:     monthColumns,
			ProductColumn:   findColumnName(normalized, wideProductKeywords),
			Confidence:      wideConfidence,
			DetectedPattern: PatternWideMonthly,
		}
	}

	// Long: a date column and a product column
	dateColumn := findColumnName(normalized, dateKeywords)
	productColumn := findColumnName(normalized, productKeywords)
	if dateColumn != "" && productColumn != "" {
		return CSVFormat{
			Type:            FormatLong,
			DateColumns:     []string{dateColumn},
			ProductColumn:   productColumn,
			QuantityColumn:  findColumnName(normalized, quantityKeywords),
			PriceColumn:     findColumnName(normalized, priceKeywords),
			CategoryColumn:  findColumnName(normalized, categoryKeywords),
			SupplierColumn:  findColumnName(normalized, supplierKeywords),
			StockColumn:     findColumnName(normalized, stockKeywords),
			Confidence:      longConfidence,
			DetectedPattern: PatternLongRows,
		}
	}

	return CSVFormat{
		Type:            FormatUnknown,
		DateColumns:     []string{},
		DetectedPattern: PatternNoneMatched,
	}
}

// PreserveColumns proposes the optional columns of a wide sheet to carry
// through the unpivot: category, supplier and stock when present.
func PreserveColumns(headers []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, keywords := range [][]string{categoryKeywords, supplierKeywords, stockKeywords} {
		name := findColumnName(headers, keywords)
		if name == "" || seen[name] || IsMonthColumn(name) {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}

	return out
}
