package csvadapter

import "testing"

func TestDetect(t *testing.T) {
	cases := []struct {
		name       string
		headers    []string
		format     FormatType
		product    string
		dates      int
		confidence float64
		pattern    string
	}{
		{"wide by sku", []string{"sku", "2024-01", "2024-02", "2024-03", "2024-04"}, FormatWide, "sku", 4, 0.9, PatternWideMonthly},
		{"wide without product column", []string{"2024-01", "2024-02", "2024-03"}, FormatWide, "", 3, 0.9, PatternWideMonthly},
		{"two months is not wide", []string{"produto", "2024-01", "2024-02"}, FormatUnknown, "", 0, 0, PatternNoneMatched},
		{"long", []string{"date", "product", "quantity", "price"}, FormatLong, "product", 1, 0.8, PatternLongRows},
		{"long portuguese", []string{" Data_Venda ", "Produto", "Quantidade", "Preço"}, FormatLong, "Produto", 1, 0.8, PatternLongRows},
		{"unknown", []string{"foo", "bar"}, FormatUnknown, "", 0, 0, PatternNoneMatched},
		{"blank headers", []string{" ", ""}, FormatUnknown, "", 0, 0, PatternEmptyHeaders},
		{"no headers", nil, FormatUnknown, "", 0, 0, PatternEmptyHeaders},
	}
	for _, tc := range cases {
		got := Detect(tc.headers, nil)
		if got.Type != tc.format {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.format, got.Type)
		}
		if got.ProductColumn != tc.product {
			t.Fatalf("%s: expected product column %q, got %q", tc.name, tc.product, got.ProductColumn)
		}
		if len(got.DateColumns) != tc.dates {
			t.Fatalf("%s: expected %d date columns, got %v", tc.name, tc.dates, got.DateColumns)
		}
		if got.Confidence != tc.confidence {
			t.Fatalf("%s: expected confidence %v, got %v", tc.name, tc.confidence, got.Confidence)
		}
		if got.DetectedPattern != tc.pattern {
			t.Fatalf("%s: expected pattern %s, got %s", tc.name, tc.pattern, got.DetectedPattern)
		}
	}
}

func TestDetect_LongMapsOptionalColumns(t *testing.T) {
	got := Detect([]string{"date", "product", "quantity", "price", "categoria", "fornecedor", "estoque"}, nil)

	expected := CSVFormat{
		Type:           FormatLong,
		ProductColumn:  "product",
		QuantityColumn: "quantity",
		PriceColumn:    "price",
		CategoryColumn: "categoria",
		SupplierColumn: "fornecedor",
		StockColumn:    "estoque",
	}
	if got.DateColumns[0] != "date" || got.QuantityColumn != expected.QuantityColumn || got.PriceColumn != expected.PriceColumn ||
		got.CategoryColumn != expected.CategoryColumn || got.SupplierColumn != expected.SupplierColumn || got.StockColumn != expected.StockColumn {
		t.Fatalf("unexpected mapping: %+v", got)
	}

	plain := Detect([]string{"date", "product", "quantity", "price"}, nil)
	if plain.CategoryColumn != "" || plain.SupplierColumn != "" || plain.StockColumn != "" {
		t.Fatalf("expected optional columns to be absent, got %+v", plain)
	}
}

func TestFindColumn_FirstMatchWins(t *testing.T) {
	// "supplier_name" comes first and contains "name", so it wins over "product"
	i, ok := FindColumn([]string{"supplier_name", "product"}, []string{"product", "name"})
	if !ok || i != 0 {
		t.Fatalf("expected first header to win, got %d %v", i, ok)
	}

	i, ok = FindColumn([]string{"Foo", "SKU_Code"}, []string{"sku"})
	if !ok || i != 1 {
		t.Fatalf("expected case-insensitive substring match at 1, got %d %v", i, ok)
	}

	if _, ok := FindColumn([]string{"foo"}, []string{"bar"}); ok {
		t.Fatalf("expected no match")
	}
}

func TestPreserveColumns(t *testing.T) {
	got := PreserveColumns([]string{"produto", "categoria", "2024-01", "fornecedor", "estoque_atual"})
	expected := []string{"categoria", "fornecedor", "estoque_atual"}
	if len(got) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Fatalf("expected %v, got %v", expected, got)
		}
	}
}
