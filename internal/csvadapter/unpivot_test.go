package csvadapter

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestUnpivot_RoundTrip(t *testing.T) {
	rows := []RawRow{
		{"product": "X", "2024-01": "10", "2024-02": "0", "2024-03": "5,5"},
	}
	cfg := UnpivotConfig{
		ProductColumn: "product",
		DateColumns:   []string{"2024-01", "2024-02", "2024-03"},
		ValueType:     ValueQuantity,
	}

	res, err := Unpivot(rows, cfg)
	if err != nil {
		t.Fatalf("Unpivot error: %v", err)
	}
	if len(res.Data) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(res.Data))
	}
	if res.Stats != (UnpivotStats{OriginalRows: 1, ResultRows: 2, SkippedEmpty: 1}) {
		t.Fatalf("unexpected stats: %+v", res.Stats)
	}

	expected := []struct {
		date string
		qty  float64
	}{{"2024-01-01", 10}, {"2024-03-01", 5.5}}
	for i, e := range expected {
		r := res.Data[i]
		if r.Date != e.date || r.Product != "X" || r.Price != 0 || r.Quantity == nil || *r.Quantity != e.qty || r.Revenue != nil {
			t.Fatalf("row %d expected %s/%v, got %+v", i, e.date, e.qty, r)
		}
	}

	if rows[0]["2024-03"] != "5,5" || len(rows[0]) != 4 {
		t.Fatalf("input was modified: %+v", rows[0])
	}
}

func TestUnpivot_RevenueAndPreserve(t *testing.T) {
	rows := []RawRow{
		{"produto": "  Café  ", "categoria": "Bebidas", "fornecedor": "", "2024-01": "R$ 1.500", "2024-02": "abc", "2024-03": 7.0},
		{"produto": "", "categoria": "x", "fornecedor": "y", "2024-01": "3", "2024-02": "3", "2024-03": "3"},
	}
	cfg := UnpivotConfig{
		ProductColumn:   "produto",
		DateColumns:     []string{"2024-01", "2024-02", "2024-03"},
		ValueType:       ValueRevenue,
		PreserveColumns: []string{"categoria", "fornecedor", "missing"},
	}

	res, err := Unpivot(rows, cfg)
	if err != nil {
		t.Fatalf("Unpivot error: %v", err)
	}
	if res.Stats.OriginalRows != 2 || res.Stats.ResultRows != 2 || res.Stats.SkippedEmpty != 1 {
		t.Fatalf("unexpected stats: %+v", res.Stats)
	}

	first := res.Data[0]
	if first.Product != "Café" || first.Revenue == nil || *first.Revenue != 1.5 || first.Quantity != nil {
		t.Fatalf("unexpected first row: %+v", first)
	}
	if first.Preserved["categoria"] != "Bebidas" {
		t.Fatalf("expected category to be preserved, got %+v", first.Preserved)
	}
	if _, ok := first.Preserved["fornecedor"]; ok {
		t.Fatalf("empty preserved column should be dropped")
	}
	if *res.Data[1].Revenue != 7 {
		t.Fatalf("expected numeric cell to pass through, got %v", *res.Data[1].Revenue)
	}

	b, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var flat map[string]any
	if err := json.Unmarshal(b, &flat); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if flat["date"] != "2024-01-01" || flat["categoria"] != "Bebidas" || flat["revenue"] != 1.5 || flat["price"] != 0.0 {
		t.Fatalf("unexpected json: %s", b)
	}
}

func TestUnpivot_Errors(t *testing.T) {
	rows := []RawRow{{"product": "X", "2024-01": "1"}}

	cases := []struct {
		name     string
		rows     []RawRow
		cfg      UnpivotConfig
		isConfig bool
	}{
		{"missing product column", rows, UnpivotConfig{DateColumns: []string{"2024-01"}}, true},
		{"empty date columns", rows, UnpivotConfig{ProductColumn: "product"}, true},
		{"no rows", nil, UnpivotConfig{ProductColumn: "product", DateColumns: []string{"2024-01"}}, false},
		{"product not in sheet", rows, UnpivotConfig{ProductColumn: "sku", DateColumns: []string{"2024-01"}}, true},
		{"date not in sheet", rows, UnpivotConfig{ProductColumn: "product", DateColumns: []string{"2024-02"}}, true},
		{"date not a month", []RawRow{{"product": "X", "jan": "1"}}, UnpivotConfig{ProductColumn: "product", DateColumns: []string{"jan"}}, true},
	}
	for _, tc := range cases {
		_, err := Unpivot(tc.rows, tc.cfg)
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		var cfgErr *ConfigError
		var dataErr *DataError
		if tc.isConfig {
			if !errors.As(err, &cfgErr) || !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("%s: expected ConfigError, got %T %v", tc.name, err, err)
			}
		} else if !errors.As(err, &dataErr) || !errors.Is(err, ErrNoData) {
			t.Fatalf("%s: expected DataError, got %T %v", tc.name, err, err)
		}
	}

	_, err := Unpivot(rows, UnpivotConfig{ProductColumn: "product", DateColumns: []string{"2024-09"}})
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Column != "2024-09" {
		t.Fatalf("expected error naming the missing column, got %v", err)
	}
}

func TestParseNumericValue(t *testing.T) {
	cases := []struct {
		in       any
		expected float64
		ok       bool
	}{
		{"10", 10, true},
		{"5,5", 5.5, true},
		{"1.234,56", 1.234, true},
		{"  -3 ", -3, true},
		{"R$ 12,90", 12.9, true},
		{"12abc", 12, true},
		{"", 0, false},
		{"0", 0, false},
		{"0,0", 0, false},
		{"abc", 0, false},
		{"-", 0, false},
		{nil, 0, false},
		{0.0, 0, false},
		{math.NaN(), 0, false},
		{float32(2.5), 2.5, true},
		{4, 4, true},
	}
	for _, tc := range cases {
		got, ok := parseNumericValue(tc.in)
		if ok != tc.ok || got != tc.expected {
			t.Fatalf("parseNumericValue(%#v) expected %v/%v, got %v/%v", tc.in, tc.expected, tc.ok, got, ok)
		}
	}
}

func TestUnpivot_NaNCellsAreEmpty(t *testing.T) {
	rows := []RawRow{{"p": "A", "2024-01": math.NaN(), "2024-02": 3.0}}
	res, err := Unpivot(rows, UnpivotConfig{ProductColumn: "p", DateColumns: []string{"2024-01", "2024-02"}})
	if err != nil {
		t.Fatalf("Unpivot error: %v", err)
	}
	if res.Stats.ResultRows != 1 || res.Stats.SkippedEmpty != 1 || *res.Data[0].Quantity != 3 {
		t.Fatalf("expected NaN cell to be skipped, got %+v", res.Stats)
	}
}

func TestLongRowRawRow_CanonicalFieldsWin(t *testing.T) {
	qty := 5.0
	row := LongRow{
		Date:      "2024-01-01",
		Product:   "A",
		Quantity:  &qty,
		Preserved: map[string]any{"price": "9,90", "quantity": "x", "categoria": "C"},
	}

	raw := row.RawRow()
	if raw["price"] != 0.0 || raw["quantity"] != 5.0 || raw["categoria"] != "C" {
		t.Fatalf("unexpected raw row %+v", raw)
	}
}
