package csvadapter

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Adriano-luizello/Profeta-sub001/internal/domain"
)

func day(offset int) time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func warningTypes(ws []ValidationWarning) map[WarningType]int {
	out := make(map[WarningType]int)
	for _, w := range ws {
		out[w.Type] += w.Count
	}
	return out
}

func TestValidate_Warnings(t *testing.T) {
	rows := []domain.CanonicalSalesRow{
		{Date: day(0), Product: "A", Quantity: 1, Price: 10},
		{Date: day(10), Product: "A", Quantity: 1, Price: 0},
		{Date: day(20), Product: "B", Quantity: 1, Price: 10},
		{Date: day(30), Product: "B", Quantity: 1, Price: 10},
		{Date: day(40), Product: "B", Quantity: 1, Price: 10},
		{Date: day(50), Product: "B", Quantity: 1, Price: 10},
		{Date: day(60), Product: "B", Quantity: 1, Price: 10},
		{Date: day(70), Product: "B", Quantity: 1, Price: 10},
		{Date: day(80), Product: "B", Quantity: 1, Price: 10},
		{Date: day(84), Product: "B", Quantity: 1, Price: 10},
		{Date: day(85), Product: "B", Quantity: 1, Price: 10},
		{Date: day(86), Product: "B", Quantity: 100, Price: 10},
	}

	res := Validate(rows, day(90))
	if !res.Valid || len(res.Errors) != 0 {
		t.Fatalf("expected valid result, got %+v", res.Errors)
	}
	if res.Stats.UniqueProducts != 2 || res.Stats.DateRange.Days != 87 {
		t.Fatalf("unexpected stats: %+v", res.Stats)
	}
	if !res.Stats.TotalRevenue.Equal(decimal.NewFromInt(1100)) {
		t.Fatalf("expected revenue 1100, got %s", res.Stats.TotalRevenue)
	}

	got := warningTypes(res.Warnings)
	expected := map[WarningType]int{
		WarningPriceZero:      1,
		WarningDateRange:      1,
		WarningProductLowData: 2,
		WarningHighValues:     1,
		WarningLowData:        2,
	}
	for k, v := range expected {
		if got[k] != v {
			t.Fatalf("warning %s expected count %d, got %d (%+v)", k, v, got[k], res.Warnings)
		}
	}
}

func TestValidate_Errors(t *testing.T) {
	rows := []domain.CanonicalSalesRow{
		{Date: day(0), Product: "A", Quantity: 1, Price: 1},
		{Date: day(5), Product: "A", Quantity: 1, Price: 1},
		{Product: "A", Quantity: 1, Price: 1},
		{Date: day(0), Product: "", Quantity: 0, Price: -1},
	}

	res := Validate(rows, day(2))
	if res.Valid {
		t.Fatalf("expected invalid result")
	}
	if res.Stats.ValidRows != 1 || res.Stats.InvalidRows != 3 {
		t.Fatalf("unexpected stats: %+v", res.Stats)
	}
	if len(res.Errors) != 5 {
		t.Fatalf("expected 5 errors, got %+v", res.Errors)
	}
	if res.Errors[0].Row != 2 || res.Errors[0].Message != "date cannot be in the future" {
		t.Fatalf("expected future date error on row 2, got %+v", res.Errors[0])
	}
}

func TestValidate_Empty(t *testing.T) {
	res := Validate(nil, day(0))
	if res.Valid || len(res.Errors) != 1 || res.Errors[0].Field != "data" {
		t.Fatalf("unexpected result for empty input: %+v", res)
	}
}
