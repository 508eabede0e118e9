package supplychain

import (
	"testing"

	"github.com/Adriano-luizello/Profeta-sub001/internal/domain"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestSafetyStock(t *testing.T) {
	cases := []struct {
		name       string
		demand     float64
		lead       int
		multiplier float64
		expected   int
	}{
		{"half buffer", 10, 30, 1.5, 150},
		{"zero demand", 0, 30, 1.5, 0},
		{"negative demand", -1, 30, 2, 0},
		{"zero lead time", 10, 0, 1.5, 0},
		{"no buffer at one", 10, 30, 1.0, 0},
		{"multiplier below one", 10, 30, 0.5, 0},
		{"rounds to nearest", 0.35, 7, 1.5, 1},
		{"half rounds up", 0.5, 5, 2, 3},
	}
	for _, tc := range cases {
		got := SafetyStock(tc.demand, tc.lead, tc.multiplier)
		if got != tc.expected {
			t.Fatalf("%s: SafetyStock(%v, %d, %v) expected %d, got %d", tc.name, tc.demand, tc.lead, tc.multiplier, tc.expected, got)
		}
	}
}

func TestReorderPoint_RoundsLeadTimeDemandSeparately(t *testing.T) {
	cases := []struct {
		demand   float64
		lead     int
		safety   int
		expected int
	}{
		{10, 30, 150, 450},
		{1.25, 2, 1, 4},
		{0.2, 2, 0, 0},
		{0, 30, 0, 0},
	}
	for _, tc := range cases {
		got := ReorderPoint(tc.demand, tc.lead, tc.safety)
		if got != tc.expected {
			t.Fatalf("ReorderPoint(%v, %d, %d) expected %d, got %d", tc.demand, tc.lead, tc.safety, tc.expected, got)
		}
		if got < tc.safety {
			t.Fatalf("ReorderPoint(%v, %d, %d) = %d is below safety stock", tc.demand, tc.lead, tc.safety, got)
		}
	}
}

func TestRoundUpToMoq(t *testing.T) {
	cases := []struct {
		qty      float64
		moq      int
		expected int
	}{
		{0, 100, 100},
		{-3, 50, 50},
		{1, 100, 100},
		{400, 100, 400},
		{401, 100, 500},
		{2.4, 0, 2},
		{2.5, 0, 3},
		{-5, 0, 0},
		{7, -10, 7},
	}
	for _, tc := range cases {
		got := RoundUpToMoq(tc.qty, tc.moq)
		if got != tc.expected {
			t.Fatalf("RoundUpToMoq(%v, %d) expected %d, got %d", tc.qty, tc.moq, tc.expected, got)
		}
	}
}

func TestRoundUpToMoq_MultipleOfMoq(t *testing.T) {
	for _, moq := range []int{1, 7, 12, 100} {
		for qty := 0.5; qty < 500; qty += 13.7 {
			got := RoundUpToMoq(qty, moq)
			if got%moq != 0 {
				t.Fatalf("RoundUpToMoq(%v, %d) = %d is not a multiple", qty, moq, got)
			}
			if got < moq {
				t.Fatalf("RoundUpToMoq(%v, %d) = %d is below one batch", qty, moq, got)
			}
		}
	}
}

func TestCompute(t *testing.T) {
	p := Params{LeadTimeDays: 30, MOQ: 100, SafetyStockMultiplier: 1.5, StockoutWarningDays: 14}

	cases := []struct {
		name      string
		stock     *int
		suggested int
	}{
		{"stock below reorder point orders the shortfall", intPtr(50), 400},
		{"small shortfall floors at one batch", intPtr(440), 100},
		{"unknown stock orders the reorder point", nil, 500},
		{"stock above reorder point still reports a batch", intPtr(900), 500},
	}
	for _, tc := range cases {
		got := Compute(10, p, tc.stock)
		if got.SafetyStock != 150 || got.ReorderPoint != 450 {
			t.Fatalf("%s: expected safety 150 and reorder 450, got %+v", tc.name, got)
		}
		if got.SuggestedOrderQty != tc.suggested {
			t.Fatalf("%s: expected suggested %d, got %d", tc.name, tc.suggested, got.SuggestedOrderQty)
		}
	}
}

func TestParamsFromSettings_FillsMissingFields(t *testing.T) {
	if got := ParamsFromSettings(nil); got != DefaultParams() {
		t.Fatalf("nil settings expected defaults, got %+v", got)
	}

	zero := 0.0
	s := &domain.Settings{LeadTimeDays: intPtr(45), SafetyStockMultiplier: &zero}
	got := ParamsFromSettings(s)
	expected := Params{LeadTimeDays: 45, MOQ: 100, SafetyStockMultiplier: 1.5, StockoutWarningDays: 14}
	if got != expected {
		t.Fatalf("expected %+v, got %+v", expected, got)
	}

	s = &domain.Settings{MOQ: intPtr(0), StockoutWarningDays: intPtr(7), SafetyStockMultiplier: floatPtr(2)}
	got = ParamsFromSettings(s)
	expected = Params{LeadTimeDays: 30, MOQ: 0, SafetyStockMultiplier: 2, StockoutWarningDays: 7}
	if got != expected {
		t.Fatalf("expected %+v, got %+v", expected, got)
	}
}
