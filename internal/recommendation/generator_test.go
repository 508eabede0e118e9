package recommendation

import (
	"strings"
	"testing"

	"github.com/Adriano-luizello/Profeta-sub001/internal/supplychain"
)

func TestGenerate_UrgentRestockEndToEnd(t *testing.T) {
	p := supplychain.Params{LeadTimeDays: 30, MOQ: 100, SafetyStockMultiplier: 1.5, StockoutWarningDays: 14}
	recs := Generate([]Input{{ProductID: "p1", ProductName: "Widget", AvgDailyDemand: 10, CurrentStock: intPtr(50)}}, p)

	if len(recs) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(recs))
	}
	r := recs[0]
	if r.SafetyStock != 150 || r.ReorderPoint != 450 {
		t.Fatalf("expected safety 150 and reorder 450, got %d / %d", r.SafetyStock, r.ReorderPoint)
	}
	if r.Action != ActionUrgentRestock || r.Priority != PriorityHigh || !r.IsAlert {
		t.Fatalf("expected urgent high alert, got %s / %s / %v", r.Action, r.Priority, r.IsAlert)
	}
	if r.RecommendedQuantity == nil || *r.RecommendedQuantity != 400 {
		t.Fatalf("expected recommended quantity 400, got %v", r.RecommendedQuantity)
	}
	for _, part := range []string{"10.0/day", "Reorder point 450", "safety stock 150", "400 units", "MOQ 100"} {
		if !strings.Contains(r.Reasoning, part) {
			t.Fatalf("reasoning %q does not mention %q", r.Reasoning, part)
		}
	}
}

func TestGenerate_Actions(t *testing.T) {
	p := supplychain.DefaultParams()

	cases := []struct {
		name     string
		input    Input
		action   Action
		priority Priority
		qty      *int
	}{
		{"stock known above moq", Input{AvgDailyDemand: 10, CurrentStock: intPtr(200)}, ActionRestock, PriorityMedium, intPtr(300)},
		{"stock unknown", Input{AvgDailyDemand: 10}, ActionRestock, PriorityMedium, intPtr(500)},
		{"stock above reorder point", Input{AvgDailyDemand: 10, CurrentStock: intPtr(450)}, ActionMaintain, PriorityLow, nil},
		{"zero demand with empty shelf", Input{AvgDailyDemand: 0, CurrentStock: intPtr(0)}, ActionMaintain, PriorityLow, nil},
		{"thin stock", Input{AvgDailyDemand: 1, CurrentStock: intPtr(20)}, ActionUrgentRestock, PriorityHigh, intPtr(100)},
	}
	for _, tc := range cases {
		r := Generate([]Input{tc.input}, p)[0]
		if r.Action != tc.action || r.Priority != tc.priority {
			t.Fatalf("%s: expected %s/%s, got %s/%s", tc.name, tc.action, tc.priority, r.Action, r.Priority)
		}
		if (r.Priority == PriorityHigh) != (r.Action == ActionUrgentRestock) {
			t.Fatalf("%s: high priority must match urgent restock", tc.name)
		}
		if r.IsAlert != r.Action.IsRestock() {
			t.Fatalf("%s: alert flag %v disagrees with action %s", tc.name, r.IsAlert, r.Action)
		}
		if tc.qty == nil {
			if r.RecommendedQuantity != nil {
				t.Fatalf("%s: expected no quantity, got %d", tc.name, *r.RecommendedQuantity)
			}
			if !strings.HasPrefix(r.Reasoning, "Stock within expected range") {
				t.Fatalf("%s: unexpected reasoning %q", tc.name, r.Reasoning)
			}
			continue
		}
		if r.RecommendedQuantity == nil || *r.RecommendedQuantity != *tc.qty {
			t.Fatalf("%s: expected quantity %d, got %v", tc.name, *tc.qty, r.RecommendedQuantity)
		}
	}
}

func TestGenerate_NeverReduces(t *testing.T) {
	p := supplychain.DefaultParams()
	for demand := 0.0; demand < 50; demand += 3.3 {
		for _, stock := range []*int{nil, intPtr(0), intPtr(99), intPtr(100), intPtr(5000)} {
			r := Generate([]Input{{AvgDailyDemand: demand, CurrentStock: stock}}, p)[0]
			if r.Action == ActionReduce {
				t.Fatalf("demand %v produced reduce", demand)
			}
		}
	}
}

func TestFromMetrics_SkipsMissingDemand(t *testing.T) {
	demand := 2.5
	inputs := FromMetrics([]supplychain.Metrics{
		{ProductID: "a", AvgDailyDemand: &demand, CurrentStock: intPtr(3)},
		{ProductID: "b"},
	})
	if len(inputs) != 1 || inputs[0].ProductID != "a" || inputs[0].AvgDailyDemand != 2.5 {
		t.Fatalf("unexpected inputs: %+v", inputs)
	}
}

func TestGenerate_SupplierTerms(t *testing.T) {
	p := supplychain.DefaultParams()
	base := Input{ProductID: "p1", AvgDailyDemand: 15, CurrentStock: intPtr(45)}
	withTerms := base
	withTerms.LeadTimeDays = intPtr(3)
	withTerms.MOQ = intPtr(10)

	recs := Generate([]Input{base, withTerms}, p)
	if recs[0].ReorderPoint != 675 {
		t.Fatalf("expected policy reorder point 675, got %d", recs[0].ReorderPoint)
	}

	want := supplychain.Compute(15, supplychain.Params{LeadTimeDays: 3, MOQ: 10, SafetyStockMultiplier: p.SafetyStockMultiplier, StockoutWarningDays: p.StockoutWarningDays}, intPtr(45))
	r := recs[1]
	if r.ReorderPoint != want.ReorderPoint || r.SuggestedOrderQty != want.SuggestedOrderQty {
		t.Fatalf("expected supplier terms to give %d / %d, got %d / %d", want.ReorderPoint, want.SuggestedOrderQty, r.ReorderPoint, r.SuggestedOrderQty)
	}
	if r.Action.IsRestock() && !strings.Contains(r.Reasoning, "MOQ 10") {
		t.Fatalf("reasoning should quote the supplier MOQ: %q", r.Reasoning)
	}
}

func TestFromMetrics_KeepsSupplierTerms(t *testing.T) {
	demand := 4.0
	inputs := FromMetrics([]supplychain.Metrics{{ProductID: "a", AvgDailyDemand: &demand, LeadTimeDays: 7, MOQ: 12}})
	if inputs[0].LeadTimeDays == nil || *inputs[0].LeadTimeDays != 7 || inputs[0].MOQ == nil || *inputs[0].MOQ != 12 {
		t.Fatalf("expected lead time 7 and moq 12, got %+v", inputs[0])
	}
}
