package recommendation

import (
	"fmt"

	"github.com/Adriano-luizello/Profeta-sub001/internal/supplychain"
)

// Action is what the generator advises for a product
type Action string

const (
	ActionRestock       Action = "restock"
	ActionUrgentRestock Action = "urgent_restock"
	ActionMaintain      Action = "maintain"
	// ActionReduce is reserved for a slow-mover policy. Generate never emits it.
	ActionReduce Action = "reduce"
)

// Priority is the UI ordering hint. high means order today.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Input is the demand signal for one product
type Input struct {
	ProductID      string  `json:"product_id"`
	ProductName    string  `json:"product_name"`
	AvgDailyDemand float64 `json:"avg_daily_demand"`
	CurrentStock   *int    `json:"current_stock"`
	// Supplier terms replace the policy lead time and MOQ when set
	LeadTimeDays *int `json:"lead_time_days,omitempty"`
	MOQ          *int `json:"moq,omitempty"`
}

// GeneratedRecommendation is the actionable output for one product
type GeneratedRecommendation struct {
	ProductID           string   `json:"product_id"`
	ProductName         string   `json:"product_name"`
	Action              Action   `json:"action"`
	RecommendedQuantity *int     `json:"recommended_quantity"`
	Priority            Priority `json:"priority"`
	Reasoning           string   `json:"reasoning"`
	ReorderPoint        int      `json:"reorder_point"`
	SafetyStock         int      `json:"safety_stock"`
	SuggestedOrderQty   int      `json:"suggested_order_qty"`
	IsAlert             bool     `json:"is_alert"`
}

// IsRestock reports whether the action asks for a purchase
func (a Action) IsRestock() bool {
	return a == ActionRestock || a == ActionUrgentRestock
}

// Generate turns demand inputs into one recommendation each, in input order
func Generate(inputs []Input, p supplychain.Params) []GeneratedRecommendation {
	out := make([]GeneratedRecommendation, 0, len(inputs))
	for _, in := range inputs {
		out = append(out, generateOne(in, p))
	}

	return out
}

func generateOne(in Input, p supplychain.Params) GeneratedRecommendation {
	if in.LeadTimeDays != nil {
		p.LeadTimeDays = *in.LeadTimeDays
	}
	if in.MOQ != nil {
		p.MOQ = *in.MOQ
	}

	sc := supplychain.Compute(in.AvgDailyDemand, p, in.CurrentStock)

	// The MOQ floor makes the first clause hold for almost any input, so the
	// stock comparison is the effective gate.
	needsReorder := sc.SuggestedOrderQty >= p.MOQ &&
		(in.CurrentStock == nil || *in.CurrentStock < sc.ReorderPoint)

	rec := GeneratedRecommendation{
		ProductID:         in.ProductID,
		ProductName:       in.ProductName,
		Action:            ActionMaintain,
		Priority:          PriorityLow,
		ReorderPoint:      sc.ReorderPoint,
		SafetyStock:       sc.SafetyStock,
		SuggestedOrderQty: sc.SuggestedOrderQty,
		Reasoning:         fmt.Sprintf("Stock within expected range. Reorder point %d units.", sc.ReorderPoint),
	}

	if !needsReorder {
		return rec
	}

	rec.Action = ActionRestock
	rec.Priority = PriorityMedium
	if in.CurrentStock != nil && *in.CurrentStock < p.MOQ {
		rec.Action = ActionUrgentRestock
		rec.Priority = PriorityHigh
	}

	qty := sc.SuggestedOrderQty
	rec.RecommendedQuantity = &qty
	rec.IsAlert = rec.Action.IsRestock()
	rec.Reasoning = fmt.Sprintf("Average demand %.1f/day. Reorder point %d units, safety stock %d units. Suggested order: %d units (MOQ %d).",
		sc.AvgDailyDemand, sc.ReorderPoint, sc.SafetyStock, sc.SuggestedOrderQty, p.MOQ)

	return rec
}

// FromMetrics builds generator inputs from a supply-chain view, skipping
// products with no demand signal. Each input keeps the lead time and MOQ the
// view was computed with.
func FromMetrics(metrics []supplychain.Metrics) []Input {
	inputs := make([]Input, 0, len(metrics))
	for _, m := range metrics {
		if m.AvgDailyDemand == nil {
			continue
		}
		inputs = append(inputs, Input{
			ProductID:      m.ProductID,
			ProductName:    m.ProductName,
			AvgDailyDemand: *m.AvgDailyDemand,
			CurrentStock:   m.CurrentStock,
			LeadTimeDays:   intPtr(m.LeadTimeDays),
			MOQ:            intPtr(m.MOQ),
		})
	}

	return inputs
}

func intPtr(v int) *int { return &v }
