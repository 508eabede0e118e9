package supplychain

import "math"

// Result holds the calculator output for one product
type Result struct {
	SafetyStock       int     `json:"safety_stock"`
	ReorderPoint      int     `json:"reorder_point"`
	SuggestedOrderQty int     `json:"suggested_order_qty"`
	AvgDailyDemand    float64 `json:"avg_daily_demand"`
}

// round rounds half toward positive infinity
func round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// SafetyStock returns the buffer units held on top of lead-time demand.
// A multiplier of 1.5 holds 50% of the lead-time demand as buffer.
func SafetyStock(avgDailyDemand float64, leadTimeDays int, multiplier float64) int {
	if avgDailyDemand <= 0 || leadTimeDays <= 0 {
		return 0
	}
	extra := math.Max(0, multiplier-1)

	return round(avgDailyDemand * float64(leadTimeDays) * extra)
}

// ReorderPoint is the stock level at which a new order must be placed.
// Lead-time demand is rounded on its own before safety stock is added.
func ReorderPoint(avgDailyDemand float64, leadTimeDays int, safetyStock int) int {
	return round(avgDailyDemand*float64(leadTimeDays)) + safetyStock
}

// RoundUpToMoq rounds qty up to the next multiple of moq. A non-positive
// qty still yields one batch; a non-positive moq voids the constraint.
func RoundUpToMoq(qty float64, moq int) int {
	if moq <= 0 {
		return max(0, round(qty))
	}
	if qty <= 0 {
		return moq
	}
	batches := int(math.Ceil(qty / float64(moq)))

	return batches * moq
}

// Compute runs the calculator for one product. currentStock is nil when the
// stock level is unknown.
func Compute(avgDailyDemand float64, p Params, currentStock *int) Result {
	// 1. Safety stock
	safety := SafetyStock(avgDailyDemand, p.LeadTimeDays, p.SafetyStockMultiplier)

	// 2. Reorder point
	reorder := ReorderPoint(avgDailyDemand, p.LeadTimeDays, safety)

	// 3. Raw quantity: the shortfall when stock is below the reorder point,
	// the full reorder point otherwise
	raw := reorder
	if currentStock != nil && *currentStock < reorder {
		raw = reorder - *currentStock
	}

	// 4. Never suggest less than one MOQ batch
	suggested := RoundUpToMoq(float64(raw), p.MOQ)

	return Result{
		SafetyStock:       safety,
		ReorderPoint:      reorder,
		SuggestedOrderQty: max(p.MOQ, suggested),
		AvgDailyDemand:    avgDailyDemand,
	}
}
