package supplychain

import (
	"fmt"
	"math"
)

// ConsumptionHorizonDays is the projection window of the MOQ advisory
const ConsumptionHorizonDays = 90

// Consumption90d projects demand over the advisory horizon, rounded up.
// Returns nil when demand is unknown or non-positive.
func Consumption90d(avgDailyDemand *float64) *int {
	if avgDailyDemand == nil || *avgDailyDemand <= 0 {
		return nil
	}
	c := int(math.Ceil(*avgDailyDemand * ConsumptionHorizonDays))

	return &c
}

// MoqAlert returns an advisory when an MOQ-sized order is disproportionate
// to need. It never changes urgency. Returns nil when there is nothing to say
// or when any input is missing.
func MoqAlert(rawOrderQty *int, moq int, consumption90d *int, avgDailyDemand *float64) *string {
	if rawOrderQty == nil || consumption90d == nil || avgDailyDemand == nil {
		return nil
	}
	if *avgDailyDemand <= 0 {
		return nil
	}

	months := round(float64(moq) / *avgDailyDemand / 30)

	if *rawOrderQty > 0 && *rawOrderQty < moq {
		msg := fmt.Sprintf("MOQ is %d but only %d units are needed. Buying %d covers ~%d months of stock. "+
			"Consider negotiating a smaller MOQ or accepting the excess.", moq, *rawOrderQty, moq, months)
		return &msg
	}

	if *consumption90d < moq {
		msg := fmt.Sprintf("MOQ (%d) exceeds your 90-day consumption (%d). The minimum order covers ~%d months.",
			moq, *consumption90d, months)
		return &msg
	}

	return nil
}
