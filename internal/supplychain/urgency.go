package supplychain

import (
	"fmt"
	"sort"
)

// UrgencyLevel ranks how soon a stockout happens relative to lead time
type UrgencyLevel string

const (
	UrgencyCritical    UrgencyLevel = "critical"
	UrgencyAttention   UrgencyLevel = "attention"
	UrgencyInformative UrgencyLevel = "informative"
	UrgencyOK          UrgencyLevel = "ok"
)

// Fixed policy offsets. They are deliberately independent of StockoutWarningDays.
const (
	attentionWindowDays   = 7
	informativeWindowDays = 14
)

var urgencyRank = map[UrgencyLevel]int{
	UrgencyCritical:    0,
	UrgencyAttention:   1,
	UrgencyInformative: 2,
	UrgencyOK:          3,
}

// Levels lists the urgency levels from most to least urgent
func Levels() []UrgencyLevel {
	return []UrgencyLevel{UrgencyCritical, UrgencyAttention, UrgencyInformative, UrgencyOK}
}

// Rank orders levels, critical first. Unknown levels sort after ok.
func (l UrgencyLevel) Rank() int {
	if r, ok := urgencyRank[l]; ok {
		return r
	}

	return len(urgencyRank)
}

// Urgency is a classification with its explanation
type Urgency struct {
	Level  UrgencyLevel `json:"urgency_level"`
	Reason string       `json:"urgency_reason"`
}

// ClassifyUrgency maps days until stockout to an urgency level. The rules are
// evaluated in order and the first match wins. Unknown days are not alarming.
func ClassifyUrgency(daysUntilStockout *int, leadTimeDays int) Urgency {
	if daysUntilStockout == nil {
		return Urgency{Level: UrgencyOK, Reason: "insufficient data to assess urgency"}
	}

	days := *daysUntilStockout
	switch {
	case days <= 0:
		return Urgency{Level: UrgencyCritical, Reason: "already out of stock"}
	case days < leadTimeDays:
		return Urgency{
			Level:  UrgencyCritical,
			Reason: fmt.Sprintf("stockout is unavoidable even ordering today: %d days without stock", leadTimeDays-days),
		}
	case days < leadTimeDays+attentionWindowDays:
		return Urgency{
			Level:  UrgencyAttention,
			Reason: fmt.Sprintf("ordering window closing in %d days", days-leadTimeDays),
		}
	case days < leadTimeDays+informativeWindowDays:
		return Urgency{
			Level:  UrgencyInformative,
			Reason: fmt.Sprintf("comfortable for ~%d days, monitor", days),
		}
	default:
		return Urgency{Level: UrgencyOK, Reason: fmt.Sprintf("comfortable for %d days", days)}
	}
}

// lessUrgent reports whether a ranks before b: by level, then by ascending
// days until stockout with unknown days last.
func lessUrgent(aLevel UrgencyLevel, aDays *int, bLevel UrgencyLevel, bDays *int) bool {
	if aLevel.Rank() != bLevel.Rank() {
		return aLevel.Rank() < bLevel.Rank()
	}
	if aDays == nil {
		return false
	}
	if bDays == nil {
		return true
	}

	return *aDays < *bDays
}

// SortByUrgency ranks metrics in place, most urgent first. Equal keys keep
// their input order.
func SortByUrgency(metrics []Metrics) {
	sort.SliceStable(metrics, func(i, j int) bool {
		return lessUrgent(metrics[i].UrgencyLevel, metrics[i].DaysUntilStockout,
			metrics[j].UrgencyLevel, metrics[j].DaysUntilStockout)
	})
}
