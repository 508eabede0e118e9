package supplychain

import (
	"math"
	"time"

	"github.com/Adriano-luizello/Profeta-sub001/internal/domain"
)

// Metrics is the per-product supply-chain snapshot. It is a disposable view
// recomputed from the demand signal and the current policy.
type Metrics struct {
	ProductID         string       `json:"product_id"`
	ProductName       string       `json:"product_name"`
	SupplierName      *string      `json:"supplier_name"`
	AnalysisID        string       `json:"analysis_id"`
	CurrentStock      *int         `json:"current_stock"`
	AvgDailyDemand    *float64     `json:"avg_daily_demand"`
	LeadTimeDays      int          `json:"lead_time_days"`
	MOQ               int          `json:"moq"`
	SafetyStock       *int         `json:"safety_stock"`
	ReorderPoint      *int         `json:"reorder_point"`
	DaysUntilStockout *int         `json:"days_until_stockout"`
	StockoutDate      *string      `json:"stockout_date"`
	UrgencyLevel      UrgencyLevel `json:"urgency_level"`
	UrgencyReason     string       `json:"urgency_reason"`
	SuggestedOrderQty *int         `json:"suggested_order_qty"`
	MoqAlert          *string      `json:"moq_alert"`
}

// BuildMetrics computes the ranked supply-chain view of an analysis. Supplier
// lead time and MOQ override the organization policy per product. now anchors
// the stockout date.
func BuildMetrics(analysisID string, products []domain.ProductDemand, p Params, now time.Time) []Metrics {
	out := make([]Metrics, 0, len(products))
	for _, product := range products {
		out = append(out, buildProductMetrics(analysisID, product, p, now))
	}

	SortByUrgency(out)

	return out
}

func buildProductMetrics(analysisID string, product domain.ProductDemand, p Params, now time.Time) Metrics {
	productParams := p
	if product.SupplierLeadTimeDays != nil {
		productParams.LeadTimeDays = *product.SupplierLeadTimeDays
	}
	if product.SupplierMOQ != nil {
		productParams.MOQ = *product.SupplierMOQ
	}

	m := Metrics{
		ProductID:    product.ProductID,
		ProductName:  product.ProductName,
		SupplierName: product.SupplierName,
		AnalysisID:   analysisID,
		CurrentStock: product.CurrentStock,
		LeadTimeDays: productParams.LeadTimeDays,
		MOQ:          productParams.MOQ,
	}

	// Zero demand carries no signal and is reported like missing demand
	if product.AvgDailyDemand == nil || *product.AvgDailyDemand <= 0 {
		urgency := ClassifyUrgency(nil, productParams.LeadTimeDays)
		m.UrgencyLevel = urgency.Level
		m.UrgencyReason = urgency.Reason
		return m
	}

	demand := *product.AvgDailyDemand
	m.AvgDailyDemand = &demand

	result := Compute(demand, productParams, product.CurrentStock)
	m.SafetyStock = &result.SafetyStock
	m.ReorderPoint = &result.ReorderPoint
	m.SuggestedOrderQty = &result.SuggestedOrderQty

	var rawOrderQty *int
	if product.CurrentStock != nil {
		days := int(math.Floor(float64(*product.CurrentStock) / demand))
		m.DaysUntilStockout = &days

		date := now.AddDate(0, 0, days).Format("2006-01-02")
		m.StockoutDate = &date

		raw := max(result.ReorderPoint-*product.CurrentStock, 0)
		rawOrderQty = &raw
	}

	urgency := ClassifyUrgency(m.DaysUntilStockout, productParams.LeadTimeDays)
	m.UrgencyLevel = urgency.Level
	m.UrgencyReason = urgency.Reason
	m.MoqAlert = MoqAlert(rawOrderQty, productParams.MOQ, Consumption90d(m.AvgDailyDemand), m.AvgDailyDemand)

	return m
}

// Summarize aggregates metrics into the dashboard summary cards
func Summarize(analysisID string, metrics []Metrics) domain.SupplyChainSummary {
	counts := make(map[UrgencyLevel]int, len(urgencyRank))
	summary := domain.SupplyChainSummary{
		AnalysisID:    analysisID,
		TotalProducts: len(metrics),
	}

	for _, m := range metrics {
		counts[m.UrgencyLevel]++
		if m.AvgDailyDemand != nil {
			summary.ProductsWithDemand++
		}
		if m.MoqAlert != nil {
			summary.MoqAlerts++
		}
		if m.SuggestedOrderQty != nil && m.UrgencyLevel != UrgencyOK {
			summary.TotalSuggestedUnits += *m.SuggestedOrderQty
		}
	}

	for _, level := range Levels() {
		summary.UrgencyCounts = append(summary.UrgencyCounts, domain.UrgencyCount{
			Level: string(level),
			Count: counts[level],
		})
	}

	return summary
}
