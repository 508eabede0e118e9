package domain

// UrgencyCount is the summary card data for one urgency level
type UrgencyCount struct {
	Level string `json:"level"`
	Count int    `json:"count"`
}

// SupplyChainSummary aggregates the supply-chain view of an analysis
type SupplyChainSummary struct {
	AnalysisID          string         `json:"analysis_id"`
	TotalProducts       int            `json:"total_products"`
	ProductsWithDemand  int            `json:"products_with_demand"`
	UrgencyCounts       []UrgencyCount `json:"urgency_counts"`
	TotalSuggestedUnits int            `json:"total_suggested_units"`
	MoqAlerts           int            `json:"moq_alerts"`
}
