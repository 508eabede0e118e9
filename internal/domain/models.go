package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings holds the organization's supply-chain policy. Nil fields fall back
// to the defaults of the calculator.
type Settings struct {
	OrganizationID        string    `json:"organization_id" db:"organization_id"`
	LeadTimeDays          *int      `json:"lead_time_days" db:"lead_time_days" validate:"omitempty,min=0"`
	MOQ                   *int      `json:"moq" db:"moq" validate:"omitempty,min=0"`
	SafetyStockMultiplier *float64  `json:"safety_stock_multiplier" db:"safety_stock_multiplier" validate:"omitempty,min=0"`
	StockoutWarningDays   *int      `json:"stockout_warning_days" db:"stockout_warning_days" validate:"omitempty,min=0"`
	UpdatedAt             time.Time `json:"updated_at" db:"updated_at"`
}

// Supplier carries per-supplier overrides for lead time and MOQ
type Supplier struct {
	ID             string    `json:"id" db:"id"`
	OrganizationID string    `json:"organization_id" db:"organization_id"`
	Name           string    `json:"name" db:"name"`
	LeadTimeDays   *int      `json:"lead_time_days" db:"lead_time_days"`
	MOQ            *int      `json:"moq" db:"moq"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Analysis is one uploaded file and everything derived from it
type Analysis struct {
	ID             string         `json:"id" db:"id"`
	OrganizationID string         `json:"organization_id" db:"organization_id"`
	FileName       string         `json:"file_name" db:"file_name"`
	Format         string         `json:"format" db:"format"`
	Status         AnalysisStatus `json:"status" db:"status"`
	TotalRows      int            `json:"total_rows" db:"total_rows"`
	TotalProducts  int            `json:"total_products" db:"total_products"`
	ErrorMessage   *string        `json:"error_message,omitempty" db:"error_message"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

// Product is a distinct product of an analysis with its latest demand signal
type Product struct {
	ID             string     `json:"id" db:"id"`
	AnalysisID     string     `json:"analysis_id" db:"analysis_id"`
	Name           string     `json:"name" db:"name"`
	SKU            *string    `json:"sku,omitempty" db:"sku"`
	Category       *string    `json:"category,omitempty" db:"category"`
	SupplierID     *string    `json:"supplier_id,omitempty" db:"supplier_id"`
	CurrentStock   *int       `json:"current_stock" db:"current_stock"`
	AvgDailyDemand *float64   `json:"avg_daily_demand" db:"avg_daily_demand"`
	ForecastedAt   *time.Time `json:"forecasted_at,omitempty" db:"forecasted_at"`
}

// ProductDemand is the per-product input of the supply-chain view: the demand
// signal, the stock snapshot and the supplier overrides joined in.
type ProductDemand struct {
	ProductID            string   `json:"product_id" db:"product_id"`
	ProductName          string   `json:"product_name" db:"product_name"`
	SupplierName         *string  `json:"supplier_name,omitempty" db:"supplier_name"`
	AvgDailyDemand       *float64 `json:"avg_daily_demand" db:"avg_daily_demand"`
	CurrentStock         *int     `json:"current_stock" db:"current_stock"`
	SupplierLeadTimeDays *int     `json:"supplier_lead_time_days,omitempty" db:"supplier_lead_time_days"`
	SupplierMOQ          *int     `json:"supplier_moq,omitempty" db:"supplier_moq"`
}

// CanonicalSalesRow is one product-sale observation after normalization
type CanonicalSalesRow struct {
	Date     time.Time `json:"date" db:"sale_date"`
	Product  string    `json:"product" db:"product"`
	Quantity float64   `json:"quantity" db:"quantity"`
	Price    float64   `json:"price" db:"price"`
	Category *string   `json:"category,omitempty" db:"category"`
	SKU      *string   `json:"sku,omitempty" db:"sku"`
	Supplier *string   `json:"supplier,omitempty" db:"supplier"`
	Stock    *int      `json:"stock,omitempty" db:"stock"`
}

// Revenue returns quantity × price without float accumulation drift
func (r CanonicalSalesRow) Revenue() decimal.Decimal {
	return decimal.NewFromFloat(r.Quantity).Mul(decimal.NewFromFloat(r.Price))
}
