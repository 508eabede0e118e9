package supplychain

import "github.com/Adriano-luizello/Profeta-sub001/internal/domain"

const (
	DefaultLeadTimeDays          = 30
	DefaultMOQ                   = 100
	DefaultSafetyStockMultiplier = 1.5
	DefaultStockoutWarningDays   = 14
)

// Params is the per-organization supply-chain policy
type Params struct {
	LeadTimeDays          int     `json:"lead_time_days"`
	MOQ                   int     `json:"moq"`
	SafetyStockMultiplier float64 `json:"safety_stock_multiplier"`
	StockoutWarningDays   int     `json:"stockout_warning_days"`
}

// DefaultParams returns the policy used when an organization has no settings
func DefaultParams() Params {
	return Params{
		LeadTimeDays:          DefaultLeadTimeDays,
		MOQ:                   DefaultMOQ,
		SafetyStockMultiplier: DefaultSafetyStockMultiplier,
		StockoutWarningDays:   DefaultStockoutWarningDays,
	}
}

// ParamsFromSettings maps stored settings onto Params, filling each missing
// field with its default. A zero multiplier is treated as missing.
func ParamsFromSettings(s *domain.Settings) Params {
	return DefaultParams().Overlay(s)
}

// Overlay returns p with every field set in s applied on top
func (p Params) Overlay(s *domain.Settings) Params {
	if s == nil {
		return p
	}

	if s.LeadTimeDays != nil {
		p.LeadTimeDays = *s.LeadTimeDays
	}
	if s.MOQ != nil {
		p.MOQ = *s.MOQ
	}
	if s.SafetyStockMultiplier != nil && *s.SafetyStockMultiplier != 0 {
		p.SafetyStockMultiplier = *s.SafetyStockMultiplier
	}
	if s.StockoutWarningDays != nil {
		p.StockoutWarningDays = *s.StockoutWarningDays
	}

	return p
}

// WithDefaults fills zero-valued fields of a caller-supplied Params
func (p Params) WithDefaults() Params {
	d := DefaultParams()
	if p.LeadTimeDays == 0 {
		p.LeadTimeDays = d.LeadTimeDays
	}
	if p.SafetyStockMultiplier == 0 {
		p.SafetyStockMultiplier = d.SafetyStockMultiplier
	}
	if p.StockoutWarningDays == 0 {
		p.StockoutWarningDays = d.StockoutWarningDays
	}

	return p
}
