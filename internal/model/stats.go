package model

// DashboardStats aggregates budget consumption for the dashboard cards.
// When a budget is zero the corresponding consumed/remaining figures are
// reported as zero to avoid confusing negative values.
type DashboardStats struct {
	TotalBudget     float64 `json:"total_budget"`
	MonthlyLimit    float64 `json:"monthly_limit"`
	TotalConsumed   float64 `json:"total_consumed"`
	MonthlyConsumed float64 `json:"monthly_consumed"`
	RemainingBudget float64 `json:"remaining_budget"`

	BillingTotalBudget     float64 `json:"billing_total_budget"`
	BillingMonthlyLimit    float64 `json:"billing_monthly_limit"`
	BillingTotalConsumed   float64 `json:"billing_total_consumed"`
	BillingMonthlyConsumed float64 `json:"billing_monthly_consumed"`
	BillingRemainingBudget float64 `json:"billing_remaining_budget"`
}

// MonthlyPoint is a capex amount rolled up per calendar month.
type MonthlyPoint struct {
	Month  string  `json:"month"` // e.g. "Jan"
	Amount float64 `json:"amount"`
}

// QuarterlyPoint is a capex amount rolled up per quarter.
type QuarterlyPoint struct {
	Label   string  `json:"label"` // e.g. "Q3 2026"
	Amount  float64 `json:"amount"`
	SortKey int     `json:"-"` // year*10 + quarter
}

// VendorPoint is a capex amount rolled up per vendor.
type VendorPoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}
