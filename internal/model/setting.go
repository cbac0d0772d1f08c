package model

// Budget setting keys
const (
	SettingTotalCapexBudget    = "total_capex_budget"
	SettingMonthlyCapexLimit   = "monthly_capex_limit"
	SettingTotalBillingBudget  = "total_billing_budget"
	SettingMonthlyBillingLimit = "monthly_billing_limit"
)

// Setting is a key/value configuration row. Budgets are advisory only:
// exceeding them produces warnings, never hard failures.
type Setting struct {
	Key   string `gorm:"type:varchar(100);primaryKey" json:"key"`
	Value string `gorm:"type:varchar(255);not null" json:"value"`
}
