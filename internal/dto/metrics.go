package dto

import "github.com/shopspring/decimal"

type MetricsResponseDTO struct {
	MRR              decimal.Decimal `json:"mrr" example:"1200.00"`
	TotalRevenue     decimal.Decimal `json:"total_revenue" example:"3400.00"`
	AvailableBalance decimal.Decimal `json:"available_balance" example:"800.00"`
	PendingBalance   decimal.Decimal `json:"pending_balance" example:"150.00"`
	ActiveClients    int             `json:"active_clients" example:"12"`
	ChurnRate        float64         `json:"churn_rate" example:"4.5"`
	TotalWithdrawn   decimal.Decimal `json:"total_withdrawn" example:"500.00"`
	LTV              decimal.Decimal `json:"ltv" example:"283.33"`
}
