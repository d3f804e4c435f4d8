package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type SaleResponseDTO struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	ProducerID       string          `json:"producer_id"`
	AffiliateID      string          `json:"affiliate_id,omitempty"`
	CustomerEmail    string          `json:"customer_email"`
	CustomerName     string          `json:"customer_name,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	Status           string          `json:"status" example:"completed"`
	CreatedAt        time.Time       `json:"created_at"`
}

type TransactionResponseDTO struct {
	ID          string          `json:"id"`
	SaleID      string          `json:"sale_id,omitempty"`
	Type        string          `json:"type" example:"credit"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status" example:"completed"`
	CreatedAt   time.Time       `json:"created_at"`
}
