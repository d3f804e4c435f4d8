package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductRequestDTO struct {
	Name                  string          `json:"name" example:"CRM Turbo"`
	Description           string          `json:"description,omitempty"`
	Price                 decimal.Decimal `json:"price" example:"97.00"`
	Commission            decimal.Decimal `json:"commission" example:"30"`
	Model                 string          `json:"model" example:"recurring"`
	Status                string          `json:"status" example:"active"`
	ImageURL              string          `json:"image_url,omitempty"`
	VideoURL              string          `json:"video_url,omitempty"`
	WebhookURL            string          `json:"webhook_url,omitempty"`
	GithubURL             string          `json:"github_url,omitempty"`
	AutoApproveAffiliates bool            `json:"auto_approve_affiliates"`
}

type ProductResponseDTO struct {
	ID                    string          `json:"id"`
	OwnerID               string          `json:"owner_id"`
	Name                  string          `json:"name"`
	Description           string          `json:"description,omitempty"`
	Price                 decimal.Decimal `json:"price"`
	Commission            decimal.Decimal `json:"commission"`
	Model                 string          `json:"model"`
	Status                string          `json:"status"`
	ImageURL              string          `json:"image_url,omitempty"`
	VideoURL              string          `json:"video_url,omitempty"`
	WebhookURL            string          `json:"webhook_url,omitempty"`
	GithubURL             string          `json:"github_url,omitempty"`
	AutoApproveAffiliates bool            `json:"auto_approve_affiliates"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}
