package dto

import "time"

type RequestAffiliationDTO struct {
	ProductID string `json:"product_id" example:"27a8f1c2-5b77-4a33-9c05-17e0c2b0f9d1"`
}

type RequestAffiliationResponseDTO struct {
	AffiliationID    string `json:"affiliation_id,omitempty"`
	Status           string `json:"status,omitempty" example:"pending"`
	AlreadyRequested bool   `json:"already_requested"`
}

type SetAffiliationStatusDTO struct {
	Status string `json:"status" example:"approved"`
}

type AffiliationResponseDTO struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	ProductID    string    `json:"product_id"`
	Status       string    `json:"status" example:"approved"`
	ReferralCode string    `json:"referral_code" example:"a81bc81b-27a8f1c2-lxy3k9p0"`
	CreatedAt    time.Time `json:"created_at"`
}
