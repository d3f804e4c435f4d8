package dto

import "time"

type ProfileResponseDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CpfCnpj   string    `json:"cpf_cnpj,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateProfileDTO carries a partial update; nil fields are left untouched.
type UpdateProfileDTO struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	CpfCnpj *string `json:"cpf_cnpj,omitempty"`
}
