package dto

import "time"

type NotificationResponseDTO struct {
	ID        string            `json:"id"`
	Type      string            `json:"type" example:"affiliation_request"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Data      map[string]string `json:"data,omitempty"`
	Read      bool              `json:"read"`
	CreatedAt time.Time         `json:"created_at"`
}

type UnreadCountResponseDTO struct {
	Unread int `json:"unread"`
}
