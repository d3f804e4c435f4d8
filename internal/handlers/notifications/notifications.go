package notifications

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marketsaas/marketsaas/internal/domain"
	"github.com/marketsaas/marketsaas/internal/dto"
	"github.com/marketsaas/marketsaas/internal/service/notificationservice"
	"github.com/marketsaas/marketsaas/pkg/auth"
	"github.com/marketsaas/marketsaas/pkg/utils"
)

type Service interface {
	ListFor(ctx context.Context, userID string) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) error
	Clear(ctx context.Context, userID string) error
}

type NotificationHandler struct {
	notificationService Service
}

func New(notificationService Service) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// GetNotifications godoc
//
//	@Summary		List the authenticated user's notifications, newest first
//	@Tags			Notifications
//	@Produce		json
//	@Success		200	{array}	dto.NotificationResponseDTO
//	@Failure		401	{object}	utils.Response	"Unauthorized"
//	@Security		BearerAuth
//	@Router			/api/notifications [get]
func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(auth.UserIDKey).(string)

	notifications, err := h.notificationService.ListFor(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]dto.NotificationResponseDTO, 0, len(notifications))
	for _, n := range notifications {
		response = append(response, dto.NotificationResponseDTO{
			ID:        n.ID,
			Type:      string(n.Type),
			Title:     n.Title,
			Message:   n.Message,
			Data:      n.Data,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// GetUnreadCount godoc
//
//	@Summary		Count unread notifications
//	@Tags			Notifications
//	@Produce		json
//	@Success		200	{object}	dto.UnreadCountResponseDTO
//	@Security		BearerAuth
//	@Router			/api/notifications/unread [get]
func (h *NotificationHandler) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(auth.UserIDKey).(string)

	count, err := h.notificationService.UnreadCount(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.UnreadCountResponseDTO{Unread: count})
}

// MarkRead godoc
//
//	@Summary		Mark one notification as read
//	@Description	Reading is monotonic; marking an already read notification is a no-op
//	@Tags			Notifications
//	@Produce		json
//	@Param			id	path		string	true	"Notification id"
//	@Success		200	{object}	utils.Response
//	@Failure		404	{object}	utils.Response	"Notification not found"
//	@Security		BearerAuth
//	@Router			/api/notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(auth.UserIDKey).(string)

	err := h.notificationService.MarkRead(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, notificationservice.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Notification marked as read"})
}

// MarkAllRead godoc
//
//	@Summary		Mark every notification as read
//	@Tags			Notifications
//	@Produce		json
//	@Success		200	{object}	utils.Response
//	@Security		BearerAuth
//	@Router			/api/notifications/read-all [patch]
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(auth.UserIDKey).(string)

	if err := h.notificationService.MarkAllRead(r.Context(), userID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "All notifications marked as read"})
}

// Clear godoc
//
//	@Summary		Delete every notification in the mailbox
//	@Tags			Notifications
//	@Produce		json
//	@Success		200	{object}	utils.Response
//	@Security		BearerAuth
//	@Router			/api/notifications [delete]
func (h *NotificationHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(auth.UserIDKey).(string)

	if err := h.notificationService.Clear(r.Context(), userID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Notifications cleared"})
}
