package profile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/marketsaas/marketsaas/internal/domain"
	"github.com/marketsaas/marketsaas/internal/dto"
	"github.com/marketsaas/marketsaas/internal/service/profileservice"
	"github.com/marketsaas/marketsaas/pkg/auth"
	"github.com/marketsaas/marketsaas/pkg/utils"
)

type Service interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	Update(ctx context.Context, userID string, name, phone, cpfCnpj *string) (*domain.Profile, error)
}

type ProfileHandler struct {
	profileService Service
}

func New(profileService Service) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

func toResponse(profile *domain.Profile) dto.ProfileResponseDTO {
	return dto.ProfileResponseDTO{
		ID:        profile.ID,
		Name:      profile.Name,
		Email:     profile.Email,
		Phone:     profile.Phone,
		CpfCnpj:   profile.CpfCnpj,
		CreatedAt: profile.CreatedAt,
		UpdatedAt: profile.UpdatedAt,
	}
}

// GetProfile godoc
//
//	@Summary		Get the authenticated user's profile
//	@Tags			Profile
//	@Produce		json
//	@Success		200	{object}	dto.ProfileResponseDTO
//	@Failure		404	{object}	utils.Response	"Profile not found"
//	@Security		BearerAuth
//	@Router			/api/profile [get]
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(auth.UserIDKey).(string)

	profile, err := h.profileService.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, profileservice.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toResponse(profile))
}

// UpdateProfile godoc
//
//	@Summary		Partially update the authenticated user's profile
//	@Description	Omitted fields keep their stored value; email cannot change here
//	@Tags			Profile
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.UpdateProfileDTO	true	"Fields to change"
//	@Success		200		{object}	dto.ProfileResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		404		{object}	utils.Response	"Profile not found"
//	@Security		BearerAuth
//	@Router			/api/profile [patch]
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(auth.UserIDKey).(string)

	var req dto.UpdateProfileDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.profileService.Update(r.Context(), userID, req.Name, req.Phone, req.CpfCnpj)
	if err != nil {
		if errors.Is(err, profileservice.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toResponse(updated))
}
