package affiliations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marketsaas/marketsaas/internal/domain"
	"github.com/marketsaas/marketsaas/internal/dto"
	"github.com/marketsaas/marketsaas/internal/service/affiliationservice"
	"github.com/marketsaas/marketsaas/pkg/auth"
	"github.com/marketsaas/marketsaas/pkg/utils"
)

type Service interface {
	Request(ctx context.Context, userID, productID string) (*affiliationservice.RequestResult, error)
	SetStatus(ctx context.Context, reviewerID, affiliationID string, status domain.AffiliationStatus) error
	ListForUser(ctx context.Context, userID string) ([]domain.Affiliation, error)
}

type AffiliationHandler struct {
	affiliationService Service
}

func New(affiliationService Service) *AffiliationHandler {
	return &AffiliationHandler{
		affiliationService: affiliationService,
	}
}

// RequestAffiliation godoc
//
//	@Summary		Request affiliation to a product
//	@Description	Creates a pending (or auto-approved) affiliation; repeating the request is a no-op
//	@Tags			Affiliations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.RequestAffiliationDTO	true	"Affiliation request body"
//	@Success		200		{object}	dto.RequestAffiliationResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		404		{object}	utils.Response	"Product not found"
//	@Security		BearerAuth
//	@Router			/api/affiliations [post]
func (h *AffiliationHandler) RequestAffiliation(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(auth.UserIDKey).(string)

	var req dto.RequestAffiliationDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.affiliationService.Request(r.Context(), userID, req.ProductID)
	if err != nil {
		if errors.Is(err, affiliationservice.ErrProductNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.RequestAffiliationResponseDTO{
		AffiliationID:    result.AffiliationID,
		Status:           string(result.Status),
		AlreadyRequested: result.AlreadyRequested,
	})
}

// SetAffiliationStatus godoc
//
//	@Summary		Approve or reject a pending affiliation
//	@Description	Only the product owner can review; only pending affiliations accept a review
//	@Tags			Affiliations
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Affiliation id"
//	@Param			request	body		dto.SetAffiliationStatusDTO	true	"Target status"
//	@Success		200		{object}	utils.Response
//	@Failure		400		{object}	utils.Response	"Invalid status or transition"
//	@Failure		403		{object}	utils.Response	"Not the product owner"
//	@Failure		404		{object}	utils.Response	"Affiliation not found"
//	@Security		BearerAuth
//	@Router			/api/affiliations/{id}/status [patch]
func (h *AffiliationHandler) SetAffiliationStatus(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(auth.UserIDKey).(string)

	var req dto.SetAffiliationStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.affiliationService.SetStatus(r.Context(), userID, chi.URLParam(r, "id"), domain.AffiliationStatus(req.Status))
	switch {
	case err == nil:
		utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Affiliation " + req.Status})
	case errors.Is(err, affiliationservice.ErrInvalidStatus), errors.Is(err, affiliationservice.ErrInvalidTransition):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, affiliationservice.ErrNotProductOwner):
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, affiliationservice.ErrNotFound), errors.Is(err, affiliationservice.ErrProductNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// GetAffiliations godoc
//
//	@Summary		List the authenticated user's affiliations
//	@Tags			Affiliations
//	@Produce		json
//	@Success		200	{array}	dto.AffiliationResponseDTO
//	@Failure		401	{object}	utils.Response	"Unauthorized"
//	@Security		BearerAuth
//	@Router			/api/affiliations [get]
func (h *AffiliationHandler) GetAffiliations(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(auth.UserIDKey).(string)

	affiliations, err := h.affiliationService.ListForUser(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]dto.AffiliationResponseDTO, 0, len(affiliations))
	for _, a := range affiliations {
		response = append(response, dto.AffiliationResponseDTO{
			ID:           a.ID,
			UserID:       a.UserID,
			ProductID:    a.ProductID,
			Status:       string(a.Status),
			ReferralCode: a.ReferralCode,
			CreatedAt:    a.CreatedAt,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}
