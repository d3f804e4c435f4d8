package metrics

import (
	"context"
	"net/http"

	"github.com/marketsaas/marketsaas/internal/domain"
	"github.com/marketsaas/marketsaas/internal/dto"
	"github.com/marketsaas/marketsaas/pkg/auth"
	"github.com/marketsaas/marketsaas/pkg/utils"
)

type Service interface {
	GetMetrics(ctx context.Context, userID string) (*domain.Metrics, error)
}

type MetricsHandler struct {
	metricsService Service
}

func New(metricsService Service) *MetricsHandler {
	return &MetricsHandler{
		metricsService: metricsService,
	}
}

// GetMetrics godoc
//
//	@Summary		Business metrics for the authenticated user
//	@Description	Recomputed from the ledger on every call; balances respect the holdback window
//	@Tags			Metrics
//	@Produce		json
//	@Success		200	{object}	dto.MetricsResponseDTO
//	@Failure		401	{object}	utils.Response	"Unauthorized"
//	@Security		BearerAuth
//	@Router			/api/metrics [get]
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(auth.UserIDKey).(string)

	metrics, err := h.metricsService.GetMetrics(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.MetricsResponseDTO{
		MRR:              metrics.MRR,
		TotalRevenue:     metrics.TotalRevenue,
		AvailableBalance: metrics.AvailableBalance,
		PendingBalance:   metrics.PendingBalance,
		ActiveClients:    metrics.ActiveClients,
		ChurnRate:        metrics.ChurnRate,
		TotalWithdrawn:   metrics.TotalWithdrawn,
		LTV:              metrics.LTV,
	})
}
