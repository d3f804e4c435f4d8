package ledger

import (
	"context"
	"net/http"

	"github.com/marketsaas/marketsaas/internal/domain"
	"github.com/marketsaas/marketsaas/internal/dto"
	"github.com/marketsaas/marketsaas/pkg/auth"
	"github.com/marketsaas/marketsaas/pkg/utils"
)

type Service interface {
	ListSales(ctx context.Context, userID string) ([]domain.Sale, error)
	ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error)
}

type LedgerHandler struct {
	ledgerService Service
}

func New(ledgerService Service) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
	}
}

// GetSales godoc
//
//	@Summary		List sales the authenticated user participates in
//	@Description	Returns sales where the user is producer or affiliate, newest first
//	@Tags			Ledger
//	@Produce		json
//	@Success		200	{array}	dto.SaleResponseDTO
//	@Failure		401	{object}	utils.Response	"Unauthorized"
//	@Security		BearerAuth
//	@Router			/api/sales [get]
func (h *LedgerHandler) GetSales(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(auth.UserIDKey).(string)

	sales, err := h.ledgerService.ListSales(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]dto.SaleResponseDTO, 0, len(sales))
	for _, sale := range sales {
		response = append(response, dto.SaleResponseDTO{
			ID:               sale.ID,
			ProductID:        sale.ProductID,
			ProducerID:       sale.ProducerID,
			AffiliateID:      sale.AffiliateID,
			CustomerEmail:    sale.CustomerEmail,
			CustomerName:     sale.CustomerName,
			Amount:           sale.Amount,
			CommissionAmount: sale.CommissionAmount,
			Status:           string(sale.Status),
			CreatedAt:        sale.CreatedAt,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// GetTransactions godoc
//
//	@Summary		List the authenticated user's balance entries
//	@Tags			Ledger
//	@Produce		json
//	@Success		200	{array}	dto.TransactionResponseDTO
//	@Failure		401	{object}	utils.Response	"Unauthorized"
//	@Security		BearerAuth
//	@Router			/api/transactions [get]
func (h *LedgerHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(auth.UserIDKey).(string)

	transactions, err := h.ledgerService.ListTransactions(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]dto.TransactionResponseDTO, 0, len(transactions))
	for _, tx := range transactions {
		response = append(response, dto.TransactionResponseDTO{
			ID:          tx.ID,
			SaleID:      tx.SaleID,
			Type:        string(tx.Type),
			Description: tx.Description,
			Amount:      tx.Amount,
			Status:      string(tx.Status),
			CreatedAt:   tx.CreatedAt,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}
