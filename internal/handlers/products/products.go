package products

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marketsaas/marketsaas/internal/domain"
	"github.com/marketsaas/marketsaas/internal/dto"
	"github.com/marketsaas/marketsaas/internal/service/productservice"
	"github.com/marketsaas/marketsaas/pkg/auth"
	"github.com/marketsaas/marketsaas/pkg/utils"
)

type Service interface {
	Create(ctx context.Context, ownerID string, product *domain.Product) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Product, error)
	ListActive(ctx context.Context) ([]domain.Product, error)
	Update(ctx context.Context, ownerID string, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, ownerID, productID string) error
}

type ProductHandler struct {
	productService Service
}

func New(productService Service) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

func toDomain(req *dto.ProductRequestDTO) *domain.Product {
	return &domain.Product{
		Name:                  req.Name,
		Description:           req.Description,
		Price:                 req.Price,
		Commission:            req.Commission,
		Model:                 domain.ProductModel(req.Model),
		Status:                domain.ProductStatus(req.Status),
		ImageURL:              req.ImageURL,
		VideoURL:              req.VideoURL,
		WebhookURL:            req.WebhookURL,
		GithubURL:             req.GithubURL,
		AutoApproveAffiliates: req.AutoApproveAffiliates,
	}
}

func toResponse(product *domain.Product) dto.ProductResponseDTO {
	return dto.ProductResponseDTO{
		ID:                    product.ID,
		OwnerID:               product.OwnerID,
		Name:                  product.Name,
		Description:           product.Description,
		Price:                 product.Price,
		Commission:            product.Commission,
		Model:                 string(product.Model),
		Status:                string(product.Status),
		ImageURL:              product.ImageURL,
		VideoURL:              product.VideoURL,
		WebhookURL:            product.WebhookURL,
		GithubURL:             product.GithubURL,
		AutoApproveAffiliates: product.AutoApproveAffiliates,
		CreatedAt:             product.CreatedAt,
		UpdatedAt:             product.UpdatedAt,
	}
}

func validationStatus(err error) int {
	switch {
	case errors.Is(err, productservice.ErrEmptyName),
		errors.Is(err, productservice.ErrInvalidPrice),
		errors.Is(err, productservice.ErrInvalidCommission),
		errors.Is(err, productservice.ErrInvalidModel),
		errors.Is(err, productservice.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, productservice.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// CreateProduct godoc
//
//	@Summary		Create a product
//	@Description	Create a product owned by the authenticated user
//	@Tags			Products
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.ProductRequestDTO	true	"Product body"
//	@Success		201		{object}	dto.ProductResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"Unauthorized"
//	@Security		BearerAuth
//	@Router			/api/products [post]
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(auth.UserIDKey).(string)

	var req dto.ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.productService.Create(r.Context(), userID, toDomain(&req))
	if err != nil {
		utils.RespondWithError(w, validationStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toResponse(created))
}

// GetProduct godoc
//
//	@Summary		Get a product
//	@Tags			Products
//	@Produce		json
//	@Param			id	path		string	true	"Product id"
//	@Success		200	{object}	dto.ProductResponseDTO
//	@Failure		404	{object}	utils.Response	"Product not found"
//	@Security		BearerAuth
//	@Router			/api/products/{id} [get]
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.productService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, validationStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toResponse(product))
}

// GetOwnProducts godoc
//
//	@Summary		List the authenticated user's products
//	@Tags			Products
//	@Produce		json
//	@Success		200	{array}	dto.ProductResponseDTO
//	@Failure		401	{object}	utils.Response	"Unauthorized"
//	@Security		BearerAuth
//	@Router			/api/products [get]
func (h *ProductHandler) GetOwnProducts(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(auth.UserIDKey).(string)

	products, err := h.productService.ListByOwner(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.respondList(w, products)
}

// GetMarketplace godoc
//
//	@Summary		List active products available for affiliation
//	@Tags			Products
//	@Produce		json
//	@Success		200	{array}	dto.ProductResponseDTO
//	@Security		BearerAuth
//	@Router			/api/products/marketplace [get]
func (h *ProductHandler) GetMarketplace(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.ListActive(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.respondList(w, products)
}

func (h *ProductHandler) respondList(w http.ResponseWriter, products []domain.Product) {
	response := make([]dto.ProductResponseDTO, 0, len(products))
	for i := range products {
		response = append(response, toResponse(&products[i]))
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// UpdateProduct godoc
//
//	@Summary		Update an owned product
//	@Tags			Products
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Product id"
//	@Param			request	body		dto.ProductRequestDTO	true	"Product body"
//	@Success		200		{object}	dto.ProductResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		404		{object}	utils.Response	"Product not found"
//	@Security		BearerAuth
//	@Router			/api/products/{id} [put]
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(auth.UserIDKey).(string)

	var req dto.ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product := toDomain(&req)
	product.ID = chi.URLParam(r, "id")

	updated, err := h.productService.Update(r.Context(), userID, product)
	if err != nil {
		utils.RespondWithError(w, validationStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toResponse(updated))
}

// DeleteProduct godoc
//
//	@Summary		Delete an owned product
//	@Tags			Products
//	@Produce		json
//	@Param			id	path		string	true	"Product id"
//	@Success		200	{object}	utils.Response
//	@Failure		404	{object}	utils.Response	"Product not found"
//	@Security		BearerAuth
//	@Router			/api/products/{id} [delete]
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(auth.UserIDKey).(string)

	if err := h.productService.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		utils.RespondWithError(w, validationStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Product deleted"})
}
