// Package rest provides HTTP handlers for the inventory API.
package rest

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	inverrors "github.com/abgdnv/inventory/internal/inventory/errors"
	"github.com/abgdnv/inventory/internal/inventory/service"
	"github.com/abgdnv/inventory/internal/platform/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type ProductHandler struct {
	service  service.ProductService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewProductHandler creates a new instance of ProductHandler with the provided service.
func NewProductHandler(service service.ProductService, validate *validator.Validate, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validate,
		logger:   logger.With("component", "rest", "resource", "products"),
	}
}

// RegisterRoutes registers the product routes.
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.Post("/", h.Create)
		r.Post("/{id}/sell", h.Sell)
	})
}

// FindAll retrieves every product ordered by id.
func (h *ProductHandler) FindAll(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(h.logger, r)
	list, err := h.service.FindAll(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// Create handles the creation of a new product.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(h.logger, r)
	var productCreateDto service.ProductCreateDto
	if !web.DecodeAndValidate(w, r, mLogger, h.validate, &productCreateDto) {
		return
	}

	newProduct, err := h.service.Create(r.Context(), productCreateDto)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error creating product", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to create product")
		return
	}
	mLogger.InfoContext(r.Context(), "Product created successfully", "ID", newProduct.ID, "Name", newProduct.Name)
	web.RespondJSON(w, mLogger, http.StatusCreated, newProduct)
}

// Sell decrements the stock of a product by one.
func (h *ProductHandler) Sell(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(h.logger, r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	sold, err := h.service.Sell(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, inverrors.ErrTransactionFailed):
			mLogger.ErrorContext(r.Context(), "Sale transaction failed", "ID", id, "error", err)
			web.RespondError(w, mLogger, http.StatusInternalServerError, "Sale transaction failed")
		case errors.Is(err, inverrors.ErrProductNotFound):
			mLogger.WarnContext(r.Context(), "Product not found for sale", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
		case errors.Is(err, inverrors.ErrOutOfStock):
			mLogger.WarnContext(r.Context(), "Sale rejected, out of stock", "ID", id)
			web.RespondError(w, mLogger, http.StatusBadRequest, "Out of stock, sale rejected")
		default:
			mLogger.ErrorContext(r.Context(), "Sale transaction failed", "ID", id, "error", err)
			web.RespondError(w, mLogger, http.StatusInternalServerError, "Sale transaction failed")
		}
		return
	}
	mLogger.InfoContext(r.Context(), "Product sold", "ID", sold.ID, "Stock", sold.Stock)
	web.RespondJSON(w, mLogger, http.StatusOK, sold)
}
