package transport

import (
	"net/http"
	"strconv"

	"balcao/internal/domain"
	"balcao/internal/middleware"
	"balcao/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CancelResponse carries the backend's cancellation confirmation.
type CancelResponse struct {
	Message string `json:"message"`
}

// SaleHandler serves the sale history read path and cancellation.
type SaleHandler struct {
	sales  service.SaleService
	logger *zap.Logger
}

// NewSaleHandler creates a new SaleHandler.
func NewSaleHandler(sales service.SaleService, logger *zap.Logger) *SaleHandler {
	return &SaleHandler{
		sales:  sales,
		logger: logger,
	}
}

// RegisterRoutes registers sale routes. All routes require auth.
func (h *SaleHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/vendas", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.ListSales)
		r.Get("/{vendaID}", h.GetSale)
		r.Put("/{vendaID}/cancelar", h.CancelSale)
	})
}

func saleIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "vendaID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid sale id")
		return 0, false
	}
	return id, true
}

// ListSales returns the full history in the backend's ordering.
func (h *SaleHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.sales.ListSales(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	if sales == nil {
		sales = []domain.Sale{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, sales)
}

// GetSale returns one sale with line items populated.
func (h *SaleHandler) GetSale(w http.ResponseWriter, r *http.Request) {
	id, ok := saleIDParam(w, r)
	if !ok {
		return
	}

	sale, err := h.sales.GetSale(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, sale)
}

// CancelSale transitions a sale to cancelled. Sales already known to
// be cancelled are rejected without touching the backend.
func (h *SaleHandler) CancelSale(w http.ResponseWriter, r *http.Request) {
	id, ok := saleIDParam(w, r)
	if !ok {
		return
	}

	message, err := h.sales.CancelSale(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Sale cancellation confirmed", zap.Int64("sale_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, CancelResponse{Message: message})
}
