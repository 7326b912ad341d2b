package transport

import (
	"fmt"
	"net/http"
	"strconv"

	"balcao/internal/domain"
	"balcao/internal/middleware"
	"balcao/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AddItemRequest adds one unit of a product to the cart.
type AddItemRequest struct {
	ProductID int64 `json:"produto_id" validate:"required"`
}

// UpdateQuantityRequest sets a line's quantity. Zero or negative
// removes the line, so the field is a pointer to distinguish an
// explicit zero from an absent value.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantidade" validate:"required"`
}

// SelectionsRequest sets the cart's client, operator and payment
// method choices.
type SelectionsRequest struct {
	ClientID      *int64 `json:"cliente_id"`
	UserID        *int64 `json:"usuario_id"`
	PaymentMethod string `json:"forma_pagamento"`
}

// CartResponse is the cart with its derived total.
type CartResponse struct {
	ID            string            `json:"id"`
	Items         []domain.LineItem `json:"itens"`
	ClientID      *int64            `json:"cliente_id"`
	OperatorID    *int64            `json:"usuario_id"`
	PaymentMethod string            `json:"forma_pagamento"`
	Total         domain.Money      `json:"total_venda"`
}

// CheckoutResponse is the result of a finalized sale.
type CheckoutResponse struct {
	Sale    *domain.Sale `json:"venda"`
	Message string       `json:"message"`
}

func newCartResponse(cart domain.Cart) CartResponse {
	items := cart.Items
	if items == nil {
		items = []domain.LineItem{}
	}
	return CartResponse{
		ID:            cart.ID.String(),
		Items:         items,
		ClientID:      cart.ClientID,
		OperatorID:    cart.OperatorID,
		PaymentMethod: cart.PaymentMethod,
		Total:         cart.Total(),
	}
}

// CartHandler serves the operator's working cart.
type CartHandler struct {
	carts  service.CartService
	sales  service.SaleService
	logger *zap.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(carts service.CartService, sales service.SaleService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		carts:  carts,
		sales:  sales,
		logger: logger,
	}
}

// RegisterRoutes registers cart routes. All routes require auth.
func (h *CartHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/carrinho", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.GetCart)
		r.Put("/", h.SetSelections)
		r.Delete("/", h.ResetCart)
		r.Post("/itens", h.AddItem)
		r.Put("/itens/{produtoID}", h.UpdateQuantity)
		r.Delete("/itens/{produtoID}", h.RemoveItem)
		r.Post("/finalizar", h.Checkout)
	})
}

func operatorID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return 0, false
	}
	return id, true
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "produtoID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return 0, false
	}
	return id, true
}

// GetCart returns the operator's current cart.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	opID, ok := operatorID(w, r)
	if !ok {
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, newCartResponse(h.carts.Get(opID)))
}

// AddItem adds one unit of a product to the cart, snapshotting the
// product from the catalog.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	opID, ok := operatorID(w, r)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Add item validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cart, err := h.carts.AddProduct(opID, req.ProductID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, newCartResponse(cart))
}

// UpdateQuantity sets the quantity of one line; zero or negative
// removes it.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	opID, ok := operatorID(w, r)
	if !ok {
		return
	}
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Update quantity validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cart := h.carts.SetQuantity(opID, productID, *req.Quantity)
	middleware.RespondWithJSON(w, http.StatusOK, newCartResponse(cart))
}

// RemoveItem deletes one line from the cart. Removing an absent
// product still returns the cart unchanged.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	opID, ok := operatorID(w, r)
	if !ok {
		return
	}
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	cart := h.carts.RemoveItem(opID, productID)
	middleware.RespondWithJSON(w, http.StatusOK, newCartResponse(cart))
}

// SetSelections updates the cart's client, operator and payment
// method.
func (h *CartHandler) SetSelections(w http.ResponseWriter, r *http.Request) {
	opID, ok := operatorID(w, r)
	if !ok {
		return
	}

	var req SelectionsRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Selections validation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cart, err := h.carts.SetSelections(opID, req.ClientID, req.UserID, req.PaymentMethod)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, newCartResponse(cart))
}

// ResetCart discards the cart (cancel-edit).
func (h *CartHandler) ResetCart(w http.ResponseWriter, r *http.Request) {
	opID, ok := operatorID(w, r)
	if !ok {
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, newCartResponse(h.carts.Reset(opID)))
}

// Checkout submits the cart as a new sale.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	opID, ok := operatorID(w, r)
	if !ok {
		return
	}

	sale, err := h.sales.Checkout(r.Context(), opID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Checkout completed",
		zap.Int64("operator_id", opID),
		zap.Int64("sale_id", sale.ID),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, CheckoutResponse{
		Sale:    sale,
		Message: fmt.Sprintf("sale #%d finalized, total %s", sale.ID, sale.Total.String()),
	})
}
