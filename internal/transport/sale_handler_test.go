package transport

import (
	"encoding/json"
	"net/http"
	"testing"

	"balcao/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) finalizeSale(t *testing.T, productIDs ...int64) domain.Sale {
	t.Helper()
	for _, id := range productIDs {
		e.request(t, http.MethodPost, "/api/carrinho/itens", AddItemRequest{ProductID: id})
	}
	userID := int64(101)
	e.request(t, http.MethodPut, "/api/carrinho", SelectionsRequest{UserID: &userID, PaymentMethod: "Dinheiro"})

	w := e.request(t, http.MethodPost, "/api/carrinho/finalizar", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp CheckoutResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Sale)
	return *resp.Sale
}

func TestSaleHandler_ListSales(t *testing.T) {
	env := newTestEnv(t)
	env.loadCatalog(t)

	first := env.finalizeSale(t, 1)
	second := env.finalizeSale(t, 2, 3)

	w := env.request(t, http.MethodGet, "/api/vendas", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var sales []domain.Sale
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sales))
	require.Len(t, sales, 2)

	// Backend ordering (newest first) is passed through untouched.
	assert.Equal(t, second.ID, sales[0].ID)
	assert.Equal(t, first.ID, sales[1].ID)
}

func TestSaleHandler_ListSales_Empty(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/vendas", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestSaleHandler_GetSale(t *testing.T) {
	env := newTestEnv(t)
	env.loadCatalog(t)

	sale := env.finalizeSale(t, 1)

	env.backend.mu.Lock()
	detail := sale
	detail.Items = []domain.SaleItem{
		{ID: 1, SaleID: sale.ID, ProductID: 1, Quantity: 1, UnitPrice: domain.MustMoney("18.90"), Subtotal: domain.MustMoney("18.90")},
	}
	env.backend.details[sale.ID] = detail
	env.backend.mu.Unlock()

	w := env.request(t, http.MethodGet, "/api/vendas/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got domain.Sale
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Café Torrado", got.Items[0].ProductName)
	assert.Equal(t, "18.90", got.Items[0].UnitPrice.String())
}

func TestSaleHandler_GetSale_NotFound(t *testing.T) {
	env := newTestEnv(t)
	env.loadCatalog(t)

	w := env.request(t, http.MethodGet, "/api/vendas/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSaleHandler_GetSale_BadParam(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/vendas/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaleHandler_CancelSale(t *testing.T) {
	env := newTestEnv(t)
	env.loadCatalog(t)

	sale := env.finalizeSale(t, 1)

	// Refresh the history snapshot, then cancel.
	env.request(t, http.MethodGet, "/api/vendas", nil)
	w := env.request(t, http.MethodPut, "/api/vendas/1/cancelar", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp CancelResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Message)
	assert.Equal(t, 1, env.backend.cancelCalls)

	w = env.request(t, http.MethodGet, "/api/vendas", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var sales []domain.Sale
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sales))
	require.Len(t, sales, 1)
	assert.Equal(t, sale.ID, sales[0].ID)
	assert.Equal(t, domain.SaleStatusCancelled, sales[0].Status)
}

func TestSaleHandler_CancelSale_AlreadyCancelled(t *testing.T) {
	env := newTestEnv(t)
	env.loadCatalog(t)

	env.finalizeSale(t, 1)
	env.request(t, http.MethodGet, "/api/vendas", nil)
	w := env.request(t, http.MethodPut, "/api/vendas/1/cancelar", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Second attempt is rejected locally; the backend sees no new call.
	w = env.request(t, http.MethodPut, "/api/vendas/1/cancelar", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 1, env.backend.cancelCalls)
}
