// Package backend is the HTTP client for the sales backend REST API.
// Every authenticated call carries the caller's bearer token taken
// from the request context; the counter never holds credentials of
// its own.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"balcao/internal/domain"
	"balcao/internal/middleware"

	"go.uber.org/zap"
)

// APIError is a non-success response from the backend. Message is the
// backend's own error string when its body carried one, otherwise a
// generic status message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Error string `json:"error"`
}

// CreateSaleRequest is the order-creation payload. Unit prices are
// deliberately absent: the backend prices every item at submission
// time and is the source of truth for the sale total.
type CreateSaleRequest struct {
	ClientID      *int64            `json:"cliente_id"`
	UserID        int64             `json:"usuario_id"`
	PaymentMethod string            `json:"forma_pagamento"`
	Items         []SaleItemRequest `json:"itens"`
}

// SaleItemRequest is one {product, quantity} pair of an order.
type SaleItemRequest struct {
	ProductID int64 `json:"produto_id"`
	Quantity  int   `json:"quantidade"`
}

type createSaleResponse struct {
	Sale domain.Sale `json:"venda"`
}

type cancelSaleResponse struct {
	Message string `json:"message"`
}

// Client talks to the sales backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a backend client for the given base URL. The underlying
// transport's defaults apply; no explicit per-request timeout is set.
func New(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// do issues one request and decodes the JSON response into out (when
// out is non-nil). Non-2xx responses are returned as *APIError.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&reqBody).Encode(body); err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token, ok := middleware.GetBearerToken(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP error, status %d", resp.StatusCode),
		}
		var eb errorBody
		if err := json.NewDecoder(resp.Body).Decode(&eb); err == nil && eb.Error != "" {
			apiErr.Message = eb.Error
		}
		c.logger.Debug("Backend returned error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message),
		)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode backend response: %w", err)
	}
	return nil
}

// ListProducts fetches the product catalog.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.do(ctx, http.MethodGet, "/api/produtos", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ListClients fetches the registered clients.
func (c *Client) ListClients(ctx context.Context) ([]domain.Client, error) {
	var clients []domain.Client
	if err := c.do(ctx, http.MethodGet, "/api/clientes", nil, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

// ListUsers fetches the system users (sale operators).
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.do(ctx, http.MethodGet, "/api/usuarios", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateSale submits a new sale and returns the backend's record,
// including the server-assigned id and total.
func (c *Client) CreateSale(ctx context.Context, req CreateSaleRequest) (*domain.Sale, error) {
	var resp createSaleResponse
	if err := c.do(ctx, http.MethodPost, "/api/vendas", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Sale, nil
}

// ListSales fetches the sale history in the backend's own ordering,
// without line items.
func (c *Client) ListSales(ctx context.Context) ([]domain.Sale, error) {
	var sales []domain.Sale
	if err := c.do(ctx, http.MethodGet, "/api/vendas", nil, &sales); err != nil {
		return nil, err
	}
	return sales, nil
}

// GetSale fetches one sale with its line items populated.
func (c *Client) GetSale(ctx context.Context, id int64) (*domain.Sale, error) {
	var sale domain.Sale
	path := "/api/vendas/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, http.MethodGet, path, nil, &sale); err != nil {
		return nil, err
	}
	return &sale, nil
}

// CancelSale transitions a sale to its cancelled state and returns
// the backend's confirmation message.
func (c *Client) CancelSale(ctx context.Context, id int64) (string, error) {
	var resp cancelSaleResponse
	path := "/api/vendas/" + strconv.FormatInt(id, 10) + "/cancelar"
	if err := c.do(ctx, http.MethodPut, path, nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// SalesByPeriod fetches the sales-by-period report.
func (c *Client) SalesByPeriod(ctx context.Context, startDate, endDate, groupBy string) ([]domain.SalesPeriodRow, error) {
	q := url.Values{}
	q.Set("data_inicio", startDate)
	q.Set("data_fim", endDate)
	q.Set("agrupar_por", groupBy)

	var rows []domain.SalesPeriodRow
	if err := c.do(ctx, http.MethodGet, "/api/relatorios/vendas-por-periodo?"+q.Encode(), nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// BestSellingProducts fetches the best-selling-products report.
func (c *Client) BestSellingProducts(ctx context.Context, limit int) ([]domain.ProductSalesRow, error) {
	q := url.Values{}
	q.Set("limite", strconv.Itoa(limit))

	var rows []domain.ProductSalesRow
	if err := c.do(ctx, http.MethodGet, "/api/relatorios/produtos-mais-vendidos?"+q.Encode(), nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// SalesByUser fetches the sales-by-operator report.
func (c *Client) SalesByUser(ctx context.Context) ([]domain.UserSalesRow, error) {
	var rows []domain.UserSalesRow
	if err := c.do(ctx, http.MethodGet, "/api/relatorios/vendas-por-usuario", nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
