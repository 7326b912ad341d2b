package service

import (
	"context"
	"sync"

	"balcao/internal/backend"
	"balcao/internal/domain"
)

// mockBackend is an in-memory stand-in for the sales backend.
type mockBackend struct {
	mu sync.Mutex

	products []domain.Product
	clients  []domain.Client
	users    []domain.User
	sales    []domain.Sale
	details  map[int64]domain.Sale

	productsErr error
	clientsErr  error
	usersErr    error
	createErr   error
	listErr     error
	cancelErr   error

	cancelMessage string
	nextSaleID    int64

	createCalls int
	cancelCalls int
	listCalls   int
	lastCreate  *backend.CreateSaleRequest
}

func newMockBackend() *mockBackend {
	return &mockBackend{
		details:       make(map[int64]domain.Sale),
		cancelMessage: "venda cancelada",
		nextSaleID:    1,
	}
}

func (m *mockBackend) ListProducts(ctx context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.productsErr != nil {
		return nil, m.productsErr
	}
	return m.products, nil
}

func (m *mockBackend) ListClients(ctx context.Context) ([]domain.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.clientsErr != nil {
		return nil, m.clientsErr
	}
	return m.clients, nil
}

func (m *mockBackend) ListUsers(ctx context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.usersErr != nil {
		return nil, m.usersErr
	}
	return m.users, nil
}

func (m *mockBackend) CreateSale(ctx context.Context, req backend.CreateSaleRequest) (*domain.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.lastCreate = &req

	// Price the order the way the real backend does: current catalog
	// prices, not what the counter displayed.
	total := domain.ZeroMoney()
	for _, item := range req.Items {
		for _, p := range m.products {
			if p.ID == item.ProductID {
				total = total.Add(p.SalePrice.MulInt(item.Quantity))
			}
		}
	}

	sale := domain.Sale{
		ID:            m.nextSaleID,
		ClientID:      req.ClientID,
		UserID:        req.UserID,
		PaymentMethod: req.PaymentMethod,
		Status:        domain.SaleStatusCompleted,
		Total:         total,
	}
	m.nextSaleID++
	// Newest first, matching the backend's ordering.
	m.sales = append([]domain.Sale{sale}, m.sales...)
	return &sale, nil
}

func (m *mockBackend) ListSales(ctx context.Context) ([]domain.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]domain.Sale(nil), m.sales...), nil
}

func (m *mockBackend) GetSale(ctx context.Context, id int64) (*domain.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if detail, ok := m.details[id]; ok {
		return &detail, nil
	}
	for _, s := range m.sales {
		if s.ID == id {
			sale := s
			return &sale, nil
		}
	}
	return nil, &backend.APIError{StatusCode: 404, Message: "venda não encontrada"}
}

func (m *mockBackend) CancelSale(ctx context.Context, id int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelCalls++
	if m.cancelErr != nil {
		return "", m.cancelErr
	}
	for i := range m.sales {
		if m.sales[i].ID == id {
			m.sales[i].Status = domain.SaleStatusCancelled
		}
	}
	return m.cancelMessage, nil
}

func (m *mockBackend) SalesByPeriod(ctx context.Context, startDate, endDate, groupBy string) ([]domain.SalesPeriodRow, error) {
	return nil, nil
}

func (m *mockBackend) BestSellingProducts(ctx context.Context, limit int) ([]domain.ProductSalesRow, error) {
	return nil, nil
}

func (m *mockBackend) SalesByUser(ctx context.Context) ([]domain.UserSalesRow, error) {
	return nil, nil
}
