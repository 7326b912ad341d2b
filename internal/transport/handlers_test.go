package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"balcao/internal/backend"
	"balcao/internal/domain"
	"balcao/internal/middleware"
	"balcao/internal/repository"
	"balcao/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockBackend is an in-memory stand-in for the sales backend.
type mockBackend struct {
	mu sync.Mutex

	products []domain.Product
	clients  []domain.Client
	users    []domain.User
	sales    []domain.Sale
	details  map[int64]domain.Sale

	clientsErr error
	createErr  error

	createCalls int
	cancelCalls int
	nextSaleID  int64
}

func newMockBackend() *mockBackend {
	barcode := "7891000100101"
	return &mockBackend{
		products: []domain.Product{
			{ID: 1, Name: "Café Torrado", SalePrice: domain.MustMoney("18.90"), Barcode: &barcode, Active: true, Stock: 12},
			{ID: 2, Name: "Açúcar Cristal", SalePrice: domain.MustMoney("4.50"), Active: true, Stock: 30},
			{ID: 3, Name: "Filtro de Café", SalePrice: domain.MustMoney("7.25"), Active: true, Stock: 8},
		},
		clients: []domain.Client{
			{ID: 10, Name: "Maria", Phone: "11 99999-0001"},
		},
		users: []domain.User{
			{ID: 100, Username: "carlos", Permission: "admin", Active: true},
			{ID: 101, Username: "ana", Permission: "vendedor", Active: true},
		},
		details:    make(map[int64]domain.Sale),
		nextSaleID: 1,
	}
}

func (m *mockBackend) ListProducts(ctx context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
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
	return m.users, nil
}

func (m *mockBackend) CreateSale(ctx context.Context, req backend.CreateSaleRequest) (*domain.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if m.createErr != nil {
		return nil, m.createErr
	}

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
	m.sales = append([]domain.Sale{sale}, m.sales...)
	return &sale, nil
}

func (m *mockBackend) ListSales(ctx context.Context) ([]domain.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
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
	for i := range m.sales {
		if m.sales[i].ID == id {
			m.sales[i].Status = domain.SaleStatusCancelled
		}
	}
	return "Venda cancelada com sucesso", nil
}

func (m *mockBackend) SalesByPeriod(ctx context.Context, startDate, endDate, groupBy string) ([]domain.SalesPeriodRow, error) {
	return []domain.SalesPeriodRow{
		{Period: startDate, TotalSold: domain.MustMoney("120.00"), SaleCount: "4"},
	}, nil
}

func (m *mockBackend) BestSellingProducts(ctx context.Context, limit int) ([]domain.ProductSalesRow, error) {
	return []domain.ProductSalesRow{
		{ProductName: "Café Torrado", TotalQuantity: "9", TotalValue: domain.MustMoney("170.10")},
	}, nil
}

func (m *mockBackend) SalesByUser(ctx context.Context) ([]domain.UserSalesRow, error) {
	return []domain.UserSalesRow{
		{Username: "carlos", Permission: "admin", TotalSold: domain.MustMoney("300.00"), SaleCount: "7"},
	}, nil
}

// stubAuth replaces the JWT middleware: it injects a fixed operator
// identity the way AuthMiddleware would.
func stubAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), middleware.UserIDKey, int64(100))
		ctx = context.WithValue(ctx, middleware.PermissionKey, "admin")
		ctx = context.WithValue(ctx, middleware.BearerTokenKey, "test-token")
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func passthrough(next http.Handler) http.Handler {
	return next
}

type testEnv struct {
	router  *chi.Mux
	backend *mockBackend
	catalog service.CatalogService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()

	mb := newMockBackend()
	cartRepo := repository.NewMemoryCartRepository()
	catalog := service.NewCatalogService(mb, logger)
	carts := service.NewCartService(cartRepo, catalog, logger)
	sales := service.NewSaleService(mb, cartRepo, catalog, logger)
	reports := service.NewReportService(mb, logger)

	router := chi.NewRouter()
	NewCatalogHandler(catalog, logger).RegisterRoutes(router, stubAuth)
	NewCartHandler(carts, sales, logger).RegisterRoutes(router, stubAuth)
	NewSaleHandler(sales, logger).RegisterRoutes(router, stubAuth)
	NewReportHandler(reports, logger).RegisterRoutes(router, stubAuth, passthrough)

	return &testEnv{router: router, backend: mb, catalog: catalog}
}

func (e *testEnv) loadCatalog(t *testing.T) {
	t.Helper()
	require.NoError(t, e.catalog.Load(context.Background()))
}

func (e *testEnv) request(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeCart(t *testing.T, w *httptest.ResponseRecorder) CartResponse {
	t.Helper()
	var cart CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	return cart
}
