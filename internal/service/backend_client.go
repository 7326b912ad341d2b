package service

import (
	"context"

	"balcao/internal/backend"
	"balcao/internal/domain"
)

// BackendClient is the slice of the sales backend the services need.
// Implemented by *backend.Client; mocked in tests.
type BackendClient interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListClients(ctx context.Context) ([]domain.Client, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	CreateSale(ctx context.Context, req backend.CreateSaleRequest) (*domain.Sale, error)
	ListSales(ctx context.Context) ([]domain.Sale, error)
	GetSale(ctx context.Context, id int64) (*domain.Sale, error)
	CancelSale(ctx context.Context, id int64) (string, error)
	SalesByPeriod(ctx context.Context, startDate, endDate, groupBy string) ([]domain.SalesPeriodRow, error)
	BestSellingProducts(ctx context.Context, limit int) ([]domain.ProductSalesRow, error)
	SalesByUser(ctx context.Context) ([]domain.UserSalesRow, error)
}
