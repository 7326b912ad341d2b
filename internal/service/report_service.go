package service

import (
	"context"
	"errors"

	"balcao/internal/domain"

	"go.uber.org/zap"
)

// Report parameter errors, caught before any backend call.
var (
	ErrMissingDateRange = errors.New("start and end dates are required")
	ErrInvalidGroupBy   = errors.New("grouping must be day, month or year")
)

// DefaultReportLimit is the product ranking size when none is given.
const DefaultReportLimit = 10

var validGroupBy = map[string]bool{
	"day":   true,
	"month": true,
	"year":  true,
}

// ReportService serves the backend's aggregate reports with
// parameters validated up front.
type ReportService interface {
	SalesByPeriod(ctx context.Context, startDate, endDate, groupBy string) ([]domain.SalesPeriodRow, error)
	BestSellingProducts(ctx context.Context, limit int) ([]domain.ProductSalesRow, error)
	SalesByUser(ctx context.Context) ([]domain.UserSalesRow, error)
}

type reportService struct {
	backend BackendClient
	logger  *zap.Logger
}

// NewReportService creates the report service.
func NewReportService(backend BackendClient, logger *zap.Logger) ReportService {
	return &reportService{
		backend: backend,
		logger:  logger,
	}
}

func (s *reportService) SalesByPeriod(ctx context.Context, startDate, endDate, groupBy string) ([]domain.SalesPeriodRow, error) {
	if startDate == "" || endDate == "" {
		return nil, ErrMissingDateRange
	}
	if groupBy == "" {
		groupBy = "day"
	}
	if !validGroupBy[groupBy] {
		return nil, ErrInvalidGroupBy
	}
	return s.backend.SalesByPeriod(ctx, startDate, endDate, groupBy)
}

func (s *reportService) BestSellingProducts(ctx context.Context, limit int) ([]domain.ProductSalesRow, error) {
	if limit <= 0 {
		limit = DefaultReportLimit
	}
	return s.backend.BestSellingProducts(ctx, limit)
}

func (s *reportService) SalesByUser(ctx context.Context) ([]domain.UserSalesRow, error) {
	return s.backend.SalesByUser(ctx)
}
