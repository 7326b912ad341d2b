package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"balcao/internal/backend"
	"balcao/internal/domain"
	"balcao/internal/repository"

	"go.uber.org/zap"
)

// Checkout precondition errors. These are caught before any backend
// call is made; the cart is never touched when one of them fires.
var (
	ErrNoOperator       = errors.New("no operator selected for the sale")
	ErrNoPaymentMethod  = errors.New("no payment method selected")
	ErrEmptyCart        = errors.New("cart has no items")
	ErrAlreadyCancelled = errors.New("sale is already cancelled")
)

// SaleService submits carts as sales and serves the sale history.
type SaleService interface {
	// Checkout submits the operator's cart. On success the cart is
	// cleared and the history snapshot refreshed; on any failure the
	// cart is left untouched for retry.
	Checkout(ctx context.Context, operatorID int64) (*domain.Sale, error)

	// ListSales refetches the history from the backend. The backend's
	// ordering is preserved; the result also becomes the local
	// snapshot used to guard cancellations.
	ListSales(ctx context.Context) ([]domain.Sale, error)

	// GetSale fetches one sale with line items, enriched with product
	// names from the catalog when the backend omitted them.
	GetSale(ctx context.Context, id int64) (*domain.Sale, error)

	// CancelSale transitions a sale to cancelled. A sale the snapshot
	// already shows as cancelled is rejected locally without a
	// backend call.
	CancelSale(ctx context.Context, id int64) (string, error)
}

type saleService struct {
	backend BackendClient
	carts   repository.CartRepository
	catalog CatalogService
	logger  *zap.Logger

	mu       sync.Mutex
	snapshot []domain.Sale
}

// NewSaleService creates the sale service.
func NewSaleService(backend BackendClient, carts repository.CartRepository, catalog CatalogService, logger *zap.Logger) SaleService {
	return &saleService{
		backend: backend,
		carts:   carts,
		catalog: catalog,
		logger:  logger,
	}
}

func (s *saleService) Checkout(ctx context.Context, operatorID int64) (*domain.Sale, error) {
	cart := s.carts.Get(operatorID)

	// Precondition checks, in the order the counter surfaces them.
	if cart.OperatorID == nil {
		return nil, ErrNoOperator
	}
	if cart.PaymentMethod == "" {
		return nil, ErrNoPaymentMethod
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	req := backend.CreateSaleRequest{
		ClientID:      cart.ClientID,
		UserID:        *cart.OperatorID,
		PaymentMethod: cart.PaymentMethod,
		Items:         make([]backend.SaleItemRequest, 0, len(cart.Items)),
	}
	for _, item := range cart.Items {
		req.Items = append(req.Items, backend.SaleItemRequest{
			ProductID: item.Product.ID,
			Quantity:  item.Quantity,
		})
	}

	sale, err := s.backend.CreateSale(ctx, req)
	if err != nil {
		// Leave the cart as it was so the operator can correct and retry.
		return nil, err
	}

	s.carts.Update(operatorID, func(cart *domain.Cart) {
		cart.Reset()
	})

	s.logger.Info("Sale finalized",
		zap.Int64("sale_id", sale.ID),
		zap.String("total", sale.Total.String()),
		zap.Int64("operator_id", operatorID),
	)

	// Refetch the history rather than patching it locally; the
	// backend computes the authoritative totals.
	if _, err := s.ListSales(ctx); err != nil {
		s.logger.Warn("Failed to refresh sale history after checkout", zap.Error(err))
	}

	return sale, nil
}

func (s *saleService) ListSales(ctx context.Context) ([]domain.Sale, error) {
	sales, err := s.backend.ListSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sale history: %w", err)
	}

	s.mu.Lock()
	s.snapshot = sales
	s.mu.Unlock()

	return sales, nil
}

func (s *saleService) GetSale(ctx context.Context, id int64) (*domain.Sale, error) {
	sale, err := s.backend.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}

	// Fill in product names for display when the backend left them out.
	if s.catalog.Loaded() {
		for i := range sale.Items {
			if sale.Items[i].ProductName != "" {
				continue
			}
			if product, err := s.catalog.FindProduct(sale.Items[i].ProductID); err == nil {
				sale.Items[i].ProductName = product.Name
			}
		}
	}

	return sale, nil
}

func (s *saleService) CancelSale(ctx context.Context, id int64) (string, error) {
	s.mu.Lock()
	for i := range s.snapshot {
		if s.snapshot[i].ID == id && s.snapshot[i].IsCancelled() {
			s.mu.Unlock()
			return "", ErrAlreadyCancelled
		}
	}
	s.mu.Unlock()

	message, err := s.backend.CancelSale(ctx, id)
	if err != nil {
		return "", err
	}

	s.logger.Info("Sale cancelled", zap.Int64("sale_id", id))

	if _, err := s.ListSales(ctx); err != nil {
		s.logger.Warn("Failed to refresh sale history after cancellation", zap.Error(err))
	}

	return message, nil
}
