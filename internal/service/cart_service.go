package service

import (
	"errors"

	"balcao/internal/domain"
	"balcao/internal/repository"

	"go.uber.org/zap"
)

// ErrInvalidPaymentMethod is returned when the selected payment
// method is not one of the accepted values.
var ErrInvalidPaymentMethod = errors.New("invalid payment method")

// CartService manages the cart each operator is building. All cart
// operations require a successfully loaded catalog: products are
// added by id and snapshotted from the catalog at add time.
type CartService interface {
	Get(operatorID int64) domain.Cart
	AddProduct(operatorID, productID int64) (domain.Cart, error)
	RemoveItem(operatorID, productID int64) domain.Cart
	SetQuantity(operatorID, productID int64, quantity int) domain.Cart
	SetSelections(operatorID int64, clientID, saleUserID *int64, paymentMethod string) (domain.Cart, error)
	Reset(operatorID int64) domain.Cart
}

type cartService struct {
	carts   repository.CartRepository
	catalog CatalogService
	logger  *zap.Logger
}

// NewCartService creates a cart service over the given store and
// catalog cache.
func NewCartService(carts repository.CartRepository, catalog CatalogService, logger *zap.Logger) CartService {
	return &cartService{
		carts:   carts,
		catalog: catalog,
		logger:  logger,
	}
}

func (s *cartService) Get(operatorID int64) domain.Cart {
	return s.carts.Get(operatorID)
}

// AddProduct snapshots the product from the catalog and adds one unit
// to the operator's cart.
func (s *cartService) AddProduct(operatorID, productID int64) (domain.Cart, error) {
	product, err := s.catalog.FindProduct(productID)
	if err != nil {
		return domain.Cart{}, err
	}

	s.carts.Update(operatorID, func(cart *domain.Cart) {
		cart.AddProduct(product)
	})

	s.logger.Debug("Product added to cart",
		zap.Int64("operator_id", operatorID),
		zap.Int64("product_id", productID),
	)
	return s.carts.Get(operatorID), nil
}

func (s *cartService) RemoveItem(operatorID, productID int64) domain.Cart {
	s.carts.Update(operatorID, func(cart *domain.Cart) {
		cart.RemoveItem(productID)
	})
	return s.carts.Get(operatorID)
}

func (s *cartService) SetQuantity(operatorID, productID int64, quantity int) domain.Cart {
	s.carts.Update(operatorID, func(cart *domain.Cart) {
		cart.SetQuantity(productID, quantity)
	})
	return s.carts.Get(operatorID)
}

// SetSelections updates the cart's client, operator and payment
// method choices. Referenced ids must exist in the loaded catalog; a
// non-empty payment method must be one of the accepted values.
func (s *cartService) SetSelections(operatorID int64, clientID, saleUserID *int64, paymentMethod string) (domain.Cart, error) {
	if clientID != nil {
		if _, err := s.catalog.FindClient(*clientID); err != nil {
			return domain.Cart{}, err
		}
	}
	if saleUserID != nil {
		if _, err := s.catalog.FindUser(*saleUserID); err != nil {
			return domain.Cart{}, err
		}
	}
	if paymentMethod != "" && !domain.ValidPaymentMethod(paymentMethod) {
		return domain.Cart{}, ErrInvalidPaymentMethod
	}

	s.carts.Update(operatorID, func(cart *domain.Cart) {
		cart.ClientID = clientID
		cart.OperatorID = saleUserID
		cart.PaymentMethod = paymentMethod
	})
	return s.carts.Get(operatorID), nil
}

// Reset discards the cart's lines and selections (cancel-edit).
func (s *cartService) Reset(operatorID int64) domain.Cart {
	s.carts.Update(operatorID, func(cart *domain.Cart) {
		cart.Reset()
	})
	return s.carts.Get(operatorID)
}
