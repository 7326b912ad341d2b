package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"balcao/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrCatalogNotLoaded is returned while the catalog has not been
// loaded successfully; cart interaction stays disabled until a load
// succeeds.
var ErrCatalogNotLoaded = errors.New("catalog not loaded")

// CatalogService holds the in-memory catalog: the products, clients
// and users lists fetched together from the backend. The load is
// all-or-nothing; a failed load retains nothing and is only retried
// on an explicit reload.
type CatalogService interface {
	Load(ctx context.Context) error
	Loaded() bool
	Products() ([]domain.Product, error)
	Clients() ([]domain.Client, error)
	Users() ([]domain.User, error)
	SearchProducts(query string) ([]domain.Product, error)
	FindProduct(id int64) (domain.Product, error)
	FindClient(id int64) (domain.Client, error)
	FindUser(id int64) (domain.User, error)
}

type catalogService struct {
	backend BackendClient
	logger  *zap.Logger

	mu       sync.RWMutex
	loaded   bool
	products []domain.Product
	clients  []domain.Client
	users    []domain.User
}

// NewCatalogService creates a catalog cache backed by the given client.
func NewCatalogService(backend BackendClient, logger *zap.Logger) CatalogService {
	return &catalogService{
		backend: backend,
		logger:  logger,
	}
}

// Load fetches products, clients and users concurrently. The three
// requests are issued together and awaited jointly: if any one fails
// the whole load fails and the previous (or empty) state is kept.
func (s *catalogService) Load(ctx context.Context) error {
	var (
		products []domain.Product
		clients  []domain.Client
		users    []domain.User
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.backend.ListProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		clients, err = s.backend.ListClients(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = s.backend.ListUsers(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("Catalog load failed", zap.Error(err))
		return fmt.Errorf("failed to load catalog data: %w", err)
	}

	s.mu.Lock()
	s.products = products
	s.clients = clients
	s.users = users
	s.loaded = true
	s.mu.Unlock()

	s.logger.Info("Catalog loaded",
		zap.Int("products", len(products)),
		zap.Int("clients", len(clients)),
		zap.Int("users", len(users)),
	)
	return nil
}

// Loaded reports whether a load has completed successfully.
func (s *catalogService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *catalogService) Products() ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, ErrCatalogNotLoaded
	}
	return append([]domain.Product(nil), s.products...), nil
}

func (s *catalogService) Clients() ([]domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, ErrCatalogNotLoaded
	}
	return append([]domain.Client(nil), s.clients...), nil
}

func (s *catalogService) Users() ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, ErrCatalogNotLoaded
	}
	return append([]domain.User(nil), s.users...), nil
}

// SearchProducts filters the catalog by a free-text query:
// case-insensitive substring match on the product name, or substring
// match on the barcode. An empty query matches nothing.
func (s *catalogService) SearchProducts(query string) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, ErrCatalogNotLoaded
	}
	if query == "" {
		return nil, nil
	}

	needle := strings.ToLower(query)
	var matches []domain.Product
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			matches = append(matches, p)
			continue
		}
		if p.Barcode != nil && strings.Contains(*p.Barcode, query) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

// ErrProductNotFound is returned when a referenced product is not in
// the loaded catalog.
var ErrProductNotFound = errors.New("product not found in catalog")

// ErrClientNotFound is returned when a referenced client is unknown.
var ErrClientNotFound = errors.New("client not found in catalog")

// ErrUserNotFound is returned when a referenced operator is unknown.
var ErrUserNotFound = errors.New("user not found in catalog")

func (s *catalogService) FindProduct(id int64) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return domain.Product{}, ErrCatalogNotLoaded
	}
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, ErrProductNotFound
}

func (s *catalogService) FindClient(id int64) (domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return domain.Client{}, ErrCatalogNotLoaded
	}
	for _, c := range s.clients {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Client{}, ErrClientNotFound
}

func (s *catalogService) FindUser(id int64) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return domain.User{}, ErrCatalogNotLoaded
	}
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, ErrUserNotFound
}
