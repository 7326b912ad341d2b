package transport

import (
	"net/http"

	"balcao/internal/domain"
	"balcao/internal/middleware"
	"balcao/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CatalogResponse carries the three lists a counter screen needs.
type CatalogResponse struct {
	Products []domain.Product `json:"produtos"`
	Clients  []domain.Client  `json:"clientes"`
	Users    []domain.User    `json:"usuarios"`
}

// SearchResponse is the result of a search-to-add query.
type SearchResponse struct {
	Query    string           `json:"busca"`
	Products []domain.Product `json:"produtos"`
}

// CatalogHandler serves the catalog cache.
type CatalogHandler struct {
	catalog service.CatalogService
	logger  *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalog service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterRoutes registers catalog routes. All routes require auth.
func (h *CatalogHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/catalogo", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.GetCatalog)
		r.Post("/recarregar", h.Reload)
		r.Get("/produtos", h.SearchProducts)
	})
}

// GetCatalog returns the loaded catalog, loading it first if no
// successful load has happened yet.
func (h *CatalogHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	if !h.catalog.Loaded() {
		if err := h.catalog.Load(r.Context()); err != nil {
			respondServiceError(w, h.logger, err)
			return
		}
	}
	h.respondCatalog(w)
}

// Reload unconditionally refetches the catalog from the backend.
func (h *CatalogHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Load(r.Context()); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	h.respondCatalog(w)
}

func (h *CatalogHandler) respondCatalog(w http.ResponseWriter) {
	products, err := h.catalog.Products()
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	clients, err := h.catalog.Clients()
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	users, err := h.catalog.Users()
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, CatalogResponse{
		Products: emptyIfNil(products),
		Clients:  emptyIfNilClients(clients),
		Users:    emptyIfNilUsers(users),
	})
}

// SearchProducts filters products by the busca query parameter.
func (h *CatalogHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("busca")

	products, err := h.catalog.SearchProducts(query)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, SearchResponse{
		Query:    query,
		Products: emptyIfNil(products),
	})
}

func emptyIfNil(products []domain.Product) []domain.Product {
	if products == nil {
		return []domain.Product{}
	}
	return products
}

func emptyIfNilClients(clients []domain.Client) []domain.Client {
	if clients == nil {
		return []domain.Client{}
	}
	return clients
}

func emptyIfNilUsers(users []domain.User) []domain.User {
	if users == nil {
		return []domain.User{}
	}
	return users
}
