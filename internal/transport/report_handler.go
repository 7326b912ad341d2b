package transport

import (
	"net/http"
	"strconv"

	"balcao/internal/middleware"
	"balcao/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ReportHandler serves the backend's aggregate reports. Reports are
// restricted to admin operators.
type ReportHandler struct {
	reports service.ReportService
	logger  *zap.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reports service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		logger:  logger,
	}
}

// RegisterRoutes registers report routes behind auth plus the admin
// permission check.
func (h *ReportHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/relatorios", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminMiddleware)
		r.Get("/vendas-por-periodo", h.SalesByPeriod)
		r.Get("/produtos-mais-vendidos", h.BestSellingProducts)
		r.Get("/vendas-por-usuario", h.SalesByUser)
	})
}

// SalesByPeriod returns sale totals bucketed by day, month or year.
func (h *ReportHandler) SalesByPeriod(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	rows, err := h.reports.SalesByPeriod(r.Context(), q.Get("data_inicio"), q.Get("data_fim"), q.Get("agrupar_por"))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, rows)
}

// BestSellingProducts returns the product sales ranking.
func (h *ReportHandler) BestSellingProducts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limite"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	rows, err := h.reports.BestSellingProducts(r.Context(), limit)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, rows)
}

// SalesByUser returns totals per operator.
func (h *ReportHandler) SalesByUser(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reports.SalesByUser(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, rows)
}
