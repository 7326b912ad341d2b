package transport

import (
	"errors"
	"net/http"

	"balcao/internal/backend"
	"balcao/internal/middleware"
	"balcao/internal/service"

	"go.uber.org/zap"
)

// respondServiceError maps service and backend errors onto HTTP
// responses. Backend errors keep the upstream's status and message;
// precondition and lookup failures become client errors; anything
// else is a bad gateway, since this service owns no state that can
// fail on its own.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		middleware.RespondWithError(w, apiErr.StatusCode, apiErr.Message)
		return
	}

	switch {
	case errors.Is(err, service.ErrCatalogNotLoaded):
		middleware.RespondWithError(w, http.StatusConflict, "catalog not loaded, reload it first")
	case errors.Is(err, service.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrClientNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrNoOperator),
		errors.Is(err, service.ErrNoPaymentMethod),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrMissingDateRange),
		errors.Is(err, service.ErrInvalidGroupBy):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrAlreadyCancelled):
		middleware.RespondWithError(w, http.StatusConflict, err.Error())
	default:
		logger.Error("Upstream request failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadGateway, "sales backend unavailable")
	}
}
