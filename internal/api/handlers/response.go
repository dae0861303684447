package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/zatekoja/clothingsearch/internal/domain/entities"
	"github.com/zatekoja/clothingsearch/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/clothingsearch/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps err to a status code. Internal details are logged,
// not returned.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	message := "internal server error"
	status := http.StatusInternalServerError

	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeNotFound:
		status = http.StatusNotFound
	case apperrors.ErrorTypeValidation:
		status = http.StatusBadRequest
	case apperrors.ErrorTypeConflict:
		status = http.StatusConflict
	case apperrors.ErrorTypeExternal:
		status, message = http.StatusBadGateway, "upstream store failed"
	case apperrors.ErrorTypeUnavailable:
		status, message = http.StatusServiceUnavailable, "service unavailable"
	}
	if status < http.StatusInternalServerError && errors.As(err, &appErr) {
		message = appErr.Message
	}

	if status >= http.StatusInternalServerError {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	}
	respondWithError(w, status, message)
}

// parseFilters reads the optional product filters from the query string.
// brand and size accept repeated or comma separated values.
func parseFilters(r *http.Request) (entities.SearchFilters, error) {
	q := r.URL.Query()
	var f entities.SearchFilters

	for _, p := range []struct {
		name string
		dst  **decimal.Decimal
	}{{"minPrice", &f.MinPrice}, {"maxPrice", &f.MaxPrice}} {
		raw := strings.TrimSpace(q.Get(p.name))
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil || d.IsNegative() {
			return f, apperrors.NewValidationError(p.name + " must be a non-negative number")
		}
		*p.dst = &d
	}
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return f, apperrors.NewValidationError("minPrice must not exceed maxPrice")
	}

	f.Brands = splitList(q["brand"])
	f.Sizes = splitList(q["size"])

	if raw := q.Get("inStockOnly"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return f, apperrors.NewValidationError("inStockOnly must be a boolean")
		}
		f.InStockOnly = v
	}
	return f, nil
}

func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// intParam parses an optional integer query parameter.
func intParam(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidationError(name + " must be an integer")
	}
	return v, nil
}
