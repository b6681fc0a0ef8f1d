// internal/controller/respond.go
package controller

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	appErrors "github.com/unclebandit/callgenie-backend/internal/errors"
)

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response error", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	writeJSON(w, logger, status, map[string]string{"error": msg})
}

// writeServiceError maps typed service errors onto status codes. Anything
// unrecognised is logged and answered with fallback as a 500.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error, fallback string) {
	var (
		validation *appErrors.ErrValidation
		leadNF     *appErrors.ErrLeadNotFound
		campaignNF *appErrors.ErrCampaignNotFound
	)
	switch {
	case errors.As(err, &validation):
		writeError(w, logger, http.StatusBadRequest, validation.Message)
	case errors.As(err, &leadNF):
		writeError(w, logger, http.StatusNotFound, "Lead not found")
	case errors.As(err, &campaignNF):
		writeError(w, logger, http.StatusNotFound, "Campaign not found")
	default:
		logger.Error(fallback, slog.Any("error", err))
		writeError(w, logger, http.StatusInternalServerError, fallback)
	}
}

// decodeJSON reads the request body into v. An empty body leaves v at its
// zero value so handler defaults apply.
func decodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// pageParams reads page and page_size; the service clamps bad values.
func pageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	return page, pageSize
}
