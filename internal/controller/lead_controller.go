// internal/controller/lead_controller.go
package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/unclebandit/callgenie-backend/internal/service"
)

const maxUploadMemory = 32 << 20

type LeadController struct {
	LeadService *service.LeadService
	Logger      *slog.Logger
}

// UploadLeads imports the CSV sent as the multipart "file" field.
func (c *LeadController) UploadLeads(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		c.Logger.Warn("upload leads: bad multipart body", slog.Any("error", err))
		writeError(w, c.Logger, http.StatusBadRequest, "Failed to parse CSV")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		c.Logger.Warn("upload leads: missing file", slog.Any("error", err))
		writeError(w, c.Logger, http.StatusBadRequest, "Failed to parse CSV")
		return
	}
	defer file.Close()

	result, err := c.LeadService.ImportCSV(r.Context(), file)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCSV) {
			c.Logger.Warn("upload leads: invalid csv", slog.String("file", header.Filename), slog.Any("error", err))
			writeError(w, c.Logger, http.StatusBadRequest, "Failed to parse CSV")
			return
		}
		writeServiceError(w, c.Logger, err, "Failed to store leads")
		return
	}

	writeJSON(w, c.Logger, http.StatusOK, result)
}

// LogLead records an operator's notes and outcome for one lead.
func (c *LeadController) LogLead(w http.ResponseWriter, r *http.Request) {
	var body service.LeadUpdate
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, c.Logger, http.StatusBadRequest, "invalid body")
		return
	}

	lead, err := c.LeadService.LogLead(r.Context(), body)
	if err != nil {
		writeServiceError(w, c.Logger, err, "Failed to update lead")
		return
	}

	writeJSON(w, c.Logger, http.StatusOK, map[string]interface{}{
		"ok":   true,
		"lead": lead,
	})
}

func (c *LeadController) ListLeads(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)

	leads, pagination, err := c.LeadService.ListLeads(r.Context(), page, pageSize)
	if err != nil {
		writeServiceError(w, c.Logger, err, "Failed to list leads")
		return
	}

	writeJSON(w, c.Logger, http.StatusOK, map[string]interface{}{
		"data":       leads,
		"pagination": pagination,
	})
}
