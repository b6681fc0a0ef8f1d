// internal/controller/campaign_controller.go
package controller

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/callgenie-backend/internal/service"
)

type CampaignController struct {
	CampaignService *service.CampaignService
	Logger          *slog.Logger
}

func (c *CampaignController) StartCampaign(w http.ResponseWriter, r *http.Request) {
	var body service.StartCampaignRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, c.Logger, http.StatusBadRequest, "invalid body")
		return
	}

	campaign, err := c.CampaignService.StartCampaign(r.Context(), body)
	if err != nil {
		writeServiceError(w, c.Logger, err, "Failed to start campaign")
		return
	}

	writeJSON(w, c.Logger, http.StatusOK, map[string]interface{}{
		"ok":       true,
		"campaign": campaign,
	})
}

// CampaignStats feeds the dashboard, which polls it every couple of seconds.
func (c *CampaignController) CampaignStats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.CampaignService.Stats(r.Context())
	if err != nil {
		writeServiceError(w, c.Logger, err, "Failed to load stats")
		return
	}
	writeJSON(w, c.Logger, http.StatusOK, stats)
}

func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	status := r.URL.Query().Get("status")

	campaigns, pagination, err := c.CampaignService.ListCampaigns(r.Context(), page, pageSize, status)
	if err != nil {
		writeServiceError(w, c.Logger, err, "Failed to list campaigns")
		return
	}

	writeJSON(w, c.Logger, http.StatusOK, map[string]interface{}{
		"data":       campaigns,
		"pagination": pagination,
	})
}

func (c *CampaignController) GetCampaign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	campaign, err := c.CampaignService.GetCampaign(r.Context(), id)
	if err != nil {
		writeServiceError(w, c.Logger, err, "Failed to load campaign")
		return
	}
	writeJSON(w, c.Logger, http.StatusOK, campaign)
}
