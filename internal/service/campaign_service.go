// internal/service/campaign_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/unclebandit/callgenie-backend/internal/model"
	"github.com/unclebandit/callgenie-backend/internal/queue"
	"github.com/unclebandit/callgenie-backend/internal/repository"
)

const (
	defaultCampaignName = "Campaign"
	recentCampaigns     = 5
)

type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	LeadRepo     repository.LeadRepositoryInterface
	Queue        queue.Queue
	Logger       *slog.Logger

	// Now is overridable in tests.
	Now func() time.Time
}

// StartCampaignRequest is the operator's campaign form.
type StartCampaignRequest struct {
	Name       string          `json:"name"`
	Concept    string          `json:"concept"`
	Schedule   json.RawMessage `json:"schedule"`
	RetryRules json.RawMessage `json:"retryRules"`
	VoiceID    string          `json:"voice_id"`
}

// Stats is the dashboard payload.
type Stats struct {
	Totals    model.IntentTotals `json:"totals"`
	Campaigns []*model.Campaign  `json:"campaigns"`
}

func (s *CampaignService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// StartCampaign stores a RUNNING campaign and queues it for the dialer.
func (s *CampaignService) StartCampaign(ctx context.Context, req StartCampaignRequest) (*model.Campaign, error) {
	name := req.Name
	if name == "" {
		name = defaultCampaignName
	}

	c := &model.Campaign{
		ID:         uuid.NewString(),
		Name:       name,
		Concept:    req.Concept,
		Schedule:   nullIfEmpty(req.Schedule),
		RetryRules: nullIfEmpty(req.RetryRules),
		VoiceID:    req.VoiceID,
		Status:     model.CampaignStatusRunning,
		CreatedAt:  s.now().UTC(),
	}

	if err := s.CampaignRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("store campaign: %w", err)
	}

	if err := s.Queue.Publish(ctx, queue.TopicCampaignStart, queue.CampaignStartJob{CampaignID: c.ID}); err != nil {
		s.Logger.Error("failed to enqueue campaign", slog.String("campaign_id", c.ID), slog.Any("error", err))
		return nil, fmt.Errorf("enqueue campaign: %w", err)
	}

	s.Logger.Info("campaign started", slog.String("campaign_id", c.ID), slog.String("name", c.Name))
	return c, nil
}

// nullIfEmpty drops absent or literal null JSON so it is omitted on output.
func nullIfEmpty(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return raw
}

// Stats returns lead totals by intent and the last five campaigns.
func (s *CampaignService) Stats(ctx context.Context) (*Stats, error) {
	totals, err := s.LeadRepo.IntentTotals(ctx)
	if err != nil {
		return nil, err
	}
	campaigns, err := s.CampaignRepo.Recent(ctx, recentCampaigns)
	if err != nil {
		return nil, err
	}
	return &Stats{Totals: totals, Campaigns: campaigns}, nil
}

// GetCampaign fetches a campaign by ID
func (s *CampaignService) GetCampaign(ctx context.Context, id string) (*model.Campaign, error) {
	return s.CampaignRepo.GetByID(ctx, id)
}

// ListCampaigns fetches campaigns with pagination, newest first
func (s *CampaignService) ListCampaigns(ctx context.Context, page, pageSize int, status string) ([]*model.Campaign, Pagination, error) {
	page, pageSize, offset := normalizePage(page, pageSize)
	campaigns, total, err := s.CampaignRepo.ListCampaigns(ctx, offset, pageSize, status)
	if err != nil {
		return nil, Pagination{}, err
	}
	return campaigns, newPagination(page, pageSize, total), nil
}
