package repository

import (
	"context"
	"time"

	"github.com/unclebandit/callgenie-backend/internal/model"
)

// LeadRepositoryInterface defines lead persistence used by services and the dialer
type LeadRepositoryInterface interface {
	CreateMany(ctx context.Context, leads []*model.Lead) error
	GetByID(ctx context.Context, id string) (*model.Lead, error)
	Update(ctx context.Context, lead *model.Lead) error
	// ListByStatus returns up to limit non-DND leads in insertion order.
	ListByStatus(ctx context.Context, status model.LeadStatus, limit int) ([]*model.Lead, error)
	List(ctx context.Context, offset, limit int) ([]*model.Lead, int, error)
	IntentTotals(ctx context.Context) (model.IntentTotals, error)
}

type CampaignRepositoryInterface interface {
	Create(ctx context.Context, c *model.Campaign) error
	GetByID(ctx context.Context, id string) (*model.Campaign, error)
	UpdateStatus(ctx context.Context, id string, status model.CampaignStatus, completedAt *time.Time) error
	// Recent returns the last n campaigns, oldest first.
	Recent(ctx context.Context, n int) ([]*model.Campaign, error)
	// ListCampaigns returns newest first plus the filtered total.
	ListCampaigns(ctx context.Context, offset, limit int, status string) ([]*model.Campaign, int, error)
}

type VoiceRepositoryInterface interface {
	Upsert(ctx context.Context, v *model.Voice) error
	// GetByName returns nil, nil when no voice has that name.
	GetByName(ctx context.Context, name string) (*model.Voice, error)
	List(ctx context.Context) ([]model.Voice, error)
}

// Stores bundles the three repositories of one backend.
type Stores struct {
	Leads     LeadRepositoryInterface
	Campaigns CampaignRepositoryInterface
	Voices    VoiceRepositoryInterface
}
