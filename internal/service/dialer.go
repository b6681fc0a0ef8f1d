package service

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/unclebandit/callgenie-backend/internal/model"
	"github.com/unclebandit/callgenie-backend/internal/repository"
)

// CallOutcome is what a placed call tells us about a lead.
type CallOutcome struct {
	Intent     model.Intent
	NextAction string
}

// CallPlacer places one outbound call.
type CallPlacer interface {
	Place(ctx context.Context, campaign *model.Campaign, lead *model.Lead) (CallOutcome, error)
}

// ClassifyDraw maps a draw in [0,1) onto an outcome: above 0.7 is a hot lead,
// above 0.4 warm, anything else cold.
func ClassifyDraw(r float64) CallOutcome {
	switch {
	case r > 0.7:
		return CallOutcome{Intent: model.IntentHigh, NextAction: model.NextActionTransfer}
	case r > 0.4:
		return CallOutcome{Intent: model.IntentMedium, NextAction: model.NextActionFollowUp}
	default:
		return CallOutcome{Intent: model.IntentLow, NextAction: model.NextActionNone}
	}
}

// MockCaller simulates a call with a random outcome
type MockCaller struct {
	// Draw returns a number in [0,1). Defaults to math/rand.
	Draw func() float64
}

func (m *MockCaller) Place(ctx context.Context, campaign *model.Campaign, lead *model.Lead) (CallOutcome, error) {
	draw := m.Draw
	if draw == nil {
		draw = rand.Float64
	}
	return ClassifyDraw(draw()), nil
}

// Dialer runs the campaign simulator: one ticker per campaign, one lead per tick.
type Dialer struct {
	Leads     repository.LeadRepositoryInterface
	Campaigns repository.CampaignRepositoryInterface
	Caller    CallPlacer
	Logger    *slog.Logger

	Interval time.Duration
	MaxLeads int

	mu      sync.Mutex
	running map[string]struct{}
	wg      sync.WaitGroup
}

const (
	defaultDialInterval = time.Second
	defaultMaxLeads     = 10
)

// NewDialer wires a dialer with the mock caller.
func NewDialer(leads repository.LeadRepositoryInterface, campaigns repository.CampaignRepositoryInterface, interval time.Duration, maxLeads int, logger *slog.Logger) *Dialer {
	return &Dialer{
		Leads:     leads,
		Campaigns: campaigns,
		Caller:    &MockCaller{},
		Logger:    logger,
		Interval:  interval,
		MaxLeads:  maxLeads,
	}
}

// Run starts simulating the campaign in the background. It returns once the
// lead batch is selected; campaigns that are not RUNNING or already being
// dialled are ignored.
func (d *Dialer) Run(ctx context.Context, campaignID string) error {
	campaign, err := d.Campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return err
	}
	if campaign.Status != model.CampaignStatusRunning {
		d.Logger.Info("campaign not running, skipping", slog.String("campaign_id", campaignID), slog.String("status", string(campaign.Status)))
		return nil
	}

	d.mu.Lock()
	if d.running == nil {
		d.running = make(map[string]struct{})
	}
	if _, ok := d.running[campaignID]; ok {
		d.mu.Unlock()
		return nil
	}
	d.running[campaignID] = struct{}{}
	d.mu.Unlock()

	maxLeads := d.MaxLeads
	if maxLeads <= 0 {
		maxLeads = defaultMaxLeads
	}
	leads, err := d.Leads.ListByStatus(ctx, model.LeadStatusNew, maxLeads)
	if err != nil {
		d.release(campaignID)
		return err
	}

	d.Logger.Info("starting mock campaign", slog.String("campaign", campaign.Name), slog.Int("leads", len(leads)))

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer d.release(campaignID)
		d.simulate(ctx, campaign, leads)
	}()
	return nil
}

func (d *Dialer) release(campaignID string) {
	d.mu.Lock()
	delete(d.running, campaignID)
	d.mu.Unlock()
}

func (d *Dialer) simulate(ctx context.Context, campaign *model.Campaign, leads []*model.Lead) {
	interval := d.Interval
	if interval <= 0 {
		interval = defaultDialInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	i := 0
	for {
		select {
		case <-ctx.Done():
			d.Logger.Info("mock campaign interrupted", slog.String("campaign", campaign.Name), slog.Int("called", i))
			return
		case <-ticker.C:
		}

		if i >= len(leads) {
			now := time.Now().UTC()
			if err := d.Campaigns.UpdateStatus(ctx, campaign.ID, model.CampaignStatusCompleted, &now); err != nil {
				d.Logger.Error("failed to complete campaign", slog.String("campaign_id", campaign.ID), slog.Any("error", err))
			}
			d.Logger.Info("mock campaign completed", slog.String("campaign", campaign.Name))
			return
		}

		lead := leads[i]
		i++
		d.call(ctx, campaign, lead)
	}
}

func (d *Dialer) call(ctx context.Context, campaign *model.Campaign, lead *model.Lead) {
	outcome, err := d.Caller.Place(ctx, campaign, lead)
	if err != nil {
		d.Logger.Error("call failed", slog.String("lead_id", lead.ID), slog.Any("error", err))
		return
	}

	// operator edits made while the call was queued survive
	if current, err := d.Leads.GetByID(ctx, lead.ID); err == nil {
		lead = current
	}
	lead.Status = model.LeadStatusCalled
	lead.Intent = outcome.Intent
	lead.NextAction = outcome.NextAction
	if err := d.Leads.Update(ctx, lead); err != nil {
		d.Logger.Error("failed to store call result", slog.String("lead_id", lead.ID), slog.Any("error", err))
		return
	}

	d.Logger.Info("Called "+lead.DisplayName()+": intent="+string(outcome.Intent),
		slog.String("campaign_id", campaign.ID), slog.String("lead_id", lead.ID))
}

// Wait blocks until every running simulation has returned.
func (d *Dialer) Wait() {
	d.wg.Wait()
}
