package queue

import (
	"context"
	"encoding/json"
	"log/slog"
)

const TopicCampaignStart = "campaign_start"

// CampaignStartJob asks a dialer to run one campaign.
type CampaignStartJob struct {
	CampaignID string `json:"campaign_id"`
}

// CampaignRunner is implemented by service.Dialer.
type CampaignRunner interface {
	Run(ctx context.Context, campaignID string) error
}

// StartCampaignSubscriber hands campaign_start jobs to the runner.
func StartCampaignSubscriber(q Queue, runner CampaignRunner, logger *slog.Logger) error {
	return q.Subscribe(TopicCampaignStart, func(ctx context.Context, body []byte) error {
		var job CampaignStartJob
		if err := json.Unmarshal(body, &job); err != nil || job.CampaignID == "" {
			// malformed jobs are never retried
			logger.Warn("invalid campaign start job", slog.String("body", string(body)), slog.Any("error", err))
			return nil
		}

		logger.Info("processing campaign start", slog.String("campaign_id", job.CampaignID))
		return runner.Run(ctx, job.CampaignID)
	})
}
