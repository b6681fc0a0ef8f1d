// internal/model/campaign.go
package model

import (
	"encoding/json"
	"time"
)

type CampaignStatus string

const (
	CampaignStatusRunning   CampaignStatus = "RUNNING"
	CampaignStatusCompleted CampaignStatus = "COMPLETED"
)

// Campaign keeps schedule and retry rules as raw JSON; the dialer never reads them.
type Campaign struct {
	ID          string          `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Concept     string          `db:"concept" json:"concept,omitempty"`
	Schedule    json.RawMessage `db:"schedule" json:"schedule,omitempty"`
	RetryRules  json.RawMessage `db:"retry_rules" json:"retryRules,omitempty"`
	VoiceID     string          `db:"voice_id" json:"voice_id,omitempty"`
	Status      CampaignStatus  `db:"status" json:"status"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	CompletedAt *time.Time      `db:"completed_at" json:"completedAt,omitempty"`
}
