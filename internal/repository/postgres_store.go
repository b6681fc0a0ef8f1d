package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	appErrors "github.com/unclebandit/callgenie-backend/internal/errors"
	"github.com/unclebandit/callgenie-backend/internal/model"
)

// NewPostgresStores returns repositories backed by the schema in
// internal/db/migrations.
func NewPostgresStores(db *sql.DB) Stores {
	return Stores{
		Leads:     &LeadRepository{DB: db},
		Campaigns: &CampaignRepository{DB: db},
		Voices:    &VoiceRepository{DB: db},
	}
}

// ====================== Leads ======================

type LeadRepository struct {
	DB *sql.DB
}

const leadColumns = `id, name, phone, email, status, intent, notes, next_action, dnd`

func scanLead(row interface{ Scan(...any) error }) (*model.Lead, error) {
	var l model.Lead
	err := row.Scan(&l.ID, &l.Name, &l.Phone, &l.Email, &l.Status, &l.Intent, &l.Notes, &l.NextAction, &l.DND)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LeadRepository) CreateMany(ctx context.Context, leads []*model.Lead) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	query := `
        INSERT INTO leads (id, name, phone, email, status, intent, notes, next_action, dnd)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `
	for _, l := range leads {
		if _, err = tx.ExecContext(ctx, query, l.ID, l.Name, l.Phone, l.Email, l.Status, l.Intent, l.Notes, l.NextAction, l.DND); err != nil {
			return fmt.Errorf("insert lead %s: %w", l.ID, err)
		}
	}
	return nil
}

func (r *LeadRepository) GetByID(ctx context.Context, id string) (*model.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id=$1`
	l, err := scanLead(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NewLeadNotFound(id)
		}
		return nil, err
	}
	return l, nil
}

func (r *LeadRepository) Update(ctx context.Context, lead *model.Lead) error {
	query := `
        UPDATE leads
        SET name=$1, phone=$2, email=$3, status=$4, intent=$5, notes=$6, next_action=$7, dnd=$8, updated_at=NOW()
        WHERE id=$9
    `
	res, err := r.DB.ExecContext(ctx, query, lead.Name, lead.Phone, lead.Email, lead.Status, lead.Intent, lead.Notes, lead.NextAction, lead.DND, lead.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return appErrors.NewLeadNotFound(lead.ID)
	}
	return nil
}

func (r *LeadRepository) ListByStatus(ctx context.Context, status model.LeadStatus, limit int) ([]*model.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE status=$1 AND NOT dnd ORDER BY seq`
	args := []interface{}{status}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	return r.query(ctx, query, args...)
}

func (r *LeadRepository) List(ctx context.Context, offset, limit int) ([]*model.Lead, int, error) {
	leads, err := r.query(ctx, `SELECT `+leadColumns+` FROM leads ORDER BY seq LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

func (r *LeadRepository) query(ctx context.Context, query string, args ...interface{}) ([]*model.Lead, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := []*model.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) IntentTotals(ctx context.Context) (model.IntentTotals, error) {
	var totals model.IntentTotals
	rows, err := r.DB.QueryContext(ctx, `SELECT intent, COUNT(*) FROM leads GROUP BY intent`)
	if err != nil {
		return totals, err
	}
	defer rows.Close()

	for rows.Next() {
		var intent model.Intent
		var count int
		if err := rows.Scan(&intent, &count); err != nil {
			return totals, err
		}
		totals.Total += count
		switch intent {
		case model.IntentHigh:
			totals.Hot = count
		case model.IntentMedium:
			totals.Warm = count
		case model.IntentLow:
			totals.Cold = count
		}
	}
	return totals, rows.Err()
}

// ====================== Campaigns ======================

type CampaignRepository struct {
	DB *sql.DB
}

const campaignColumns = `id, name, concept, schedule, retry_rules, voice_id, status, created_at, completed_at`

func scanCampaign(row interface{ Scan(...any) error }) (*model.Campaign, error) {
	var c model.Campaign
	var schedule, retryRules []byte
	err := row.Scan(&c.ID, &c.Name, &c.Concept, &schedule, &retryRules, &c.VoiceID, &c.Status, &c.CreatedAt, &c.CompletedAt)
	if err != nil {
		return nil, err
	}
	if len(schedule) > 0 {
		c.Schedule = json.RawMessage(schedule)
	}
	if len(retryRules) > 0 {
		c.RetryRules = json.RawMessage(retryRules)
	}
	return &c, nil
}

// jsonb sends raw JSON as text so pq does not encode it as bytea.
func jsonb(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func (r *CampaignRepository) Create(ctx context.Context, c *model.Campaign) error {
	query := `
        INSERT INTO campaigns (id, name, concept, schedule, retry_rules, voice_id, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	_, err := r.DB.ExecContext(ctx, query, c.ID, c.Name, c.Concept, jsonb(c.Schedule), jsonb(c.RetryRules), c.VoiceID, c.Status, c.CreatedAt)
	return err
}

func (r *CampaignRepository) GetByID(ctx context.Context, id string) (*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id=$1`
	c, err := scanCampaign(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, err
	}
	return c, nil
}

func (r *CampaignRepository) UpdateStatus(ctx context.Context, id string, status model.CampaignStatus, completedAt *time.Time) error {
	query := `UPDATE campaigns SET status=$1, completed_at=$2 WHERE id=$3`
	res, err := r.DB.ExecContext(ctx, query, status, completedAt, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return appErrors.NewCampaignNotFound(id)
	}
	return nil
}

func (r *CampaignRepository) Recent(ctx context.Context, n int) ([]*model.Campaign, error) {
	query := `
        SELECT ` + campaignColumns + ` FROM (
            SELECT * FROM campaigns ORDER BY seq DESC LIMIT $1
        ) recent ORDER BY seq
    `
	return r.query(ctx, query, n)
}

func (r *CampaignRepository) ListCampaigns(ctx context.Context, offset, limit int, status string) ([]*model.Campaign, int, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM campaigns WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if status != "" {
		query += fmt.Sprintf(" AND status=$%d", argPos)
		countQuery += fmt.Sprintf(" AND status=$%d", argPos)
		args = append(args, status)
		argPos++
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY seq DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	campaigns, err := r.query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	return campaigns, total, nil
}

func (r *CampaignRepository) query(ctx context.Context, query string, args ...interface{}) ([]*model.Campaign, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := []*model.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

// ====================== Voices ======================

type VoiceRepository struct {
	DB *sql.DB
}

func (r *VoiceRepository) Upsert(ctx context.Context, v *model.Voice) error {
	query := `
        INSERT INTO voices (name, voice_id) VALUES ($1, $2)
        ON CONFLICT (name) DO UPDATE SET voice_id = EXCLUDED.voice_id
    `
	_, err := r.DB.ExecContext(ctx, query, v.Name, v.VoiceID)
	return err
}

func (r *VoiceRepository) GetByName(ctx context.Context, name string) (*model.Voice, error) {
	var v model.Voice
	err := r.DB.QueryRowContext(ctx, `SELECT name, voice_id FROM voices WHERE name=$1`, name).Scan(&v.Name, &v.VoiceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *VoiceRepository) List(ctx context.Context) ([]model.Voice, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT name, voice_id FROM voices ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	voices := []model.Voice{}
	for rows.Next() {
		var v model.Voice
		if err := rows.Scan(&v.Name, &v.VoiceID); err != nil {
			return nil, err
		}
		voices = append(voices, v)
	}
	return voices, rows.Err()
}

var (
	_ LeadRepositoryInterface     = (*LeadRepository)(nil)
	_ CampaignRepositoryInterface = (*CampaignRepository)(nil)
	_ VoiceRepositoryInterface    = (*VoiceRepository)(nil)
)
