package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	appErrors "github.com/unclebandit/callgenie-backend/internal/errors"
	"github.com/unclebandit/callgenie-backend/internal/model"
)

// document is the on-disk layout: {"leads":[],"campaigns":[],"voices":[]}.
type document struct {
	Leads     []*model.Lead     `json:"leads"`
	Campaigns []*model.Campaign `json:"campaigns"`
	Voices    []model.Voice     `json:"voices"`
}

// FileStore keeps the whole dataset in memory and rewrites one JSON file on
// every mutation. It is safe for use by one process only.
type FileStore struct {
	path string
	mu   sync.RWMutex
	data document
}

// OpenFileStore loads the document at path, creating it (and its directory)
// when missing.
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read store %s: %w", path, err)
	case len(raw) > 0:
		if err := json.Unmarshal(raw, &s.data); err != nil {
			return nil, fmt.Errorf("decode store %s: %w", path, err)
		}
	}

	s.ensureData()
	if err := s.write(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) ensureData() {
	if s.data.Leads == nil {
		s.data.Leads = []*model.Lead{}
	}
	if s.data.Campaigns == nil {
		s.data.Campaigns = []*model.Campaign{}
	}
	if s.data.Voices == nil {
		s.data.Voices = []model.Voice{}
	}
}

// write persists the document through a temp file and rename. Callers hold mu.
func (s *FileStore) write() error {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create store dir: %w", err)
		}
	}
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

// Stores exposes the file store through the repository interfaces.
func (s *FileStore) Stores() Stores {
	return Stores{
		Leads:     &FileLeadRepository{s: s},
		Campaigns: &FileCampaignRepository{s: s},
		Voices:    &FileVoiceRepository{s: s},
	}
}

// Close is a no-op; every mutation is already on disk.
func (s *FileStore) Close() error { return nil }

// ====================== Leads ======================

type FileLeadRepository struct {
	s *FileStore
}

func copyLead(l *model.Lead) *model.Lead {
	c := *l
	return &c
}

func (r *FileLeadRepository) CreateMany(ctx context.Context, leads []*model.Lead) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, l := range leads {
		r.s.data.Leads = append(r.s.data.Leads, copyLead(l))
	}
	return r.s.write()
}

func (r *FileLeadRepository) GetByID(ctx context.Context, id string) (*model.Lead, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, l := range r.s.data.Leads {
		if l.ID == id {
			return copyLead(l), nil
		}
	}
	return nil, appErrors.NewLeadNotFound(id)
}

func (r *FileLeadRepository) Update(ctx context.Context, lead *model.Lead) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, l := range r.s.data.Leads {
		if l.ID == lead.ID {
			r.s.data.Leads[i] = copyLead(lead)
			return r.s.write()
		}
	}
	return appErrors.NewLeadNotFound(lead.ID)
}

func (r *FileLeadRepository) ListByStatus(ctx context.Context, status model.LeadStatus, limit int) ([]*model.Lead, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	leads := []*model.Lead{}
	for _, l := range r.s.data.Leads {
		if limit > 0 && len(leads) >= limit {
			break
		}
		if l.Status == status && !l.DND {
			leads = append(leads, copyLead(l))
		}
	}
	return leads, nil
}

func (r *FileLeadRepository) List(ctx context.Context, offset, limit int) ([]*model.Lead, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	total := len(r.s.data.Leads)
	leads := []*model.Lead{}
	for i := offset; i < total && len(leads) < limit; i++ {
		leads = append(leads, copyLead(r.s.data.Leads[i]))
	}
	return leads, total, nil
}

func (r *FileLeadRepository) IntentTotals(ctx context.Context) (model.IntentTotals, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var totals model.IntentTotals
	for _, l := range r.s.data.Leads {
		totals.Add(l.Intent)
	}
	return totals, nil
}

// ====================== Campaigns ======================

type FileCampaignRepository struct {
	s *FileStore
}

func copyCampaign(c *model.Campaign) *model.Campaign {
	cp := *c
	if c.CompletedAt != nil {
		t := *c.CompletedAt
		cp.CompletedAt = &t
	}
	return &cp
}

func (r *FileCampaignRepository) Create(ctx context.Context, c *model.Campaign) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.data.Campaigns = append(r.s.data.Campaigns, copyCampaign(c))
	return r.s.write()
}

func (r *FileCampaignRepository) GetByID(ctx context.Context, id string) (*model.Campaign, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.data.Campaigns {
		if c.ID == id {
			return copyCampaign(c), nil
		}
	}
	return nil, appErrors.NewCampaignNotFound(id)
}

func (r *FileCampaignRepository) UpdateStatus(ctx context.Context, id string, status model.CampaignStatus, completedAt *time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.data.Campaigns {
		if c.ID == id {
			c.Status = status
			c.CompletedAt = completedAt
			return r.s.write()
		}
	}
	return appErrors.NewCampaignNotFound(id)
}

func (r *FileCampaignRepository) Recent(ctx context.Context, n int) ([]*model.Campaign, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := r.s.data.Campaigns
	start := len(all) - n
	if start < 0 {
		start = 0
	}
	campaigns := make([]*model.Campaign, 0, len(all)-start)
	for _, c := range all[start:] {
		campaigns = append(campaigns, copyCampaign(c))
	}
	return campaigns, nil
}

func (r *FileCampaignRepository) ListCampaigns(ctx context.Context, offset, limit int, status string) ([]*model.Campaign, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	filtered := []*model.Campaign{}
	for i := len(r.s.data.Campaigns) - 1; i >= 0; i-- {
		c := r.s.data.Campaigns[i]
		if status != "" && string(c.Status) != status {
			continue
		}
		filtered = append(filtered, c)
	}

	total := len(filtered)
	campaigns := []*model.Campaign{}
	for i := offset; i < total && len(campaigns) < limit; i++ {
		campaigns = append(campaigns, copyCampaign(filtered[i]))
	}
	return campaigns, total, nil
}

// ====================== Voices ======================

type FileVoiceRepository struct {
	s *FileStore
}

func (r *FileVoiceRepository) Upsert(ctx context.Context, v *model.Voice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.data.Voices {
		if r.s.data.Voices[i].Name == v.Name {
			r.s.data.Voices[i] = *v
			return r.s.write()
		}
	}
	r.s.data.Voices = append(r.s.data.Voices, *v)
	return r.s.write()
}

func (r *FileVoiceRepository) GetByName(ctx context.Context, name string) (*model.Voice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, v := range r.s.data.Voices {
		if v.Name == name {
			found := v
			return &found, nil
		}
	}
	return nil, nil
}

func (r *FileVoiceRepository) List(ctx context.Context) ([]model.Voice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return append([]model.Voice{}, r.s.data.Voices...), nil
}

var (
	_ LeadRepositoryInterface     = (*FileLeadRepository)(nil)
	_ CampaignRepositoryInterface = (*FileCampaignRepository)(nil)
	_ VoiceRepositoryInterface    = (*FileVoiceRepository)(nil)
)
