// internal/service/lead_service.go
package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	appErrors "github.com/unclebandit/callgenie-backend/internal/errors"
	"github.com/unclebandit/callgenie-backend/internal/model"
	"github.com/unclebandit/callgenie-backend/internal/repository"
)

// ErrInvalidCSV wraps every lead CSV parse failure.
var ErrInvalidCSV = errors.New("invalid lead csv")

type LeadService struct {
	LeadRepo repository.LeadRepositoryInterface
	Logger   *slog.Logger
}

// ImportResult is the response of a CSV upload.
type ImportResult struct {
	Count int           `json:"count"`
	Leads []*model.Lead `json:"leads"`
}

// LeadUpdate carries an operator's call log; empty fields are left untouched.
type LeadUpdate struct {
	ID         string `json:"id"`
	Intent     string `json:"intent"`
	Status     string `json:"status"`
	Notes      string `json:"notes"`
	NextAction string `json:"next_action"`
}

// ImportCSV reads leads from a CSV with a header row and stores them in one write.
func (s *LeadService) ImportCSV(ctx context.Context, r io.Reader) (*ImportResult, error) {
	leads, err := parseLeadsCSV(r)
	if err != nil {
		return nil, err
	}

	if len(leads) > 0 {
		if err := s.LeadRepo.CreateMany(ctx, leads); err != nil {
			return nil, fmt.Errorf("store leads: %w", err)
		}
	}

	s.Logger.Info("leads imported", slog.Int("count", len(leads)))
	return &ImportResult{Count: len(leads), Leads: leads}, nil
}

func parseLeadsCSV(r io.Reader) ([]*model.Lead, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrInvalidCSV, err)
	}

	headerMap := make(map[string]int, len(headers))
	for i, h := range headers {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := headerMap[h]; !dup {
			headerMap[h] = i
		}
	}

	leads := []*model.Lead{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
		}
		if blankRecord(record) {
			continue
		}

		get := func(col string) string {
			if idx, ok := headerMap[col]; ok && idx < len(record) {
				return strings.TrimSpace(record[idx])
			}
			return ""
		}

		dnd, _ := strconv.ParseBool(get("dnd"))
		leads = append(leads, &model.Lead{
			ID:     uuid.NewString(),
			Name:   get("name"),
			Phone:  get("phone"),
			Email:  get("email"),
			Status: model.LeadStatusNew,
			Intent: model.IntentLow,
			DND:    dnd,
		})
	}
	return leads, nil
}

func blankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// LogLead applies an operator update to a lead. An empty id is reported as
// not found.
func (s *LeadService) LogLead(ctx context.Context, update LeadUpdate) (*model.Lead, error) {
	if update.Intent != "" && !model.Intent(update.Intent).Valid() {
		return nil, appErrors.NewValidation("Invalid intent %q", update.Intent)
	}
	if update.Status != "" && !model.LeadStatus(update.Status).Valid() {
		return nil, appErrors.NewValidation("Invalid status %q", update.Status)
	}

	lead, err := s.LeadRepo.GetByID(ctx, update.ID)
	if err != nil {
		return nil, err
	}

	if update.Intent != "" {
		lead.Intent = model.Intent(update.Intent)
	}
	if update.Status != "" {
		lead.Status = model.LeadStatus(update.Status)
	}
	if update.Notes != "" {
		lead.Notes = update.Notes
	}
	if update.NextAction != "" {
		lead.NextAction = update.NextAction
	}

	if err := s.LeadRepo.Update(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// ListLeads returns one page of leads in import order.
func (s *LeadService) ListLeads(ctx context.Context, page, pageSize int) ([]*model.Lead, Pagination, error) {
	page, pageSize, offset := normalizePage(page, pageSize)
	leads, total, err := s.LeadRepo.List(ctx, offset, pageSize)
	if err != nil {
		return nil, Pagination{}, err
	}
	return leads, newPagination(page, pageSize, total), nil
}
