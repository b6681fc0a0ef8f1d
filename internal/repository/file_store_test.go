package repository_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/callgenie-backend/internal/errors"
	"github.com/unclebandit/callgenie-backend/internal/model"
	"github.com/unclebandit/callgenie-backend/internal/repository"
)

func openStore(t *testing.T) (*repository.FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "db.json")
	fs, err := repository.OpenFileStore(path)
	require.NoError(t, err)
	return fs, path
}

func TestOpenFileStoreCreatesDocument(t *testing.T) {
	_, path := openStore(t)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string][]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Contains(t, doc, "leads")
	assert.Contains(t, doc, "campaigns")
	assert.Contains(t, doc, "voices")
	assert.NoFileExists(t, path+".tmp")
}

func TestOpenFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := repository.OpenFileStore(path)
	assert.Error(t, err)
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	fs, path := openStore(t)
	stores := fs.Stores()

	require.NoError(t, stores.Leads.CreateMany(ctx, []*model.Lead{
		{ID: "a", Name: "Asha", Phone: "+1", Status: model.LeadStatusNew, Intent: model.IntentLow},
	}))
	require.NoError(t, stores.Campaigns.Create(ctx, &model.Campaign{
		ID: "c1", Name: "Spring", Schedule: json.RawMessage(`{"days":["mon"]}`),
		Status: model.CampaignStatusRunning, CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}))
	require.NoError(t, stores.Voices.Upsert(ctx, &model.Voice{Name: "Rep", VoiceID: "v1"}))

	reopened, err := repository.OpenFileStore(path)
	require.NoError(t, err)
	rs := reopened.Stores()

	lead, err := rs.Leads.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Asha", lead.Name)

	c, err := rs.Campaigns.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"days":["mon"]}`, string(c.Schedule))
	assert.True(t, c.CreatedAt.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))

	v, err := rs.Voices.GetByName(ctx, "Rep")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "v1", v.VoiceID)
}

func TestFileLeadRepository(t *testing.T) {
	ctx := context.Background()
	fs, _ := openStore(t)
	leads := fs.Stores().Leads

	require.NoError(t, leads.CreateMany(ctx, []*model.Lead{
		{ID: "1", Status: model.LeadStatusNew, Intent: model.IntentLow},
		{ID: "2", Status: model.LeadStatusNew, Intent: model.IntentLow, DND: true},
		{ID: "3", Status: model.LeadStatusCalled, Intent: model.IntentHigh},
		{ID: "4", Status: model.LeadStatusNew, Intent: model.IntentMedium},
		{ID: "5", Status: model.LeadStatusNew, Intent: model.IntentLow},
	}))

	t.Run("list by status skips dnd and honours limit", func(t *testing.T) {
		got, err := leads.ListByStatus(ctx, model.LeadStatusNew, 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "1", got[0].ID)
		assert.Equal(t, "4", got[1].ID)
	})

	t.Run("returned leads are copies", func(t *testing.T) {
		l, err := leads.GetByID(ctx, "1")
		require.NoError(t, err)
		l.Name = "changed"

		again, err := leads.GetByID(ctx, "1")
		require.NoError(t, err)
		assert.Empty(t, again.Name)
	})

	t.Run("update", func(t *testing.T) {
		l, err := leads.GetByID(ctx, "5")
		require.NoError(t, err)
		l.Status = model.LeadStatusCalled
		l.Intent = model.IntentHigh
		l.NextAction = model.NextActionTransfer
		require.NoError(t, leads.Update(ctx, l))

		got, err := leads.GetByID(ctx, "5")
		require.NoError(t, err)
		assert.Equal(t, model.LeadStatusCalled, got.Status)
		assert.Equal(t, model.NextActionTransfer, got.NextAction)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := leads.GetByID(ctx, "missing")
		var nf *appErrors.ErrLeadNotFound
		assert.ErrorAs(t, err, &nf)

		err = leads.Update(ctx, &model.Lead{ID: "missing"})
		assert.ErrorAs(t, err, &nf)
	})

	t.Run("paged list", func(t *testing.T) {
		page, total, err := leads.List(ctx, 3, 10)
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		require.Len(t, page, 2)
		assert.Equal(t, "4", page[0].ID)
	})

	t.Run("intent totals", func(t *testing.T) {
		totals, err := leads.IntentTotals(ctx)
		require.NoError(t, err)
		assert.Equal(t, model.IntentTotals{Total: 5, Hot: 2, Warm: 1, Cold: 2}, totals)
	})
}

func TestFileCampaignRepository(t *testing.T) {
	ctx := context.Background()
	fs, _ := openStore(t)
	campaigns := fs.Stores().Campaigns

	for _, id := range []string{"c1", "c2", "c3", "c4", "c5", "c6", "c7"} {
		require.NoError(t, campaigns.Create(ctx, &model.Campaign{ID: id, Name: id, Status: model.CampaignStatusRunning}))
	}

	done := time.Now().UTC()
	require.NoError(t, campaigns.UpdateStatus(ctx, "c2", model.CampaignStatusCompleted, &done))

	t.Run("recent is the tail, oldest first", func(t *testing.T) {
		recent, err := campaigns.Recent(ctx, 5)
		require.NoError(t, err)
		require.Len(t, recent, 5)
		assert.Equal(t, "c3", recent[0].ID)
		assert.Equal(t, "c7", recent[4].ID)
	})

	t.Run("list is newest first with status filter", func(t *testing.T) {
		all, total, err := campaigns.ListCampaigns(ctx, 0, 3, "")
		require.NoError(t, err)
		assert.Equal(t, 7, total)
		require.Len(t, all, 3)
		assert.Equal(t, "c7", all[0].ID)

		completed, total, err := campaigns.ListCampaigns(ctx, 0, 10, string(model.CampaignStatusCompleted))
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, completed, 1)
		assert.Equal(t, "c2", completed[0].ID)
		require.NotNil(t, completed[0].CompletedAt)
	})

	t.Run("update unknown campaign", func(t *testing.T) {
		err := campaigns.UpdateStatus(ctx, "nope", model.CampaignStatusCompleted, nil)
		var nf *appErrors.ErrCampaignNotFound
		assert.ErrorAs(t, err, &nf)
	})
}

func TestFileVoiceRepositoryUpsert(t *testing.T) {
	ctx := context.Background()
	fs, _ := openStore(t)
	voices := fs.Stores().Voices

	require.NoError(t, voices.Upsert(ctx, &model.Voice{Name: "Rep", VoiceID: "v1"}))
	require.NoError(t, voices.Upsert(ctx, &model.Voice{Name: "Other", VoiceID: "v2"}))
	require.NoError(t, voices.Upsert(ctx, &model.Voice{Name: "Rep", VoiceID: "v3"}))

	list, err := voices.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Voice{{Name: "Rep", VoiceID: "v3"}, {Name: "Other", VoiceID: "v2"}}, list)

	missing, err := voices.GetByName(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
