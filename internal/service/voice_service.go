package service

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"

	appErrors "github.com/unclebandit/callgenie-backend/internal/errors"
	"github.com/unclebandit/callgenie-backend/internal/model"
	"github.com/unclebandit/callgenie-backend/internal/repository"
)

const defaultVoiceName = "MyInstantVoice"

// VoiceProvider clones voices and synthesizes speech (voice.Client).
type VoiceProvider interface {
	CreateVoice(ctx context.Context, name, filename string, sample io.Reader) (string, error)
	Synthesize(ctx context.Context, voiceID, text string) ([]byte, error)
}

type VoiceService struct {
	VoiceRepo repository.VoiceRepositoryInterface
	Provider  VoiceProvider
	Logger    *slog.Logger
}

// Clone creates a voice from sample and remembers it under name.
func (s *VoiceService) Clone(ctx context.Context, name, filename string, sample io.Reader) (*model.Voice, error) {
	if sample == nil {
		return nil, appErrors.NewValidation("No file uploaded")
	}
	if name == "" {
		name = defaultVoiceName
	}

	voiceID, err := s.Provider.CreateVoice(ctx, name, filename, sample)
	if err != nil {
		return nil, err
	}

	v := &model.Voice{Name: name, VoiceID: voiceID}
	if err := s.VoiceRepo.Upsert(ctx, v); err != nil {
		return nil, err
	}

	s.Logger.Info("voice cloned", slog.String("name", name), slog.String("voice_id", voiceID))
	return v, nil
}

// Synthesize returns base64 encoded audio of text spoken by voiceID.
func (s *VoiceService) Synthesize(ctx context.Context, voiceID, text string) (string, error) {
	if voiceID == "" || text == "" {
		return "", appErrors.NewValidation("Missing voice_id or text")
	}

	audio, err := s.Provider.Synthesize(ctx, voiceID, text)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(audio), nil
}

func (s *VoiceService) ListVoices(ctx context.Context) ([]model.Voice, error) {
	return s.VoiceRepo.List(ctx)
}
