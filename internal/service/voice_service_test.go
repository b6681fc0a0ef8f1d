package service_test

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/callgenie-backend/internal/errors"
	"github.com/unclebandit/callgenie-backend/internal/model"
	"github.com/unclebandit/callgenie-backend/internal/service"
)

// --- Mock Provider ---

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) CreateVoice(ctx context.Context, name, filename string, sample io.Reader) (string, error) {
	args := m.Called(name, filename)
	return args.String(0), args.Error(1)
}

func (m *MockProvider) Synthesize(ctx context.Context, voiceID, text string) ([]byte, error) {
	args := m.Called(voiceID, text)
	audio, _ := args.Get(0).([]byte)
	return audio, args.Error(1)
}

func TestCloneVoice(t *testing.T) {
	ctx := context.Background()
	stores := newStores(t)
	p := &MockProvider{}
	p.On("CreateVoice", "MyInstantVoice", "me.mp3").Return("v_1", nil).Once()
	p.On("CreateVoice", "MyInstantVoice", "me2.mp3").Return("v_2", nil).Once()

	svc := &service.VoiceService{VoiceRepo: stores.Voices, Provider: p, Logger: discard}

	v, err := svc.Clone(ctx, "", "me.mp3", strings.NewReader("audio"))
	require.NoError(t, err)
	assert.Equal(t, model.Voice{Name: "MyInstantVoice", VoiceID: "v_1"}, *v)

	_, err = svc.Clone(ctx, "", "me2.mp3", strings.NewReader("audio"))
	require.NoError(t, err)

	voices, err := svc.ListVoices(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Voice{{Name: "MyInstantVoice", VoiceID: "v_2"}}, voices)
	p.AssertExpectations(t)
}

func TestCloneVoiceWithoutSample(t *testing.T) {
	p := &MockProvider{}
	svc := &service.VoiceService{VoiceRepo: newStores(t).Voices, Provider: p, Logger: discard}

	_, err := svc.Clone(context.Background(), "Rep", "", nil)
	var v *appErrors.ErrValidation
	require.ErrorAs(t, err, &v)
	assert.Equal(t, "No file uploaded", v.Message)
	p.AssertNotCalled(t, "CreateVoice", mock.Anything, mock.Anything)
}

func TestCloneVoiceProviderError(t *testing.T) {
	stores := newStores(t)
	p := &MockProvider{}
	p.On("CreateVoice", "Rep", "a.wav").Return("", errors.New("upstream"))
	svc := &service.VoiceService{VoiceRepo: stores.Voices, Provider: p, Logger: discard}

	_, err := svc.Clone(context.Background(), "Rep", "a.wav", strings.NewReader("x"))
	assert.Error(t, err)

	voices, err := svc.ListVoices(context.Background())
	require.NoError(t, err)
	assert.Empty(t, voices)
}

func TestSynthesizeVoice(t *testing.T) {
	p := &MockProvider{}
	p.On("Synthesize", "v_1", "hello").Return([]byte("RIFF"), nil)
	svc := &service.VoiceService{VoiceRepo: newStores(t).Voices, Provider: p, Logger: discard}

	audio, err := svc.Synthesize(context.Background(), "v_1", "hello")
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("RIFF")), audio)
}

func TestSynthesizeVoiceMissingFields(t *testing.T) {
	p := &MockProvider{}
	svc := &service.VoiceService{VoiceRepo: newStores(t).Voices, Provider: p, Logger: discard}

	for _, args := range [][2]string{{"", "hi"}, {"v_1", ""}} {
		_, err := svc.Synthesize(context.Background(), args[0], args[1])
		var v *appErrors.ErrValidation
		require.ErrorAs(t, err, &v)
		assert.Equal(t, "Missing voice_id or text", v.Message)
	}
	p.AssertNotCalled(t, "Synthesize", mock.Anything, mock.Anything)
}
