// internal/controller/voice_controller.go
package controller

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/unclebandit/callgenie-backend/internal/service"
	"github.com/unclebandit/callgenie-backend/internal/voice"
)

type VoiceController struct {
	VoiceService *service.VoiceService
	Logger       *slog.Logger
}

// Clone accepts a multipart "file" sample and optional "name".
func (c *VoiceController) Clone(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		c.Logger.Warn("voice clone: bad multipart body", slog.Any("error", err))
		writeError(w, c.Logger, http.StatusBadRequest, "No file uploaded")
		return
	}

	var (
		sample   io.Reader
		filename string
	)
	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		sample, filename = file, header.Filename
	}

	v, err := c.VoiceService.Clone(r.Context(), r.FormValue("name"), filename, sample)
	if err != nil {
		c.writeVoiceError(w, err, "Voice clone failed")
		return
	}

	writeJSON(w, c.Logger, http.StatusOK, map[string]string{"voice_id": v.VoiceID})
}

func (c *VoiceController) TTS(w http.ResponseWriter, r *http.Request) {
	var body struct {
		VoiceID string `json:"voice_id"`
		Text    string `json:"text"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, c.Logger, http.StatusBadRequest, "Missing voice_id or text")
		return
	}

	audio, err := c.VoiceService.Synthesize(r.Context(), body.VoiceID, body.Text)
	if err != nil {
		c.writeVoiceError(w, err, "TTS failed")
		return
	}

	writeJSON(w, c.Logger, http.StatusOK, map[string]string{"audio_base64": audio})
}

func (c *VoiceController) ListVoices(w http.ResponseWriter, r *http.Request) {
	voices, err := c.VoiceService.ListVoices(r.Context())
	if err != nil {
		writeServiceError(w, c.Logger, err, "Failed to list voices")
		return
	}
	writeJSON(w, c.Logger, http.StatusOK, map[string]interface{}{"voices": voices})
}

// writeVoiceError returns failed upstream calls as 400 with their message.
func (c *VoiceController) writeVoiceError(w http.ResponseWriter, err error, fallback string) {
	var apiErr *voice.APIError
	if errors.As(err, &apiErr) {
		c.Logger.Warn("voice api request failed", slog.Int("status", apiErr.StatusCode), slog.String("message", apiErr.Message), slog.Any("error", apiErr.Err))
		writeError(w, c.Logger, http.StatusBadRequest, apiErr.Message)
		return
	}
	writeServiceError(w, c.Logger, err, fallback)
}
