// Package voice talks to the ElevenLabs voice cloning and text-to-speech API.
// Without an API key it works offline: cloned voices get a demo_ id and speech
// is a second of silence.
package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/unclebandit/callgenie-backend/internal/config/configs"
)

const demoPrefix = "demo_"

const (
	voiceCreateFailed = "Voice create failed"
	ttsFailed         = "TTS failed"
)

// APIError is a failed ElevenLabs call. Message is returned to the caller.
// StatusCode is zero when no response arrived; Err holds the transport or
// decode error in that case.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error { return e.Err }

type Client struct {
	APIKey  string
	ModelID string
	BaseURL string
	HTTP    *http.Client
}

func NewClient(cfg configs.ElevenLabs) *Client {
	return &Client{
		APIKey:  cfg.APIKey,
		ModelID: cfg.ModelID,
		BaseURL: strings.TrimRight(cfg.BaseURL, "/"),
		HTTP:    &http.Client{Timeout: cfg.Timeout},
	}
}

// Offline reports whether the client has no API key.
func (c *Client) Offline() bool {
	return c.APIKey == ""
}

var whitespace = regexp.MustCompile(`\s+`)

// DemoVoiceID is the id handed out for name when running offline.
func DemoVoiceID(name string) string {
	return demoPrefix + strings.ToLower(whitespace.ReplaceAllString(name, "_"))
}

// CreateVoice clones a voice from one audio sample and returns its id.
func (c *Client) CreateVoice(ctx context.Context, name, filename string, sample io.Reader) (string, error) {
	if c.Offline() {
		return DemoVoiceID(name), nil
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := form.WriteField("name", name); err != nil {
		return "", err
	}
	part, err := form.CreateFormFile("files", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, sample); err != nil {
		return "", fmt.Errorf("read voice sample: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/voices/add", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("xi-api-key", c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", &APIError{Message: voiceCreateFailed, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &APIError{StatusCode: resp.StatusCode, Message: voiceCreateFailed, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &APIError{StatusCode: resp.StatusCode, Message: voiceCreateFailed + ": " + string(raw)}
	}

	var out struct {
		VoiceID string `json:"voice_id"`
		Voice   struct {
			VoiceID string `json:"voice_id"`
		} `json:"voice"`
		VoiceIDAlt string `json:"voiceID"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", &APIError{StatusCode: resp.StatusCode, Message: voiceCreateFailed, Err: err}
	}
	switch {
	case out.VoiceID != "":
		return out.VoiceID, nil
	case out.Voice.VoiceID != "":
		return out.Voice.VoiceID, nil
	case out.VoiceIDAlt != "":
		return out.VoiceIDAlt, nil
	}
	return "unknown", nil
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type ttsRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

// Synthesize renders text with the given voice and returns the audio bytes.
func (c *Client) Synthesize(ctx context.Context, voiceID, text string) ([]byte, error) {
	if c.Offline() || strings.HasPrefix(voiceID, demoPrefix) {
		return SilentWAV(1000), nil
	}

	payload, err := json.Marshal(ttsRequest{
		Text:          text,
		ModelID:       c.ModelID,
		VoiceSettings: voiceSettings{Stability: 0.5, SimilarityBoost: 0.8},
	})
	if err != nil {
		return nil, err
	}

	endpoint := c.BaseURL + "/v1/text-to-speech/" + url.PathEscape(voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &APIError{Message: ttsFailed, Err: err}
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: ttsFailed, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: ttsFailed + ": " + string(audio)}
	}
	return audio, nil
}
