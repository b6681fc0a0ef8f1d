package configs

import "time"

// ElevenLabs configures the voice cloning / text-to-speech upstream. With an
// empty APIKey the client runs offline and returns demo voices and silence.
type ElevenLabs struct {
	APIKey  string        `env:"API_KEY"`
	ModelID string        `env:"MODEL_ID" envDefault:"eleven_multilingual_v2"`
	BaseURL string        `env:"BASE_URL" envDefault:"https://api.elevenlabs.io"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"60s"`
}

// Dialer configures the mock campaign simulator.
type Dialer struct {
	// Interval is the delay between two simulated calls.
	Interval time.Duration `env:"INTERVAL" envDefault:"1s"`
	// MaxLeads caps how many NEW leads one campaign dials.
	MaxLeads int `env:"MAX_LEADS" envDefault:"10"`
}
