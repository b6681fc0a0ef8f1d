package configs

import "strings"

// HTTP defines configuration for the HTTP server.
type HTTP struct {
	// Port is the TCP port the HTTP server listens on.
	Port uint16 `env:"PORT" envDefault:"8080"`
	// ClientURL is a comma separated list of browser origins allowed by CORS.
	// Empty means any origin.
	ClientURL string `env:"CLIENT_URL"`
	// MaxBodyBytes caps JSON request bodies.
	MaxBodyBytes int64 `env:"HTTP_MAX_BODY_BYTES" envDefault:"10485760"`
}

// AllowedOrigins splits ClientURL into CORS origins, falling back to "*".
func (c HTTP) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.ClientURL, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
