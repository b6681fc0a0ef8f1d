package controller

import (
	"log/slog"
	"net/http"
)

// TwilioController receives telephony webhooks. Calls are simulated, so the
// callback only records what Twilio reports.
type TwilioController struct {
	Logger *slog.Logger
}

func (c *TwilioController) OutboundCallback(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		c.Logger.Warn("twilio callback: unreadable form", slog.Any("error", err))
	}
	c.Logger.Info("twilio callback",
		slog.String("call_sid", r.PostFormValue("CallSid")),
		slog.String("call_status", r.PostFormValue("CallStatus")),
	)
	writeJSON(w, c.Logger, http.StatusOK, map[string]bool{"ok": true})
}

// Health is the liveness probe.
func Health(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusOK, map[string]bool{"ok": true})
	}
}
