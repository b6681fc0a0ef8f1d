// internal/handler/router.go
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/unclebandit/callgenie-backend/internal/controller"
)

// Handler holds the controllers and the chi router that exposes them.
type Handler struct {
	Leads     *controller.LeadController
	Campaigns *controller.CampaignController
	Voices    *controller.VoiceController
	Twilio    *controller.TwilioController
	Logger    *slog.Logger

	// AllowedOrigins feeds CORS; "*" allows any browser origin.
	AllowedOrigins []string
	// MaxBodyBytes caps JSON request bodies.
	MaxBodyBytes int64
}

// Router registers every route on a new chi.Router.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Requested-With"},
		MaxAge:         300,
	}))

	r.Get("/health", controller.Health(h.Logger))

	// multipart uploads
	r.Post("/upload-leads", h.Leads.UploadLeads)
	r.Post("/voice/clone", h.Voices.Clone)
	r.Post("/twilio/outbound-callback", h.Twilio.OutboundCallback)

	r.Group(func(r chi.Router) {
		if h.MaxBodyBytes > 0 {
			r.Use(middleware.RequestSize(h.MaxBodyBytes))
		}
		r.Post("/start-campaign", h.Campaigns.StartCampaign)
		r.Post("/log-lead", h.Leads.LogLead)
		r.Post("/voice/tts", h.Voices.TTS)
	})

	r.Get("/campaign-stats", h.Campaigns.CampaignStats)
	r.Get("/campaigns", h.Campaigns.ListCampaigns)
	r.Get("/campaigns/{id}", h.Campaigns.GetCampaign)
	r.Get("/leads", h.Leads.ListLeads)
	r.Get("/voices", h.Voices.ListVoices)

	return r
}

// requestLogger writes one structured line per request.
func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			h.Logger.Debug("http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}
