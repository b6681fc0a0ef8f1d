// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/unclebandit/callgenie-backend/internal/config"
	"github.com/unclebandit/callgenie-backend/internal/config/configs"
	"github.com/unclebandit/callgenie-backend/internal/controller"
	"github.com/unclebandit/callgenie-backend/internal/db"
	"github.com/unclebandit/callgenie-backend/internal/handler"
	"github.com/unclebandit/callgenie-backend/internal/queue"
	"github.com/unclebandit/callgenie-backend/internal/service"
	"github.com/unclebandit/callgenie-backend/internal/voice"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	dotenv := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := cfg.Log.New(os.Stdout)
	if !dotenv {
		logger.Info("no .env file found, relying on OS environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, closer, err := db.OpenStores(ctx, cfg.Store, cfg.Psql, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closer.Close()

	var q queue.Queue
	switch cfg.Queue.Driver {
	case configs.QueueDriverAMQP:
		q, err = queue.NewAMQPQueue(cfg.Queue.AMQPURL, logger)
		if err != nil {
			return err
		}
		logger.Info("campaigns are dialled by cmd/worker via RabbitMQ")
	default:
		q = queue.NewInMemoryQueue(logger)
	}

	dialer := service.NewDialer(stores.Leads, stores.Campaigns, cfg.Dialer.Interval, cfg.Dialer.MaxLeads, logger)
	if cfg.Queue.Driver != configs.QueueDriverAMQP {
		if err := queue.StartCampaignSubscriber(q, dialer, logger); err != nil {
			return fmt.Errorf("subscribe campaign starts: %w", err)
		}
	}

	leadService := &service.LeadService{LeadRepo: stores.Leads, Logger: logger}
	campaignService := &service.CampaignService{
		CampaignRepo: stores.Campaigns,
		LeadRepo:     stores.Leads,
		Queue:        q,
		Logger:       logger,
	}
	voiceService := &service.VoiceService{
		VoiceRepo: stores.Voices,
		Provider:  voice.NewClient(cfg.ElevenLabs),
		Logger:    logger,
	}
	if cfg.ElevenLabs.APIKey == "" {
		logger.Warn("ELEVENLABS_API_KEY not set, voice cloning and TTS run offline")
	}

	h := &handler.Handler{
		Leads:          &controller.LeadController{LeadService: leadService, Logger: logger},
		Campaigns:      &controller.CampaignController{CampaignService: campaignService, Logger: logger},
		Voices:         &controller.VoiceController{VoiceService: voiceService, Logger: logger},
		Twilio:         &controller.TwilioController{Logger: logger},
		Logger:         logger,
		AllowedOrigins: cfg.HTTP.AllowedOrigins(),
		MaxBodyBytes:   cfg.HTTP.MaxBodyBytes,
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("CallGenie server running", slog.Int("port", int(cfg.HTTP.Port)), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}

	// closing the queue cancels running simulations
	if err := q.Close(); err != nil {
		logger.Error("queue close error", slog.Any("error", err))
	}
	dialer.Wait()
	logger.Info("server gracefully stopped")
	return nil
}
