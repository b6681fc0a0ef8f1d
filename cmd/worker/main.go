// cmd/worker/main.go runs the campaign dialer as a RabbitMQ consumer so the
// HTTP server can run with QUEUE_DRIVER=amqp.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/unclebandit/callgenie-backend/internal/config"
	"github.com/unclebandit/callgenie-backend/internal/config/configs"
	"github.com/unclebandit/callgenie-backend/internal/db"
	"github.com/unclebandit/callgenie-backend/internal/queue"
	"github.com/unclebandit/callgenie-backend/internal/repository"
	"github.com/unclebandit/callgenie-backend/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("worker exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := cfg.Log.New(os.Stdout)

	if cfg.Store.Driver != configs.StoreDriverPostgres {
		logger.Warn("worker is using a file store; the server will not see its updates unless it shares the file and is idle")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, closer, err := db.OpenStores(ctx, cfg.Store, cfg.Psql, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closer.Close()

	q, err := queue.NewAMQPQueue(cfg.Queue.AMQPURL, logger)
	if err != nil {
		return err
	}

	dialer, err := startWorker(q, stores, cfg.Dialer, logger)
	if err != nil {
		q.Close()
		return err
	}

	logger.Info("worker running, waiting for campaigns")
	<-ctx.Done()

	q.Close()
	dialer.Wait()
	logger.Info("worker stopped")
	return nil
}

// startWorker subscribes a dialer to campaign start jobs on q.
func startWorker(q queue.Queue, stores repository.Stores, cfg configs.Dialer, logger *slog.Logger) (*service.Dialer, error) {
	dialer := service.NewDialer(stores.Leads, stores.Campaigns, cfg.Interval, cfg.MaxLeads, logger)
	if err := queue.StartCampaignSubscriber(q, dialer, logger); err != nil {
		return nil, fmt.Errorf("subscribe campaign starts: %w", err)
	}
	return dialer, nil
}
