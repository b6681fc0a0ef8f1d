//cmd/seeder/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/unclebandit/callgenie-backend/internal/config"
	"github.com/unclebandit/callgenie-backend/internal/db"
	"github.com/unclebandit/callgenie-backend/internal/service"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(seedFiles []string) error {
	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := cfg.Log.New(os.Stdout)

	if len(seedFiles) == 0 {
		seedFiles = []string{"seed/leads.csv"}
	}

	ctx := context.Background()
	stores, closer, err := db.OpenStores(ctx, cfg.Store, cfg.Psql, logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	leads := &service.LeadService{LeadRepo: stores.Leads, Logger: logger}

	total := 0
	for _, file := range seedFiles {
		n, err := seedFile(ctx, leads, file)
		if err != nil {
			return fmt.Errorf("failed to seed %s: %w", file, err)
		}
		total += n
		fmt.Printf("Seeded: %s (%d leads)\n", file, n)
	}

	fmt.Printf("Lead seeding completed successfully! %d leads imported\n", total)
	return nil
}

func seedFile(ctx context.Context, leads *service.LeadService, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	res, err := leads.ImportCSV(ctx, f)
	if err != nil {
		return 0, err
	}
	return res.Count, nil
}
