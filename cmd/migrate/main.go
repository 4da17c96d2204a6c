// Command migrate runs schema operations for the API database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"devconnector/internal/config"
	"devconnector/internal/database"
	"devconnector/internal/models"

	"gorm.io/driver/postgres"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|status>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Open rather than Connect: Connect migrates implicitly outside production.
	db, err := database.Open(postgres.Open(cfg.DSN()), cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Ping(ctx, db); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		if err := database.Migrate(db.WithContext(ctx)); err != nil {
			return err
		}
		log.Println("schema migrated")
	case "status":
		migrator := db.WithContext(ctx).Migrator()
		for _, model := range models.AllModels() {
			log.Printf("%-24T present=%t", model, migrator.HasTable(model))
		}
	default:
		return usage()
	}

	return nil
}
