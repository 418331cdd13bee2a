// Command migrate runs schema operations for the backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"devconnect/internal/config"
	"devconnect/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|down|version|auto> [steps]")
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

	cmd := strings.ToLower(strings.TrimSpace(flag.Arg(0)))
	if cmd == "auto" {
		return autoMigrate(cfg)
	}

	if cfg.DBDriver != database.DriverPostgres {
		return fmt.Errorf("%s requires DB_DRIVER=postgres; use 'auto' for %s", cmd, cfg.DBDriver)
	}
	url := database.PostgresURL(cfg)

	switch cmd {
	case "up":
		if err := database.RunMigrations(url); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
		log.Println("sql migrations applied")
	case "down":
		steps := 1
		if flag.NArg() > 1 {
			steps, err = strconv.Atoi(flag.Arg(1))
			if err != nil || steps <= 0 {
				return fmt.Errorf("invalid step count %q", flag.Arg(1))
			}
		}
		if err := database.RollbackMigrations(url, steps); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		log.Printf("rolled back %d migration(s)", steps)
	case "version":
		version, dirty, err := database.MigrationVersion(url)
		if err != nil {
			return fmt.Errorf("read version: %w", err)
		}
		log.Printf("version=%d dirty=%t", version, dirty)
	default:
		return usage()
	}

	return nil
}

func autoMigrate(cfg *config.Config) error {
	if cfg.IsProduction() {
		return fmt.Errorf("auto migration is disabled in production; use 'up'")
	}
	db, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = database.Close(db) }()

	if err := database.AutoMigrate(db.WithContext(context.Background())); err != nil {
		return fmt.Errorf("auto schema apply failed: %w", err)
	}
	log.Println("automigrations applied")
	return nil
}
