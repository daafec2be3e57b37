// Command migrate applies, inspects and rolls back the catalog schema.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"toolkit/internal/config"
	"toolkit/internal/database"
)

const usageText = `usage: migrate <command>

  up              apply pending SQL migrations (PostgreSQL)
  auto            run GORM AutoMigrate for every catalog table
  status          show the schema plan, applied and pending migrations, missing tables
  down <version>  revert one applied migration`

func main() {
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usageText) }
	flag.Parse()

	if err := run(context.Background(), flag.Args()); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) < 1 {
		flag.Usage()
		return fmt.Errorf("missing command")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "up":
		if err := database.RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
		log.Println("sql migrations applied")

	case "auto":
		cfg.DBSchemaMode = database.SchemaModeAuto
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			return fmt.Errorf("auto schema apply failed: %w", err)
		}
		log.Println("automigrations applied")

	case "status":
		status, err := database.GetSchemaStatus(ctx, db, cfg)
		if err != nil {
			return fmt.Errorf("schema status failed: %w", err)
		}
		printStatus(status)

	case "down":
		if len(args) < 2 {
			return fmt.Errorf("down needs a version, e.g. migrate down 1")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[1], err)
		}
		if err := database.RollbackMigration(ctx, db, version); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		log.Printf("rolled back migration %06d", version)

	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", args[0])
	}

	return nil
}

func printStatus(s *database.SchemaStatus) {
	log.Printf("mode=%s env=%s run_sql=%t run_auto=%t", s.Mode, s.Env, s.RunSQL, s.RunAuto)
	log.Printf("applied=%v pending=%d missing_tables=%d", s.AppliedVersions, len(s.PendingMigrations), len(s.MissingTables))
	for _, m := range s.PendingMigrations {
		log.Printf("pending: %s", m.String())
	}
	for _, table := range s.MissingTables {
		log.Printf("missing table: %s", table)
	}
	if s.UpToDate() {
		log.Println("schema is up to date")
	}
}
