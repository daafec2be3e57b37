package database

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"toolkit/internal/config"
	"toolkit/internal/middleware"

	"gorm.io/gorm"
)

// DB_SCHEMA_MODE values.
const (
	SchemaModeHybrid = "hybrid"
	SchemaModeSQL    = "sql"
	SchemaModeAuto   = "auto"
)

// SchemaPlan is the set of schema steps a configuration allows.
type SchemaPlan struct {
	Mode    string
	Env     string
	RunSQL  bool
	RunAuto bool
}

// SchemaStatus describes the database against the plan. MissingTables lists catalog tables
// that do not exist yet; a fresh database reports all of them.
type SchemaStatus struct {
	SchemaPlan
	AppliedVersions   []int
	PendingMigrations []Migration
	MissingTables     []string
}

// UpToDate reports whether nothing is pending and every table exists.
func (s *SchemaStatus) UpToDate() bool {
	return len(s.PendingMigrations) == 0 && len(s.MissingTables) == 0
}

func isProdLikeEnv(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "production", "prod", "staging", "stage":
		return true
	}
	return false
}

// PlanSchema resolves DB_SCHEMA_MODE for the configured driver and environment.
// The SQL migrations target PostgreSQL, so SQLite databases are always built with AutoMigrate.
// Hybrid runs the SQL migrations everywhere and AutoMigrate only outside production-like envs.
func PlanSchema(cfg *config.Config) (SchemaPlan, error) {
	plan := SchemaPlan{Mode: strings.ToLower(strings.TrimSpace(cfg.DBSchemaMode)), Env: cfg.Env}
	if plan.Mode == "" {
		plan.Mode = SchemaModeHybrid
	}
	prodLike := isProdLikeEnv(cfg.Env)

	if !slices.Contains([]string{SchemaModeSQL, SchemaModeAuto, SchemaModeHybrid}, plan.Mode) {
		return plan, fmt.Errorf("unsupported DB_SCHEMA_MODE %q", plan.Mode)
	}

	switch {
	case driverName(cfg) == DriverSQLite:
		plan.RunAuto = true
	case plan.Mode == SchemaModeSQL:
		plan.RunSQL = true
	case plan.Mode == SchemaModeAuto:
		if prodLike && !cfg.DBAutoMigrateAllowDestructive {
			return plan, fmt.Errorf("refusing DB_SCHEMA_MODE=auto in %q without DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE=true", cfg.Env)
		}
		plan.RunAuto = true
	default:
		plan.RunSQL = true
		plan.RunAuto = !prodLike
	}
	return plan, nil
}

// AutoMigrate creates or updates every persistent table, including the resource_tags join table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(PersistentModels()...)
}

// ApplySchema runs the steps PlanSchema allows, SQL migrations first.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	plan, err := PlanSchema(cfg)
	if err != nil {
		return err
	}

	if plan.RunSQL {
		if err := RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("run sql migrations: %w", err)
		}
	}

	if plan.RunAuto {
		if plan.Mode == SchemaModeAuto && cfg.DBAutoMigrateAllowDestructive {
			middleware.Logger.Warn("DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE=true set for DB_SCHEMA_MODE=auto; review schema diffs before production deployment")
		}
		middleware.Logger.Info("Running GORM AutoMigrate", slog.String("mode", plan.Mode), slog.String("env", plan.Env))
		if err := AutoMigrate(db.WithContext(ctx)); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
	}

	return nil
}

// GetSchemaStatus compares the database with the plan without changing it.
func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	plan, err := PlanSchema(cfg)
	if err != nil {
		return nil, err
	}
	status := &SchemaStatus{SchemaPlan: plan, MissingTables: MissingTables(db.WithContext(ctx))}

	if !plan.RunSQL {
		return status, nil
	}

	applied, err := NewMigrationStore(db).GetAppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}
	status.AppliedVersions = applied

	for _, m := range GetMigrations() {
		if !slices.Contains(applied, m.Version) {
			status.PendingMigrations = append(status.PendingMigrations, m)
		}
	}

	return status, nil
}

// MissingTables returns the catalog tables the database does not have, in migration order.
func MissingTables(db *gorm.DB) []string {
	var missing []string
	for _, table := range PersistentTables() {
		if !db.Migrator().HasTable(table) {
			missing = append(missing, table)
		}
	}
	return missing
}
