package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

const timeConfigColumns = `id, academic_year, school_start_time, school_end_time, period_duration, break_duration, max_periods_per_day, break_times, created_at, updated_at`

// TimeConfigRepository persists one school-day configuration per academic year.
type TimeConfigRepository struct {
	db *sqlx.DB
}

// NewTimeConfigRepository constructs the repository.
func NewTimeConfigRepository(db *sqlx.DB) *TimeConfigRepository {
	return &TimeConfigRepository{db: db}
}

// GetByYear returns the configuration of an academic year.
func (r *TimeConfigRepository) GetByYear(ctx context.Context, academicYear string) (*models.SchoolTimeConfig, error) {
	query := `SELECT ` + timeConfigColumns + ` FROM school_time_configs WHERE academic_year = $1`
	var cfg models.SchoolTimeConfig
	if err := r.db.GetContext(ctx, &cfg, query, academicYear); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// List returns all configurations, most recent academic year first.
func (r *TimeConfigRepository) List(ctx context.Context) ([]models.SchoolTimeConfig, error) {
	query := `SELECT ` + timeConfigColumns + ` FROM school_time_configs ORDER BY academic_year DESC`
	var configs []models.SchoolTimeConfig
	if err := r.db.SelectContext(ctx, &configs, query); err != nil {
		return nil, fmt.Errorf("list school time configs: %w", err)
	}
	return configs, nil
}

// Create stores a new configuration.
func (r *TimeConfigRepository) Create(ctx context.Context, cfg *models.SchoolTimeConfig) error {
	prepareTimeConfig(cfg)
	const query = `INSERT INTO school_time_configs (id, academic_year, school_start_time, school_end_time, period_duration, break_duration, max_periods_per_day, break_times, created_at, updated_at)
		VALUES (:id, :academic_year, :school_start_time, :school_end_time, :period_duration, :break_duration, :max_periods_per_day, :break_times, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, cfg); err != nil {
		return fmt.Errorf("create school time config: %w", err)
	}
	return nil
}

// GetOrCreate returns the configuration of defaults.AcademicYear, inserting
// defaults first when none exists. Concurrent callers converge on one row.
func (r *TimeConfigRepository) GetOrCreate(ctx context.Context, defaults models.SchoolTimeConfig) (*models.SchoolTimeConfig, error) {
	prepareTimeConfig(&defaults)
	const query = `INSERT INTO school_time_configs (id, academic_year, school_start_time, school_end_time, period_duration, break_duration, max_periods_per_day, break_times, created_at, updated_at)
		VALUES (:id, :academic_year, :school_start_time, :school_end_time, :period_duration, :break_duration, :max_periods_per_day, :break_times, :created_at, :updated_at)
		ON CONFLICT (academic_year) DO NOTHING`
	if _, err := r.db.NamedExecContext(ctx, query, &defaults); err != nil {
		return nil, fmt.Errorf("ensure school time config: %w", err)
	}
	cfg, err := r.GetByYear(ctx, defaults.AcademicYear)
	if err != nil {
		return nil, fmt.Errorf("load school time config: %w", err)
	}
	return cfg, nil
}

// Update overwrites the mutable fields of a configuration.
func (r *TimeConfigRepository) Update(ctx context.Context, cfg *models.SchoolTimeConfig) error {
	cfg.UpdatedAt = time.Now().UTC()
	if len(cfg.BreakTimes) == 0 {
		cfg.BreakTimes = []byte("[]")
	}
	const query = `UPDATE school_time_configs SET school_start_time = :school_start_time, school_end_time = :school_end_time,
		period_duration = :period_duration, break_duration = :break_duration, max_periods_per_day = :max_periods_per_day,
		break_times = :break_times, updated_at = :updated_at WHERE academic_year = :academic_year`
	if _, err := r.db.NamedExecContext(ctx, query, cfg); err != nil {
		return fmt.Errorf("update school time config: %w", err)
	}
	return nil
}

func prepareTimeConfig(cfg *models.SchoolTimeConfig) {
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if cfg.CreatedAt.IsZero() {
		cfg.CreatedAt = now
	}
	cfg.UpdatedAt = now
	if len(cfg.BreakTimes) == 0 {
		cfg.BreakTimes = []byte("[]")
	}
}
