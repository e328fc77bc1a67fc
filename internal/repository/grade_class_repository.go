package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// GradeClassRepository reads grade classes.
type GradeClassRepository struct {
	db *sqlx.DB
}

// NewGradeClassRepository constructs the repository.
func NewGradeClassRepository(db *sqlx.DB) *GradeClassRepository {
	return &GradeClassRepository{db: db}
}

// FindByID loads a grade class by id.
func (r *GradeClassRepository) FindByID(ctx context.Context, id string) (*models.GradeClass, error) {
	const query = `SELECT id, name, grade_level, academic_year, created_at, updated_at FROM grade_classes WHERE id = $1`
	var class models.GradeClass
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}
