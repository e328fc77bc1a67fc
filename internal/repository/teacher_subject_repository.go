package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// TeacherSubjectRepository manages which teachers may teach a subject.
type TeacherSubjectRepository struct {
	db *sqlx.DB
}

// NewTeacherSubjectRepository constructs the repository.
func NewTeacherSubjectRepository(db *sqlx.DB) *TeacherSubjectRepository {
	return &TeacherSubjectRepository{db: db}
}

// ListBySubject returns the teachers of a subject in assignment order.
func (r *TeacherSubjectRepository) ListBySubject(ctx context.Context, subjectID string) ([]models.TeacherSubjectDetail, error) {
	const query = `SELECT ts.id, ts.teacher_id, ts.subject_id, ts.is_primary, ts.created_at, t.full_name AS teacher_name
		FROM teacher_subjects ts
		JOIN teachers t ON t.id = ts.teacher_id
		WHERE ts.subject_id = $1
		ORDER BY ts.is_primary DESC, ts.created_at ASC, ts.id ASC`
	var links []models.TeacherSubjectDetail
	if err := r.db.SelectContext(ctx, &links, query, subjectID); err != nil {
		return nil, fmt.Errorf("list teacher subjects: %w", err)
	}
	return links, nil
}

// ReplaceForSubject swaps the full teacher set of a subject in one transaction.
func (r *TeacherSubjectRepository) ReplaceForSubject(ctx context.Context, subjectID string, links []models.TeacherSubject) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace teacher subjects: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM teacher_subjects WHERE subject_id = $1`, subjectID); err != nil {
		return fmt.Errorf("delete teacher subjects: %w", err)
	}

	now := time.Now().UTC()
	for i := range links {
		link := &links[i]
		link.SubjectID = subjectID
		if link.ID == "" {
			link.ID = uuid.NewString()
		}
		// keep submission order stable under ORDER BY created_at
		link.CreatedAt = now.Add(time.Duration(i) * time.Microsecond)
		if _, err = tx.NamedExecContext(ctx, `INSERT INTO teacher_subjects (id, teacher_id, subject_id, is_primary, created_at) VALUES (:id, :teacher_id, :subject_id, :is_primary, :created_at)`, link); err != nil {
			return fmt.Errorf("insert teacher subject: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit teacher subjects: %w", err)
	}
	return nil
}
