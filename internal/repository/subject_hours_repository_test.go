package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

var subjectHoursColumns = []string{"id", "subject_id", "grade_class_id", "hours_per_week", "preferred_days", "created_at", "updated_at", "subject_name", "subject_code"}

func TestSubjectHoursRepositoryListByGradeClass(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubjectHoursRepository(db)

	now := time.Now()
	mock.ExpectQuery("FROM subject_hours sh .*WHERE sh.grade_class_id = \\$1 ORDER BY sh.hours_per_week DESC").
		WithArgs("class-1").
		WillReturnRows(sqlmock.NewRows(subjectHoursColumns).
			AddRow("h1", "math", "class-1", 5, `[1,3]`, now, now, "Mathematics", "MTK").
			AddRow("h2", "bio", "class-1", 2, `[]`, now, now, "Biology", "BIO"))

	hours, err := repo.ListByGradeClass(context.Background(), "class-1")
	require.NoError(t, err)
	require.Len(t, hours, 2)
	assert.Equal(t, 5, hours[0].HoursPerWeek)
	days, err := hours[0].Days()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, days)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectHoursRepositoryCreateAndUpdate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubjectHoursRepository(db)

	mock.ExpectExec("INSERT INTO subject_hours").
		WithArgs(sqlmock.AnyArg(), "math", "class-1", 4, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE subject_hours SET hours_per_week").
		WithArgs(6, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	hours := &models.SubjectHours{SubjectID: "math", GradeClassID: "class-1", HoursPerWeek: 4}
	require.NoError(t, repo.Create(context.Background(), hours))
	assert.NotEmpty(t, hours.ID)
	assert.Equal(t, "[]", hours.PreferredDays.String())

	hours.HoursPerWeek = 6
	require.NoError(t, repo.Update(context.Background(), hours))
	assert.NoError(t, mock.ExpectationsWereMet())
}
