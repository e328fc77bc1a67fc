package errors

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	wrapped := fmt.Errorf("load timetable: %w", Clone(ErrNotFound, "grade class not found"))

	appErr := FromError(wrapped)
	assert.Equal(t, ErrNotFound.Code, appErr.Code)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, "grade class not found", appErr.Message)
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	appErr := FromError(sql.ErrConnDone)
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.True(t, errors.Is(appErr, sql.ErrConnDone))
	assert.Nil(t, FromError(nil))
}

func TestCloneDoesNotMutateOriginal(t *testing.T) {
	clone := Clone(ErrPreconditionFailed, "subjects have no teachers")
	assert.Equal(t, "precondition failed", ErrPreconditionFailed.Message)
	assert.Equal(t, "subjects have no teachers", clone.Message)
	assert.Equal(t, ErrPreconditionFailed.Message, Clone(ErrPreconditionFailed, "").Message)
}

func TestIsMatchesByCode(t *testing.T) {
	clone := Clone(ErrNotFound, "teacher not found")
	assert.True(t, errors.Is(fmt.Errorf("lookup: %w", clone), ErrNotFound))
	assert.False(t, errors.Is(clone, ErrConflict))
	assert.True(t, errors.Is(Internal(sql.ErrNoRows, "boom"), ErrInternal))
}

func TestWithDetails(t *testing.T) {
	err := Clone(ErrPreconditionFailed, "missing teachers").WithDetails([]string{"Art"})
	assert.Equal(t, []string{"Art"}, err.Details)
	assert.Nil(t, ErrPreconditionFailed.Details)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusOK, StatusOf(nil))
	assert.Equal(t, http.StatusConflict, StatusOf(Clone(ErrConflict, "")))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(sql.ErrTxDone))
}

func TestWrapMessage(t *testing.T) {
	err := Internal(sql.ErrTxDone, "failed to persist timetable")
	assert.Equal(t, "failed to persist timetable: sql: transaction has already been committed or rolled back", err.Error())
}
