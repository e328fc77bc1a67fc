package service

import (
	"context"
	"net/http"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
)

type teacherSubjectRepoStub struct {
	links    map[string][]models.TeacherSubject
	replaced int
}

func (s *teacherSubjectRepoStub) ListBySubject(ctx context.Context, subjectID string) ([]models.TeacherSubjectDetail, error) {
	var out []models.TeacherSubjectDetail
	for _, link := range s.links[subjectID] {
		out = append(out, models.TeacherSubjectDetail{TeacherSubject: link, TeacherName: "name-" + link.TeacherID})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].IsPrimary && !out[j].IsPrimary })
	return out, nil
}

func (s *teacherSubjectRepoStub) ReplaceForSubject(ctx context.Context, subjectID string, links []models.TeacherSubject) error {
	s.replaced++
	s.links[subjectID] = append([]models.TeacherSubject(nil), links...)
	return nil
}

func newSubjectTeacherFixture() (*SubjectTeacherService, *teacherSubjectRepoStub) {
	subjects := &subjectReaderStub{items: map[string]*models.Subject{"math": {ID: "math", GradeLevel: "X"}}}
	teachers := &teacherReaderStub{items: map[string]*models.Teacher{
		"t1":      {ID: "t1", Active: true},
		"t2":      {ID: "t2", Active: true},
		"retired": {ID: "retired", Active: false},
	}}
	repo := &teacherSubjectRepoStub{links: map[string][]models.TeacherSubject{}}
	return NewSubjectTeacherService(subjects, teachers, repo, nil, nil), repo
}

func TestSubjectTeacherServiceAssign(t *testing.T) {
	svc, repo := newSubjectTeacherFixture()

	list, err := svc.AssignTeachers(context.Background(), "math", dto.AssignTeachersRequest{Teachers: []dto.SubjectTeacherRequest{
		{TeacherID: "t2"},
		{TeacherID: "t1", IsPrimary: true},
	}})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "t1", list[0].TeacherID)
	assert.True(t, list[0].IsPrimary)
	assert.Equal(t, "t2", list[1].TeacherID)
	assert.Equal(t, 1, repo.replaced)
}

func TestSubjectTeacherServiceAssignRejects(t *testing.T) {
	svc, repo := newSubjectTeacherFixture()

	cases := map[string]struct {
		subject string
		req     dto.AssignTeachersRequest
		status  int
	}{
		"two primaries": {"math", dto.AssignTeachersRequest{Teachers: []dto.SubjectTeacherRequest{
			{TeacherID: "t1", IsPrimary: true}, {TeacherID: "t2", IsPrimary: true},
		}}, http.StatusBadRequest},
		"duplicate":       {"math", dto.AssignTeachersRequest{Teachers: []dto.SubjectTeacherRequest{{TeacherID: "t1"}, {TeacherID: "t1"}}}, http.StatusBadRequest},
		"empty":           {"math", dto.AssignTeachersRequest{}, http.StatusBadRequest},
		"unknown teacher": {"math", dto.AssignTeachersRequest{Teachers: []dto.SubjectTeacherRequest{{TeacherID: "ghost"}}}, http.StatusNotFound},
		"inactive":        {"math", dto.AssignTeachersRequest{Teachers: []dto.SubjectTeacherRequest{{TeacherID: "retired"}}}, http.StatusNotFound},
		"unknown subject": {"art", dto.AssignTeachersRequest{Teachers: []dto.SubjectTeacherRequest{{TeacherID: "t1"}}}, http.StatusNotFound},
	}
	for name, tc := range cases {
		_, err := svc.AssignTeachers(context.Background(), tc.subject, tc.req)
		require.Error(t, err, name)
		assert.Equal(t, tc.status, appErrorStatus(t, err), name)
	}
	assert.Zero(t, repo.replaced)
}

func TestSubjectTeacherServiceListEmpty(t *testing.T) {
	svc, _ := newSubjectTeacherFixture()

	list, err := svc.ListTeachers(context.Background(), "math")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
