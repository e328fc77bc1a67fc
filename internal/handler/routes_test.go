package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type tokenStub struct{}

func (tokenStub) ValidateToken(token string) (*models.JWTClaims, error) {
	switch token {
	case "admin":
		return &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin}, nil
	case "teacher":
		return &models.JWTClaims{UserID: "teacher-1", Role: models.RoleTeacher}, nil
	}
	return nil, appErrors.Wrap(errors.New("unknown token"), appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
}

type timeConfigServiceMock struct {
	lastYear string
}

func (m *timeConfigServiceMock) Create(ctx context.Context, req dto.CreateTimeConfigRequest) (*models.SchoolTimeConfig, error) {
	return &models.SchoolTimeConfig{AcademicYear: req.AcademicYear}, nil
}

func (m *timeConfigServiceMock) Get(ctx context.Context, academicYear string) (*models.SchoolTimeConfig, error) {
	m.lastYear = academicYear
	return &models.SchoolTimeConfig{AcademicYear: academicYear}, nil
}

func (m *timeConfigServiceMock) Update(ctx context.Context, academicYear string, req dto.UpdateTimeConfigRequest) (*models.SchoolTimeConfig, error) {
	m.lastYear = academicYear
	return &models.SchoolTimeConfig{AcademicYear: academicYear}, nil
}

func (m *timeConfigServiceMock) List(ctx context.Context) ([]models.SchoolTimeConfig, error) {
	return []models.SchoolTimeConfig{}, nil
}

func (m *timeConfigServiceMock) Slots(ctx context.Context, academicYear string) (*dto.TimeSlotsResponse, error) {
	m.lastYear = academicYear
	return &dto.TimeSlotsResponse{AcademicYear: academicYear}, nil
}

type subjectHoursServiceMock struct {
	route string
}

func (m *subjectHoursServiceMock) Create(ctx context.Context, req dto.CreateSubjectHoursRequest) (*models.SubjectHoursDetail, error) {
	m.route = "create"
	return &models.SubjectHoursDetail{}, nil
}

func (m *subjectHoursServiceMock) Get(ctx context.Context, subjectID, gradeClassID string) (*models.SubjectHoursDetail, error) {
	m.route = "get:" + subjectID + ":" + gradeClassID
	return &models.SubjectHoursDetail{}, nil
}

func (m *subjectHoursServiceMock) Update(ctx context.Context, subjectID, gradeClassID string, req dto.UpdateSubjectHoursRequest) (*models.SubjectHoursDetail, error) {
	m.route = "update:" + subjectID + ":" + gradeClassID
	return &models.SubjectHoursDetail{}, nil
}

func (m *subjectHoursServiceMock) ListByClass(ctx context.Context, gradeClassID string) ([]models.SubjectHoursDetail, error) {
	m.route = "list:" + gradeClassID
	return []models.SubjectHoursDetail{
		{SubjectHours: models.SubjectHours{HoursPerWeek: 4}},
		{SubjectHours: models.SubjectHours{HoursPerWeek: 2}},
	}, nil
}

type teacherPreferenceServiceMock struct{}

func (teacherPreferenceServiceMock) Get(ctx context.Context, teacherID string) (*dto.TeacherPreferenceResponse, error) {
	return &dto.TeacherPreferenceResponse{TeacherID: teacherID}, nil
}

func (teacherPreferenceServiceMock) Upsert(ctx context.Context, teacherID string, req dto.UpsertTeacherPreferenceRequest) (*dto.TeacherPreferenceResponse, error) {
	return &dto.TeacherPreferenceResponse{TeacherID: teacherID, Stored: true}, nil
}

type subjectTeacherServiceMock struct{}

func (subjectTeacherServiceMock) ListTeachers(ctx context.Context, subjectID string) ([]models.TeacherSubjectDetail, error) {
	return []models.TeacherSubjectDetail{}, nil
}

func (subjectTeacherServiceMock) AssignTeachers(ctx context.Context, subjectID string, req dto.AssignTeachersRequest) ([]models.TeacherSubjectDetail, error) {
	return []models.TeacherSubjectDetail{}, nil
}

type routerFixture struct {
	engine       *gin.Engine
	timeConfigs  *timeConfigServiceMock
	subjectHours *subjectHoursServiceMock
}

func newRouterFixture() *routerFixture {
	gin.SetMode(gin.TestMode)
	f := &routerFixture{
		engine:       gin.New(),
		timeConfigs:  &timeConfigServiceMock{},
		subjectHours: &subjectHoursServiceMock{},
	}
	RegisterRoutes(f.engine.Group("/api/v1"), Handlers{
		Timetable: NewTimetableHandler(&timetableServiceMock{
			generated: &dto.GenerateTimetableResponse{Status: dto.TimetableStatusComplete},
		}),
		TimeConfig:        NewTimeConfigHandler(f.timeConfigs),
		SubjectHours:      NewSubjectHoursHandler(f.subjectHours),
		TeacherPreference: NewTeacherPreferenceHandler(teacherPreferenceServiceMock{}),
		SubjectTeacher:    NewSubjectTeacherHandler(subjectTeacherServiceMock{}),
	}, tokenStub{})
	return f
}

func (f *routerFixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	f.engine.ServeHTTP(w, req)
	return w
}

func TestRoutesAccessControl(t *testing.T) {
	f := newRouterFixture()

	cases := []struct {
		method string
		path   string
		token  string
		body   string
		status int
	}{
		{http.MethodPost, "/api/v1/schedule/generate", "", `{"gradeClassId":"c"}`, http.StatusUnauthorized},
		{http.MethodPost, "/api/v1/schedule/generate", "teacher", `{"gradeClassId":"c"}`, http.StatusForbidden},
		{http.MethodPost, "/api/v1/schedule/generate", "admin", `{"gradeClassId":"c"}`, http.StatusCreated},
		{http.MethodGet, "/api/v1/schedule/timetable/c", "teacher", "", http.StatusOK},
		{http.MethodDelete, "/api/v1/schedule/timetable/c", "teacher", "", http.StatusForbidden},
		{http.MethodDelete, "/api/v1/schedule/timetable/c", "admin", "", http.StatusOK},
		{http.MethodPost, "/api/v1/schedule/config", "teacher", `{}`, http.StatusForbidden},
		{http.MethodGet, "/api/v1/schedule/config", "teacher", "", http.StatusOK},
		{http.MethodPut, "/api/v1/schedule/config/2025-2026", "teacher", `{}`, http.StatusForbidden},
		{http.MethodGet, "/api/v1/schedule/teacher-preference/teacher-1", "teacher", "", http.StatusOK},
		{http.MethodGet, "/api/v1/schedule/teacher-preference/teacher-2", "teacher", "", http.StatusForbidden},
		{http.MethodPut, "/api/v1/schedule/teacher-preference/teacher-2", "admin", `{"maxHoursPerDay":4}`, http.StatusOK},
		{http.MethodGet, "/api/v1/subjects/math/teachers", "teacher", "", http.StatusOK},
		{http.MethodPut, "/api/v1/subjects/math/teachers", "teacher", `{"teachers":[]}`, http.StatusForbidden},
	}
	for _, tc := range cases {
		w := f.do(tc.method, tc.path, tc.token, tc.body)
		assert.Equal(t, tc.status, w.Code, "%s %s as %q", tc.method, tc.path, tc.token)
	}
}

func TestRoutesAcademicYearPath(t *testing.T) {
	f := newRouterFixture()

	w := f.do(http.MethodGet, "/api/v1/schedule/config/2025-2026/slots", "teacher", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2025/2026", f.timeConfigs.lastYear)

	w = f.do(http.MethodPut, "/api/v1/schedule/config/2026-2027", "admin", `{"periodDuration":45}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2026/2027", f.timeConfigs.lastYear)
}

func TestRoutesSubjectHoursPaths(t *testing.T) {
	f := newRouterFixture()

	w := f.do(http.MethodGet, "/api/v1/schedule/subject-hours/class/class-1", "teacher", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "list:class-1", f.subjectHours.route)
	meta := decodeEnvelope(t, w)["meta"].(map[string]interface{})
	assert.EqualValues(t, 6, meta["total_hours"])

	w = f.do(http.MethodGet, "/api/v1/schedule/subject-hours/math/class-1", "teacher", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "get:math:class-1", f.subjectHours.route)

	w = f.do(http.MethodPut, "/api/v1/schedule/subject-hours/math/class-1", "admin", `{"hoursPerWeek":3}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "update:math:class-1", f.subjectHours.route)
}
