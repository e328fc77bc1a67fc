package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/repository"
	"github.com/noah-isme/sma-timetable-api/internal/scheduler"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/middleware/requestid"
)

type gradeClassReader interface {
	FindByID(ctx context.Context, id string) (*models.GradeClass, error)
}

type timeConfigProvider interface {
	GetOrCreate(ctx context.Context, defaults models.SchoolTimeConfig) (*models.SchoolTimeConfig, error)
}

type subjectCatalog interface {
	ListWithTeachers(ctx context.Context, subjectIDs []string, gradeLevel string) ([]models.SubjectWithTeachers, error)
}

type subjectHoursLister interface {
	ListByGradeClass(ctx context.Context, gradeClassID string) ([]models.SubjectHoursDetail, error)
}

type timetableStore interface {
	ListByGradeClass(ctx context.Context, gradeClassID string) ([]models.ScheduleEntryDetail, error)
	ListTeacherBookings(ctx context.Context, teacherIDs []string, excludeGradeClassID string) ([]models.TeacherBooking, error)
	LockGradeClass(ctx context.Context, exec sqlx.QueryerContext, gradeClassID string) error
	DeleteByGradeClass(ctx context.Context, exec sqlx.ExecerContext, gradeClassID string) (int64, error)
	BulkCreate(ctx context.Context, exec sqlx.ExtContext, entries []models.ScheduleEntry) error
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

var dayNames = map[int]string{
	1: "Monday",
	2: "Tuesday",
	3: "Wednesday",
	4: "Thursday",
	5: "Friday",
	6: "Saturday",
	7: "Sunday",
}

// TimetableServiceConfig tunes generation defaults and caching.
type TimetableServiceConfig struct {
	DefaultDays []int
	CacheTTL    time.Duration
}

// TimetableService generates, reads and clears grade class timetables.
type TimetableService struct {
	classes   gradeClassReader
	configs   timeConfigProvider
	subjects  subjectCatalog
	hours     subjectHoursLister
	schedules timetableStore
	tx        txProvider
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       TimetableServiceConfig
}

// NewTimetableService wires the timetable service.
func NewTimetableService(
	classes gradeClassReader,
	configs timeConfigProvider,
	subjects subjectCatalog,
	hours subjectHoursLister,
	schedules timetableStore,
	tx txProvider,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg TimetableServiceConfig,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.DefaultDays = normalizeDays(cfg.DefaultDays)
	if len(cfg.DefaultDays) == 0 {
		cfg.DefaultDays = []int{1, 2, 3, 4, 5, 6}
	}
	return &TimetableService{
		classes:   classes,
		configs:   configs,
		subjects:  subjects,
		hours:     hours,
		schedules: schedules,
		tx:        tx,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

func timetableCacheKey(gradeClassID string) string {
	return "timetable:" + gradeClassID
}

// Generate builds and stores a new weekly timetable for a grade class, replacing
// any previous one. Shortfalls are reported, never treated as failures.
func (s *TimetableService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	started := time.Now()
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable request")
	}

	class, err := s.loadClass(ctx, req.GradeClassID)
	if err != nil {
		return nil, err
	}

	demands, err := s.resolveDemands(ctx, class.ID, req.Subjects)
	if err != nil {
		return nil, err
	}

	academicYear := req.AcademicYear
	if academicYear == "" {
		academicYear = class.AcademicYear
	}
	cfg, err := s.configs.GetOrCreate(ctx, models.DefaultSchoolTimeConfig(academicYear))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load school time config")
	}
	slots, err := scheduler.BuildSlots(*cfg)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPreconditionFailed.Code, appErrors.ErrPreconditionFailed.Status, "school time config is invalid")
	}

	activeDays := normalizeDays(req.ActiveDays)
	if len(activeDays) == 0 {
		activeDays = s.cfg.DefaultDays
	}

	index, err := s.buildIndex(ctx, class, demands)
	if err != nil {
		return nil, err
	}

	result, err := scheduler.Generate(demands, index, slots, activeDays)
	if err != nil {
		var missing *scheduler.NoEligibleTeachersError
		if errors.As(err, &missing) {
			return nil, appErrors.Wrap(err, appErrors.ErrPreconditionFailed.Code, appErrors.ErrPreconditionFailed.Status, err.Error()).
				WithDetails(map[string]interface{}{"subjects": missing.Subjects})
		}
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	entries := make([]models.ScheduleEntry, 0, len(result.Assignments))
	for _, a := range result.Assignments {
		entries = append(entries, models.ScheduleEntry{
			GradeClassID: class.ID,
			SubjectID:    a.SubjectID,
			TeacherID:    a.TeacherID,
			Day:          a.Day,
			Period:       a.Period,
			StartTime:    a.StartTime,
			EndTime:      a.EndTime,
		})
	}

	if err := s.replace(ctx, class.ID, entries); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, timetableCacheKey(class.ID))

	resp := &dto.GenerateTimetableResponse{
		GradeClassID:        class.ID,
		ScheduleCount:       len(entries),
		TotalSlotsAvailable: len(slots) * len(activeDays),
	}
	missingHours := 0
	for _, shortfall := range result.Shortfalls {
		missingHours += shortfall.Needed - shortfall.Assigned
		resp.Warnings = append(resp.Warnings, shortfall.Warning())
		resp.Shortfalls = append(resp.Shortfalls, dto.SubjectShortfall{
			SubjectID:   shortfall.SubjectID,
			SubjectName: shortfall.SubjectName,
			Needed:      shortfall.Needed,
			Assigned:    shortfall.Assigned,
		})
	}
	switch {
	case len(entries) == 0:
		resp.Status = dto.TimetableStatusEmpty
		resp.Message = "No lessons could be placed; the previous timetable was cleared"
	case len(result.Shortfalls) > 0:
		resp.Status = dto.TimetableStatusPartial
		resp.Message = fmt.Sprintf("Timetable generated with %d subject(s) below their weekly hours", len(result.Shortfalls))
	default:
		resp.Status = dto.TimetableStatusComplete
		resp.Message = "Timetable generated successfully"
	}

	s.metrics.RecordGeneration(resp.Status, len(entries), missingHours, time.Since(started))
	s.logger.Info("timetable generated",
		zap.String("request_id", requestid.FromContext(ctx)),
		zap.String("grade_class_id", class.ID),
		zap.String("academic_year", cfg.AcademicYear),
		zap.String("status", resp.Status),
		zap.Int("subjects", len(demands)),
		zap.Int("slots_per_day", len(slots)),
		zap.Ints("active_days", activeDays),
		zap.Int("entries", len(entries)),
		zap.Int("shortfalls", len(result.Shortfalls)),
		zap.Duration("took", time.Since(started)),
	)
	for _, shortfall := range result.Shortfalls {
		s.logger.Debug("subject below weekly hours",
			zap.String("grade_class_id", class.ID),
			zap.String("subject_id", shortfall.SubjectID),
			zap.Int("needed", shortfall.Needed),
			zap.Int("assigned", shortfall.Assigned),
		)
	}

	return resp, nil
}

// Get returns the stored timetable of a grade class grouped per weekday.
func (s *TimetableService) Get(ctx context.Context, gradeClassID string) (*dto.TimetableResponse, error) {
	class, err := s.loadClass(ctx, gradeClassID)
	if err != nil {
		return nil, err
	}

	cfg, err := s.configs.GetOrCreate(ctx, models.DefaultSchoolTimeConfig(class.AcademicYear))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load school time config")
	}
	layout, err := scheduler.BuildDayLayout(*cfg)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPreconditionFailed.Code, appErrors.ErrPreconditionFailed.Status, "school time config is invalid")
	}

	var entries []models.ScheduleEntryDetail
	key := timetableCacheKey(class.ID)
	if !s.cache.Get(ctx, key, &entries) {
		entries, err = s.schedules.ListByGradeClass(ctx, class.ID)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to load timetable")
		}
		s.cache.Set(ctx, key, entries, s.cfg.CacheTTL)
	}

	return &dto.TimetableResponse{
		GradeClass:   *class,
		AcademicYear: cfg.AcademicYear,
		Layout:       layout,
		Timetable:    groupByDay(entries),
		TotalEntries: len(entries),
	}, nil
}

// Clear deletes the timetable of a grade class.
func (s *TimetableService) Clear(ctx context.Context, gradeClassID string) (*dto.ClearTimetableResponse, error) {
	class, err := s.loadClass(ctx, gradeClassID)
	if err != nil {
		return nil, err
	}

	var deleted int64
	err = s.withClassLock(ctx, class.ID, func(tx *sqlx.Tx) error {
		var err error
		deleted, err = s.schedules.DeleteByGradeClass(ctx, tx, class.ID)
		return err
	})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to clear timetable")
	}
	s.cache.Invalidate(ctx, timetableCacheKey(class.ID))

	s.logger.Info("timetable cleared",
		zap.String("request_id", requestid.FromContext(ctx)),
		zap.String("grade_class_id", class.ID),
		zap.Int64("deleted", deleted),
	)
	return &dto.ClearTimetableResponse{GradeClassID: class.ID, DeletedCount: deleted}, nil
}

func (s *TimetableService) loadClass(ctx context.Context, id string) (*models.GradeClass, error) {
	class, err := s.classes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "grade class not found")
		}
		return nil, appErrors.Internal(err, "failed to load grade class")
	}
	return class, nil
}

// resolveDemands turns the request subjects, or the stored subject hours of the
// class when none are given, into allocator demands.
func (s *TimetableService) resolveDemands(ctx context.Context, gradeClassID string, requested []dto.SubjectDemandRequest) ([]scheduler.Demand, error) {
	var demands []scheduler.Demand
	if len(requested) > 0 {
		for _, subject := range requested {
			demands = append(demands, scheduler.Demand{
				SubjectID:     subject.SubjectID,
				HoursPerWeek:  subject.HoursPerWeek,
				PreferredDays: subject.PreferredDays,
			})
		}
	} else {
		stored, err := s.hours.ListByGradeClass(ctx, gradeClassID)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to load subject hours")
		}
		if len(stored) == 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "no subjects requested and no subject hours configured for this grade class")
		}
		for _, hours := range stored {
			days, err := hours.Days()
			if err != nil {
				return nil, appErrors.Internal(err, "failed to decode preferred days")
			}
			demands = append(demands, scheduler.Demand{
				SubjectID:     hours.SubjectID,
				SubjectName:   hours.SubjectName,
				HoursPerWeek:  hours.HoursPerWeek,
				PreferredDays: days,
			})
		}
	}

	seen := make(map[string]struct{}, len(demands))
	for _, demand := range demands {
		if _, dup := seen[demand.SubjectID]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("subject %s requested more than once", demand.SubjectID))
		}
		seen[demand.SubjectID] = struct{}{}
	}
	return demands, nil
}

// buildIndex loads the teachers of every demanded subject, their preferences and
// the cells they already teach in other classes. Demand names are filled in.
// Weekly caps count those cells plus every subject the teacher takes in this run.
func (s *TimetableService) buildIndex(ctx context.Context, class *models.GradeClass, demands []scheduler.Demand) (scheduler.Index, error) {
	ids := make([]string, 0, len(demands))
	for _, demand := range demands {
		ids = append(ids, demand.SubjectID)
	}
	subjects, err := s.subjects.ListWithTeachers(ctx, ids, class.GradeLevel)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load subjects")
	}

	bySubject := make(map[string]models.SubjectWithTeachers, len(subjects))
	teacherSet := make(map[string]struct{})
	var teacherIDs []string
	for _, subject := range subjects {
		bySubject[subject.Subject.ID] = subject
		for _, teacher := range subject.Teachers {
			if _, ok := teacherSet[teacher.TeacherID]; !ok {
				teacherSet[teacher.TeacherID] = struct{}{}
				teacherIDs = append(teacherIDs, teacher.TeacherID)
			}
		}
	}

	var unknown []string
	for i := range demands {
		subject, ok := bySubject[demands[i].SubjectID]
		if !ok {
			unknown = append(unknown, demands[i].SubjectID)
			continue
		}
		demands[i].SubjectName = subject.Subject.Name
	}
	if len(unknown) > 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed,
			fmt.Sprintf("subjects not found for grade level %s: %s", class.GradeLevel, strings.Join(unknown, ", "))).
			WithDetails(map[string]interface{}{"subjectIds": unknown})
	}

	bookings, err := s.schedules.ListTeacherBookings(ctx, teacherIDs, class.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load teacher bookings")
	}
	booked := make(map[string][]scheduler.Booking)
	for _, b := range bookings {
		booked[b.TeacherID] = append(booked[b.TeacherID], scheduler.Booking{Day: b.Day, Period: b.Period})
	}

	eligible := make([]scheduler.SubjectTeachers, 0, len(subjects))
	for _, subject := range subjects {
		assignments := make([]scheduler.TeacherAssignment, 0, len(subject.Teachers))
		for _, teacher := range subject.Teachers {
			assignment := scheduler.TeacherAssignment{
				TeacherID:   teacher.TeacherID,
				TeacherName: teacher.TeacherName,
				IsPrimary:   teacher.IsPrimary,
				Booked:      booked[teacher.TeacherID],
			}
			if pref := teacher.Preference; pref != nil {
				days, err := pref.Days()
				if err != nil {
					return nil, appErrors.Internal(err, "failed to decode teacher unavailable days")
				}
				assignment.Preference = &scheduler.Preference{
					TimePreference:  pref.TimePreference,
					MaxHoursPerDay:  pref.MaxHoursPerDay,
					MaxHoursPerWeek: pref.MaxHoursPerWeek,
					UnavailableDays: days,
				}
			}
			assignments = append(assignments, assignment)
		}
		eligible = append(eligible, scheduler.SubjectTeachers{SubjectID: subject.Subject.ID, Teachers: assignments})
	}
	return scheduler.BuildIndex(eligible), nil
}

// replace swaps the stored timetable of a class for entries in one transaction.
func (s *TimetableService) replace(ctx context.Context, gradeClassID string, entries []models.ScheduleEntry) error {
	started := time.Now()
	err := s.withClassLock(ctx, gradeClassID, func(tx *sqlx.Tx) error {
		if _, err := s.schedules.DeleteByGradeClass(ctx, tx, gradeClassID); err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return s.schedules.BulkCreate(ctx, tx, entries)
	})
	s.metrics.ObserveDBQuery("timetable_replace", time.Since(started))
	if err != nil {
		if errors.Is(err, repository.ErrTeacherSlotTaken) {
			return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status,
				"a teacher was booked by another timetable while this one was generated; retry the request")
		}
		return appErrors.Internal(err, "failed to persist timetable")
	}
	return nil
}

func (s *TimetableService) withClassLock(ctx context.Context, gradeClassID string, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.schedules.LockGradeClass(ctx, tx, gradeClassID); err != nil {
		return err
	}
	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// groupByDay buckets entries per weekday. Monday to Saturday are always listed.
func groupByDay(entries []models.ScheduleEntryDetail) []dto.TimetableDay {
	byDay := make(map[int][]models.ScheduleEntryDetail)
	for _, entry := range entries {
		byDay[entry.Day] = append(byDay[entry.Day], entry)
	}
	days := []int{1, 2, 3, 4, 5, 6}
	for day := range byDay {
		if day < 1 || day > 6 {
			days = append(days, day)
		}
	}
	sort.Ints(days)

	result := make([]dto.TimetableDay, 0, len(days))
	for _, day := range days {
		schedules := byDay[day]
		if schedules == nil {
			schedules = []models.ScheduleEntryDetail{}
		}
		sort.SliceStable(schedules, func(i, j int) bool { return schedules[i].Period < schedules[j].Period })
		result = append(result, dto.TimetableDay{Day: day, DayName: dayNames[day], Schedules: schedules})
	}
	return result
}

// normalizeDays returns the distinct weekdays in 1..7, ascending.
func normalizeDays(days []int) []int {
	seen := make(map[int]struct{}, len(days))
	var out []int
	for _, day := range days {
		if day < 1 || day > 7 {
			continue
		}
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		out = append(out, day)
	}
	sort.Ints(out)
	return out
}
