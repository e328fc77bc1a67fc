package scheduler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

var weekdays = []int{1, 2, 3, 4, 5}

func defaultSlots(t *testing.T) []TimeSlot {
	t.Helper()
	slots, err := BuildSlots(models.DefaultSchoolTimeConfig("2025/2026"))
	require.NoError(t, err)
	return slots
}

func fourPeriodSlots() []TimeSlot {
	return []TimeSlot{
		slotAt(1, "07:00"),
		slotAt(2, "08:00"),
		slotAt(3, "10:30"),
		slotAt(4, "13:00"),
	}
}

func singleTeacher(subjectID, teacherID string, pref *Preference) []*TeacherAvailability {
	return BuildForSubject(subjectID, []TeacherAssignment{{TeacherID: teacherID, Preference: pref}})
}

func TestGenerateSingleSubjectOneHourPerDay(t *testing.T) {
	index := Index{"math": singleTeacher("math", "t1", &Preference{TimePreference: models.TimePreferenceAny, MaxHoursPerDay: 8})}

	result, err := Generate([]Demand{
		{SubjectID: "math", HoursPerWeek: 3, PreferredDays: []int{1, 2, 3, 4, 5}},
	}, index, defaultSlots(t), weekdays)
	require.NoError(t, err)

	require.Len(t, result.Assignments, 3)
	for i, assignment := range result.Assignments {
		assert.Equal(t, i+1, assignment.Day)
		assert.Equal(t, 1, assignment.Period)
		assert.Equal(t, "07:30", assignment.StartTime)
		assert.Equal(t, "09:00", assignment.EndTime)
		assert.Equal(t, "t1", assignment.TeacherID)
	}
	assert.Empty(t, result.Shortfalls)
	assert.Equal(t, map[int]int{1: 1, 2: 1, 3: 1}, result.SubjectsPerDay)
}

func TestGenerateShortfallBoundedByPreferredDays(t *testing.T) {
	index := Index{"math": singleTeacher("math", "t1", nil)}

	result, err := Generate([]Demand{
		{SubjectID: "math", SubjectName: "Mathematics", HoursPerWeek: 5, PreferredDays: []int{1, 2}},
	}, index, defaultSlots(t), weekdays)
	require.NoError(t, err)

	assert.Len(t, result.Assignments, 2)
	require.Len(t, result.Shortfalls, 1)
	assert.Equal(t, Shortfall{SubjectID: "math", SubjectName: "Mathematics", Needed: 5, Assigned: 2}, result.Shortfalls[0])
	assert.Equal(t, "Mathematics: 2/5 hours assigned", result.Shortfalls[0].Warning())
}

func TestGenerateHonoursUnavailableDayAndMorningPreference(t *testing.T) {
	index := Index{"math": singleTeacher("math", "t1", &Preference{
		TimePreference:  models.TimePreferenceMorning,
		UnavailableDays: []int{1},
	})}
	// occupy the early periods so a naive fill would reach the afternoon
	index["bio"] = singleTeacher("bio", "t2", nil)

	result, err := Generate([]Demand{
		{SubjectID: "bio", HoursPerWeek: 5},
		{SubjectID: "math", HoursPerWeek: 5},
	}, index, defaultSlots(t), weekdays)
	require.NoError(t, err)

	for _, assignment := range result.Assignments {
		if assignment.TeacherID != "t1" {
			continue
		}
		assert.NotEqual(t, 1, assignment.Day)
		minutes, err := ClockMinutes(assignment.StartTime)
		require.NoError(t, err)
		assert.Less(t, minutes/60, 10)
	}
	var mathHours int
	for _, assignment := range result.Assignments {
		if assignment.SubjectID == "math" {
			mathHours++
			assert.Equal(t, 2, assignment.Period, "period 1 is taken by bio, period 3 starts after 10:00")
		}
	}
	assert.Equal(t, 4, mathHours)
}

func TestGenerateLargestDemandFirst(t *testing.T) {
	index := Index{
		"art":  singleTeacher("art", "t1", nil),
		"math": singleTeacher("math", "t2", nil),
	}

	result, err := Generate([]Demand{
		{SubjectID: "art", HoursPerWeek: 2, PreferredDays: []int{1, 2}},
		{SubjectID: "math", HoursPerWeek: 4, PreferredDays: []int{1, 2}},
	}, index, fourPeriodSlots(), weekdays)
	require.NoError(t, err)

	require.Len(t, result.Assignments, 4)
	assert.Equal(t, "math", result.Assignments[0].SubjectID)
	assert.Equal(t, 1, result.Assignments[0].Period)
	assert.Equal(t, "math", result.Assignments[1].SubjectID)
	assert.Equal(t, "art", result.Assignments[2].SubjectID)
	assert.Equal(t, 2, result.Assignments[2].Period)

	require.Len(t, result.Shortfalls, 1)
	assert.Equal(t, "math", result.Shortfalls[0].SubjectID)
}

func TestGenerateTiesKeepInputOrder(t *testing.T) {
	index := Index{
		"b": singleTeacher("b", "t1", nil),
		"a": singleTeacher("a", "t2", nil),
	}

	result, err := Generate([]Demand{
		{SubjectID: "b", HoursPerWeek: 1},
		{SubjectID: "a", HoursPerWeek: 1},
	}, index, fourPeriodSlots(), weekdays)
	require.NoError(t, err)

	require.Len(t, result.Assignments, 2)
	assert.Equal(t, "b", result.Assignments[0].SubjectID)
	assert.Equal(t, 1, result.Assignments[0].Period)
	assert.Equal(t, "a", result.Assignments[1].SubjectID)
	assert.Equal(t, 2, result.Assignments[1].Period)
}

func TestGeneratePrefersPrimaryThenFallsBack(t *testing.T) {
	index := Index{"math": BuildForSubject("math", []TeacherAssignment{
		{TeacherID: "backup"},
		{TeacherID: "primary", IsPrimary: true, Preference: &Preference{UnavailableDays: []int{2}}},
	})}

	result, err := Generate([]Demand{
		{SubjectID: "math", HoursPerWeek: 3, PreferredDays: []int{1, 2, 3}},
	}, index, fourPeriodSlots(), weekdays)
	require.NoError(t, err)

	require.Len(t, result.Assignments, 3)
	assert.Equal(t, "primary", result.Assignments[0].TeacherID)
	assert.Equal(t, "backup", result.Assignments[1].TeacherID)
	assert.Equal(t, "primary", result.Assignments[2].TeacherID)
}

func TestGenerateSkipsTeacherBookedInAnotherClass(t *testing.T) {
	index := Index{"math": BuildForSubject("math", []TeacherAssignment{
		{TeacherID: "t1", Booked: []Booking{{Day: 1, Period: 1}, {Day: 1, Period: 2}}},
	})}

	result, err := Generate([]Demand{
		{SubjectID: "math", HoursPerWeek: 1, PreferredDays: []int{1}},
	}, index, fourPeriodSlots(), weekdays)
	require.NoError(t, err)

	require.Len(t, result.Assignments, 1)
	assert.Equal(t, 3, result.Assignments[0].Period)
}

func TestGenerateWeeklyCapSpansBookingsAndSubjects(t *testing.T) {
	t1 := TeacherAssignment{
		TeacherID:  "t1",
		Preference: &Preference{MaxHoursPerWeek: 2},
		Booked:     []Booking{{Day: 1, Period: 1}, {Day: 2, Period: 1}},
	}
	index := BuildIndex([]SubjectTeachers{
		{SubjectID: "math", Teachers: []TeacherAssignment{t1}},
		{SubjectID: "physics", Teachers: []TeacherAssignment{t1}},
	})

	result, err := Generate([]Demand{
		{SubjectID: "math", HoursPerWeek: 2},
		{SubjectID: "physics", HoursPerWeek: 2},
	}, index, defaultSlots(t), weekdays)
	require.NoError(t, err)

	assert.Empty(t, result.Assignments)
	require.Len(t, result.Shortfalls, 2)
	for _, shortfall := range result.Shortfalls {
		assert.Equal(t, 0, shortfall.Assigned)
	}
}

func TestGenerateWeeklyCapSharedAcrossSubjects(t *testing.T) {
	t1 := TeacherAssignment{TeacherID: "t1", Preference: &Preference{MaxHoursPerWeek: 3}}
	index := BuildIndex([]SubjectTeachers{
		{SubjectID: "math", Teachers: []TeacherAssignment{t1}},
		{SubjectID: "physics", Teachers: []TeacherAssignment{t1}},
	})

	result, err := Generate([]Demand{
		{SubjectID: "math", HoursPerWeek: 2},
		{SubjectID: "physics", HoursPerWeek: 2},
	}, index, defaultSlots(t), weekdays)
	require.NoError(t, err)

	assert.Len(t, result.Assignments, 3)
	require.Len(t, result.Shortfalls, 1)
	assert.Equal(t, 1, result.Shortfalls[0].Assigned)
}

func TestGenerateFailsFastWithoutTeachers(t *testing.T) {
	index := Index{
		"math": singleTeacher("math", "t1", nil),
		"art":  {},
	}

	result, err := Generate([]Demand{
		{SubjectID: "math", SubjectName: "Mathematics", HoursPerWeek: 2},
		{SubjectID: "art", SubjectName: "Art", HoursPerWeek: 1},
		{SubjectID: "music", HoursPerWeek: 1},
	}, index, fourPeriodSlots(), weekdays)
	require.Error(t, err)
	assert.Nil(t, result)

	var missing *NoEligibleTeachersError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"Art", "music"}, missing.Subjects)
	assert.Zero(t, index["math"][0].TotalHoursAssigned, "no scheduling work before the precondition check")
}

func TestGenerateRejectsDuplicateSubjects(t *testing.T) {
	index := Index{"math": singleTeacher("math", "t1", nil)}

	_, err := Generate([]Demand{
		{SubjectID: "math", HoursPerWeek: 2},
		{SubjectID: "math", HoursPerWeek: 1},
	}, index, fourPeriodSlots(), weekdays)

	var dup *DuplicateDemandError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "math", dup.SubjectID)
}

func TestGenerateZeroResult(t *testing.T) {
	index := Index{"math": singleTeacher("math", "t1", &Preference{UnavailableDays: weekdays})}

	result, err := Generate([]Demand{
		{SubjectID: "math", HoursPerWeek: 3},
	}, index, fourPeriodSlots(), weekdays)
	require.NoError(t, err)

	assert.Empty(t, result.Assignments)
	require.Len(t, result.Shortfalls, 1)
	assert.Equal(t, 0, result.Shortfalls[0].Assigned)
}

func TestGenerateNoArtificialShortfall(t *testing.T) {
	index := Index{}
	var demands []Demand
	for i, hours := range []int{5, 5, 5, 3, 2} {
		id := fmt.Sprintf("s%d", i)
		index[id] = singleTeacher(id, fmt.Sprintf("t%d", i), nil)
		demands = append(demands, Demand{SubjectID: id, HoursPerWeek: hours})
	}

	result, err := Generate(demands, index, fourPeriodSlots(), weekdays)
	require.NoError(t, err)
	assert.Empty(t, result.Shortfalls)
	assert.Len(t, result.Assignments, 20)
}

func TestGenerateInvariants(t *testing.T) {
	shared := []TeacherAssignment{{TeacherID: "shared"}, {TeacherID: "other", Preference: &Preference{TimePreference: models.TimePreferenceAfternoon}}}
	index := Index{
		"math":    BuildForSubject("math", shared),
		"physics": BuildForSubject("physics", shared),
		"bio":     singleTeacher("bio", "t3", &Preference{MaxHoursPerDay: 1}),
		"art":     singleTeacher("art", "t4", &Preference{TimePreference: models.TimePreferenceMidday}),
	}
	demands := []Demand{
		{SubjectID: "math", HoursPerWeek: 5},
		{SubjectID: "physics", HoursPerWeek: 4, PreferredDays: []int{5, 4, 3, 2, 1}},
		{SubjectID: "bio", HoursPerWeek: 3},
		{SubjectID: "art", HoursPerWeek: 6, PreferredDays: []int{1, 1, 2}},
	}

	result, err := Generate(demands, index, defaultSlots(t), weekdays)
	require.NoError(t, err)

	classSlots := map[[2]int]bool{}
	teacherSlots := map[string]bool{}
	subjectDays := map[string]bool{}
	for _, a := range result.Assignments {
		key := [2]int{a.Day, a.Period}
		assert.False(t, classSlots[key], "class slot reused: %v", key)
		classSlots[key] = true

		tkey := fmt.Sprintf("%s/%d/%d", a.TeacherID, a.Day, a.Period)
		assert.False(t, teacherSlots[tkey], "teacher double-booked: %s", tkey)
		teacherSlots[tkey] = true

		skey := fmt.Sprintf("%s/%d", a.SubjectID, a.Day)
		assert.False(t, subjectDays[skey], "subject repeated on a day: %s", skey)
		subjectDays[skey] = true
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	build := func() Index {
		return Index{
			"math": BuildForSubject("math", []TeacherAssignment{{TeacherID: "t1"}, {TeacherID: "t2", IsPrimary: true}}),
			"bio":  singleTeacher("bio", "t3", &Preference{TimePreference: models.TimePreferenceMidday}),
			"art":  singleTeacher("art", "t4", nil),
		}
	}
	demands := []Demand{
		{SubjectID: "art", HoursPerWeek: 2},
		{SubjectID: "math", HoursPerWeek: 4},
		{SubjectID: "bio", HoursPerWeek: 4},
	}
	slots := defaultSlots(t)

	first, err := Generate(demands, build(), slots, weekdays)
	require.NoError(t, err)
	second, err := Generate(demands, build(), slots, weekdays)
	require.NoError(t, err)
	assert.Equal(t, first.Assignments, second.Assignments)
	assert.Equal(t, first.Shortfalls, second.Shortfalls)
}
