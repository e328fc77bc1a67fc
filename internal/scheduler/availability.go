package scheduler

import (
	"sort"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// preferenceWindows holds half-open [from, to) start-hour ranges per preference.
var preferenceWindows = map[models.TimePreference][2]int{
	models.TimePreferenceMorning:   {7, 10},
	models.TimePreferenceMidday:    {10, 13},
	models.TimePreferenceAfternoon: {13, 16},
}

// Booking is a (day, period) a teacher already holds elsewhere.
type Booking struct {
	Day    int
	Period int
}

// Preference carries the stored constraints of a teacher.
type Preference struct {
	TimePreference  models.TimePreference
	MaxHoursPerDay  int
	MaxHoursPerWeek int
	UnavailableDays []int
}

// TeacherAssignment is a teacher eligible for a subject as read from the store.
type TeacherAssignment struct {
	TeacherID   string
	TeacherName string
	IsPrimary   bool
	Preference  *Preference
	Booked      []Booking
}

// TeacherAvailability tracks one (teacher, subject) pairing during a single generation run.
type TeacherAvailability struct {
	TeacherID          string
	TeacherName        string
	SubjectID          string
	IsPrimary          bool
	TimePreference     models.TimePreference
	MaxHoursPerDay     int
	MaxHoursPerWeek    int
	UnavailableDays    []int
	CurrentHoursByDay  map[int]int
	TotalHoursAssigned int

	load *teacherLoad
}

// teacherLoad is the week of one teacher: the cells held in other classes plus
// those committed in this run. Every pairing of the teacher shares it.
type teacherLoad struct {
	booked map[Booking]struct{}
}

func (l *teacherLoad) book(b Booking) {
	l.booked[b] = struct{}{}
}

// SubjectTeachers lists the eligible teachers of one subject.
type SubjectTeachers struct {
	SubjectID string
	Teachers  []TeacherAssignment
}

// BuildIndex ranks the teachers of every subject. A teacher eligible for
// several subjects gets one weekly load across all of them, so MaxHoursPerWeek
// counts existing bookings and every subject taught in the run.
func BuildIndex(subjects []SubjectTeachers) Index {
	loads := make(map[string]*teacherLoad)
	index := make(Index, len(subjects))
	for _, subject := range subjects {
		index[subject.SubjectID] = rank(subject.SubjectID, subject.Teachers, loads)
	}
	return index
}

// BuildForSubject returns the ranked availability list for a subject: primary
// teachers first, the source order otherwise.
func BuildForSubject(subjectID string, assignments []TeacherAssignment) []*TeacherAvailability {
	return rank(subjectID, assignments, make(map[string]*teacherLoad))
}

func rank(subjectID string, assignments []TeacherAssignment, loads map[string]*teacherLoad) []*TeacherAvailability {
	teachers := make([]*TeacherAvailability, 0, len(assignments))
	for _, assignment := range assignments {
		load, ok := loads[assignment.TeacherID]
		if !ok {
			load = &teacherLoad{booked: make(map[Booking]struct{}, len(assignment.Booked))}
			loads[assignment.TeacherID] = load
		}
		for _, booking := range assignment.Booked {
			load.book(booking)
		}
		teachers = append(teachers, newTeacherAvailability(subjectID, assignment, load))
	}
	sort.SliceStable(teachers, func(i, j int) bool {
		return teachers[i].IsPrimary && !teachers[j].IsPrimary
	})
	return teachers
}

func newTeacherAvailability(subjectID string, assignment TeacherAssignment, load *teacherLoad) *TeacherAvailability {
	t := &TeacherAvailability{
		TeacherID:         assignment.TeacherID,
		TeacherName:       assignment.TeacherName,
		SubjectID:         subjectID,
		IsPrimary:         assignment.IsPrimary,
		TimePreference:    models.TimePreferenceAny,
		MaxHoursPerDay:    models.DefaultMaxHoursPerDay,
		CurrentHoursByDay: make(map[int]int),
		load:              load,
	}
	if pref := assignment.Preference; pref != nil {
		if pref.TimePreference != "" {
			t.TimePreference = pref.TimePreference
		}
		if pref.MaxHoursPerDay > 0 {
			t.MaxHoursPerDay = pref.MaxHoursPerDay
		}
		t.MaxHoursPerWeek = pref.MaxHoursPerWeek
		t.UnavailableDays = append([]int(nil), pref.UnavailableDays...)
	}
	return t
}

// WeeklyHours is the number of distinct cells the teacher holds this week,
// in any class and for any subject.
func (t *TeacherAvailability) WeeklyHours() int {
	return len(t.load.booked)
}

// IsAvailable reports whether the teacher can take slot on day.
func (t *TeacherAvailability) IsAvailable(day int, slot TimeSlot) bool {
	for _, blocked := range t.UnavailableDays {
		if blocked == day {
			return false
		}
	}
	if t.CurrentHoursByDay[day] >= t.MaxHoursPerDay {
		return false
	}
	if t.MaxHoursPerWeek > 0 && t.WeeklyHours() >= t.MaxHoursPerWeek {
		return false
	}
	if _, taken := t.load.booked[Booking{Day: day, Period: slot.Period}]; taken {
		return false
	}
	return withinPreference(t.TimePreference, slot.StartHour())
}

// Commit records one taught hour on day. The daily count stays with this
// pairing; the week is shared with the teacher's other subjects.
func (t *TeacherAvailability) Commit(day int, slot TimeSlot) {
	t.CurrentHoursByDay[day]++
	t.TotalHoursAssigned++
	t.load.book(Booking{Day: day, Period: slot.Period})
}

func withinPreference(pref models.TimePreference, hour int) bool {
	window, ok := preferenceWindows[pref]
	if !ok {
		return true
	}
	return hour >= window[0] && hour < window[1]
}
