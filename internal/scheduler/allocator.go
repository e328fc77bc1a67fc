package scheduler

import (
	"fmt"
	"sort"
	"strings"
)

// Demand is the weekly hour quota requested for one subject.
type Demand struct {
	SubjectID     string
	SubjectName   string
	HoursPerWeek  int
	PreferredDays []int
}

func (d Demand) label() string {
	if d.SubjectName != "" {
		return d.SubjectName
	}
	return d.SubjectID
}

// Assignment is a committed (day, period, subject, teacher) placement.
type Assignment struct {
	Day       int
	Period    int
	StartTime string
	EndTime   string
	SubjectID string
	TeacherID string
}

// Shortfall reports a subject that could not receive its full weekly quota.
type Shortfall struct {
	SubjectID   string `json:"subjectId"`
	SubjectName string `json:"subjectName"`
	Needed      int    `json:"needed"`
	Assigned    int    `json:"assigned"`
}

// Warning renders the shortfall for API consumers.
func (s Shortfall) Warning() string {
	name := s.SubjectName
	if name == "" {
		name = s.SubjectID
	}
	return fmt.Sprintf("%s: %d/%d hours assigned", name, s.Assigned, s.Needed)
}

// Result is the outcome of one allocator run.
type Result struct {
	Assignments []Assignment
	// Shortfalls follow the order demands were supplied in.
	Shortfalls []Shortfall
	// SubjectsPerDay counts distinct subjects placed on each day.
	SubjectsPerDay map[int]int
}

// Index maps a subject id to its ranked teacher availability list.
type Index map[string][]*TeacherAvailability

// NoEligibleTeachersError rejects a request naming subjects that have no teacher.
type NoEligibleTeachersError struct {
	Subjects []string
}

func (e *NoEligibleTeachersError) Error() string {
	return fmt.Sprintf("the following subjects have no assigned teachers: %s", strings.Join(e.Subjects, ", "))
}

// DuplicateDemandError rejects a request that lists a subject twice.
type DuplicateDemandError struct {
	SubjectID string
}

func (e *DuplicateDemandError) Error() string {
	return fmt.Sprintf("subject %s requested more than once", e.SubjectID)
}

// Generate fills the week greedily. Larger demands go first; each subject takes
// at most one hour per day, on the earliest free period that some teacher can
// take, trying teachers in index order. Nothing is ever reassigned.
func Generate(demands []Demand, index Index, slots []TimeSlot, activeDays []int) (*Result, error) {
	if err := checkDemands(demands, index); err != nil {
		return nil, err
	}

	ordered := make([]Demand, len(demands))
	copy(ordered, demands)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].HoursPerWeek > ordered[j].HoursPerWeek
	})

	r := newRun(slots)
	assigned := make(map[string]int, len(demands))
	for _, demand := range ordered {
		days := demand.PreferredDays
		if len(days) == 0 {
			days = activeDays
		}
		assigned[demand.SubjectID] = r.fill(demand, index[demand.SubjectID], days)
	}

	result := &Result{
		Assignments:    r.assignments,
		SubjectsPerDay: make(map[int]int, len(r.subjectDays)),
	}
	for _, demand := range demands {
		if got := assigned[demand.SubjectID]; got < demand.HoursPerWeek {
			result.Shortfalls = append(result.Shortfalls, Shortfall{
				SubjectID:   demand.SubjectID,
				SubjectName: demand.SubjectName,
				Needed:      demand.HoursPerWeek,
				Assigned:    got,
			})
		}
	}
	for day, subjects := range r.subjectDays {
		result.SubjectsPerDay[day] = len(subjects)
	}
	return result, nil
}

func checkDemands(demands []Demand, index Index) error {
	seen := make(map[string]struct{}, len(demands))
	var missing []string
	for _, demand := range demands {
		if _, dup := seen[demand.SubjectID]; dup {
			return &DuplicateDemandError{SubjectID: demand.SubjectID}
		}
		seen[demand.SubjectID] = struct{}{}
		if len(index[demand.SubjectID]) == 0 {
			missing = append(missing, demand.label())
		}
	}
	if len(missing) > 0 {
		return &NoEligibleTeachersError{Subjects: missing}
	}
	return nil
}

type slotKey struct {
	day    int
	period int
}

// run owns all mutable state of one Generate call.
type run struct {
	slots       []TimeSlot
	occupied    map[slotKey]struct{}
	subjectDays map[int]map[string]struct{}
	assignments []Assignment
}

func newRun(slots []TimeSlot) *run {
	ordered := make([]TimeSlot, 0, len(slots))
	for _, slot := range slots {
		if !slot.IsBreak {
			ordered = append(ordered, slot)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Period < ordered[j].Period
	})
	return &run{
		slots:       ordered,
		occupied:    make(map[slotKey]struct{}),
		subjectDays: make(map[int]map[string]struct{}),
	}
}

func (r *run) fill(demand Demand, teachers []*TeacherAvailability, days []int) int {
	assigned := 0
	for _, day := range days {
		if assigned >= demand.HoursPerWeek {
			break
		}
		if r.placedOn(day, demand.SubjectID) {
			continue
		}
		slot, teacher, ok := r.pick(day, teachers)
		if !ok {
			continue
		}
		r.commit(day, slot, demand.SubjectID, teacher)
		assigned++
	}
	return assigned
}

// pick returns the earliest free period of day and the first teacher able to take it.
func (r *run) pick(day int, teachers []*TeacherAvailability) (TimeSlot, *TeacherAvailability, bool) {
	for _, slot := range r.slots {
		if _, taken := r.occupied[slotKey{day: day, period: slot.Period}]; taken {
			continue
		}
		for _, teacher := range teachers {
			if teacher.IsAvailable(day, slot) {
				return slot, teacher, true
			}
		}
	}
	return TimeSlot{}, nil, false
}

func (r *run) placedOn(day int, subjectID string) bool {
	_, ok := r.subjectDays[day][subjectID]
	return ok
}

func (r *run) commit(day int, slot TimeSlot, subjectID string, teacher *TeacherAvailability) {
	r.assignments = append(r.assignments, Assignment{
		Day:       day,
		Period:    slot.Period,
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
		SubjectID: subjectID,
		TeacherID: teacher.TeacherID,
	})
	r.occupied[slotKey{day: day, period: slot.Period}] = struct{}{}
	if r.subjectDays[day] == nil {
		r.subjectDays[day] = make(map[string]struct{})
	}
	r.subjectDays[day][subjectID] = struct{}{}
	teacher.Commit(day, slot)
}
