package scheduler

import (
	"fmt"
	"time"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// TimeSlot is one block of a school day. Only non-break slots are schedulable.
type TimeSlot struct {
	Period      int    `json:"period"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	StartMinute int    `json:"-"`
	EndMinute   int    `json:"-"`
	IsBreak     bool   `json:"isBreak"`
}

// StartHour returns the clock hour the slot begins in, ignoring minutes.
func (s TimeSlot) StartHour() int {
	return s.StartMinute / 60
}

// BuildSlots derives the ordered teaching periods of a school day.
func BuildSlots(cfg models.SchoolTimeConfig) ([]TimeSlot, error) {
	layout, err := BuildDayLayout(cfg)
	if err != nil {
		return nil, err
	}
	slots := make([]TimeSlot, 0, len(layout))
	for _, slot := range layout {
		if !slot.IsBreak {
			slots = append(slots, slot)
		}
	}
	return slots, nil
}

// BuildDayLayout walks the school day and returns periods interleaved with the
// breaks that separate them. A break is listed under the period it follows and
// only when another period comes after it.
//
// A break override that would run past the end of the day is not applied, so
// the next period starts right away; the default break is always applied.
func BuildDayLayout(cfg models.SchoolTimeConfig) ([]TimeSlot, error) {
	start, err := parseClock(cfg.SchoolStartTime)
	if err != nil {
		return nil, fmt.Errorf("school start time: %w", err)
	}
	end, err := parseClock(cfg.SchoolEndTime)
	if err != nil {
		return nil, fmt.Errorf("school end time: %w", err)
	}
	if cfg.PeriodDuration <= 0 {
		return nil, fmt.Errorf("period duration must be positive, got %d", cfg.PeriodDuration)
	}
	breaks, err := cfg.Breaks()
	if err != nil {
		return nil, fmt.Errorf("decode break times: %w", err)
	}
	overrides := make(map[int]int, len(breaks))
	for _, b := range breaks {
		overrides[b.AfterPeriod] = b.Duration
	}

	var (
		layout  []TimeSlot
		pending *TimeSlot
		current = start
	)
	for period := 1; period <= cfg.MaxPeriodsPerDay && current < end; period++ {
		periodEnd := current + cfg.PeriodDuration
		if periodEnd > end {
			break
		}
		if pending != nil {
			layout = append(layout, *pending)
			pending = nil
		}
		layout = append(layout, newSlot(period, current, periodEnd, false))
		current = periodEnd

		duration := cfg.BreakDuration
		if override, ok := overrides[period]; ok && override > 0 {
			if current+override > end {
				continue
			}
			duration = override
		}
		if duration > 0 {
			brk := newSlot(period, current, current+duration, true)
			pending = &brk
			current += duration
		}
	}
	return layout, nil
}

func newSlot(period, startMinute, endMinute int, isBreak bool) TimeSlot {
	return TimeSlot{
		Period:      period,
		StartTime:   formatClock(startMinute),
		EndTime:     formatClock(endMinute),
		StartMinute: startMinute,
		EndMinute:   endMinute,
		IsBreak:     isBreak,
	}
}

// ClockMinutes converts an HH:MM clock time to minutes since midnight.
func ClockMinutes(raw string) (int, error) {
	return parseClock(raw)
}

func parseClock(raw string) (int, error) {
	parsed, err := time.Parse("15:04", raw)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q", raw)
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
