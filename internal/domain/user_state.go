package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// UserState is the snapshot of a user's day the orchestrator derives
// candidates from.
type UserState struct {
	UserID       string       `json:"user_id"`
	Timezone     string       `json:"timezone,omitempty"`
	TrainingPlan TrainingPlan `json:"training_plan"`
	Macros       MacroStatus  `json:"macros"`
	Yesterday    DayActivity  `json:"yesterday"`
	LastLogAt    time.Time    `json:"last_log_at,omitempty"`
	Streak       int          `json:"streak"`
	CheckIn      CheckIn      `json:"check_in"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

type TrainingPlan struct {
	HasWorkout    bool   `json:"has_workout"`
	WorkoutName   string `json:"workout_name,omitempty"`
	PreferredTime string `json:"preferred_time,omitempty"` // HH:MM local
	Completed     bool   `json:"completed"`
}

type MacroTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

type MacroStatus struct {
	Target MacroTotals `json:"target"`
	Logged MacroTotals `json:"logged"`
}

// ProteinRatio reports logged over target protein; false when no target is set.
func (m MacroStatus) ProteinRatio() (float64, bool) {
	if m.Target.Protein <= 0 {
		return 0, false
	}
	return m.Logged.Protein / m.Target.Protein, true
}

// CalorieRatio reports logged over target calories; false when no target is set.
func (m MacroStatus) CalorieRatio() (float64, bool) {
	if m.Target.Calories <= 0 {
		return 0, false
	}
	return m.Logged.Calories / m.Target.Calories, true
}

type DayActivity struct {
	Trained   bool `json:"trained"`
	HitMacros bool `json:"hit_macros"`
}

type CheckIn struct {
	Weekday           time.Weekday `json:"weekday"`
	SubmittedThisWeek bool         `json:"submitted_this_week"`
}

// Location resolves the user's timezone, falling back to def.
func (s *UserState) Location(def *time.Location) *time.Location {
	if s == nil || s.Timezone == "" {
		return def
	}

	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return def
	}

	return loc
}

// LoggedOn reports whether the user logged anything on the calendar day of t.
func (s *UserState) LoggedOn(t time.Time) bool {
	if s == nil || s.LastLogAt.IsZero() {
		return false
	}

	last := s.LastLogAt.In(t.Location())
	y1, m1, d1 := last.Date()
	y2, m2, d2 := t.Date()

	return y1 == y2 && m1 == m2 && d1 == d2
}

// ParseClock parses an "HH:MM" wall clock time.
func ParseClock(s string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid clock %q", s)
	}

	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in clock %q", s)
	}

	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in clock %q", s)
	}

	return hour, minute, nil
}
