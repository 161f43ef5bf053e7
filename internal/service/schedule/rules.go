package schedule

import (
	"fmt"
	"time"

	"github.com/KasumiMercury/primind-engagement-notifications/internal/domain"
)

const (
	CategoryMorning         = "engagement.morning"
	CategoryWorkoutReminder = "engagement.workout_reminder"
	CategoryProteinNudge    = "engagement.macro_nudge.protein"
	CategoryCalorieNudge    = "engagement.macro_nudge.calories"
	CategoryCheckInReminder = "engagement.checkin_reminder"
	CategoryStreakRisk      = "engagement.streak_risk"
	CategoryLogNudge        = "engagement.log_nudge"
)

const (
	proteinNudgeThreshold = 0.5
	calorieNudgeThreshold = 0.7
	criticalStreak        = 7
	logNudgeAfter         = 48 * time.Hour
	streakRiskLead        = 15 * time.Minute
	defaultWorkoutClock   = "17:00"
)

type clock struct {
	hour   int
	minute int
}

var (
	morningAt      = clock{8, 0}
	checkInAt      = clock{10, 0}
	logNudgeAt     = clock{12, 0}
	proteinNudgeAt = clock{14, 0}
	calorieNudgeAt = clock{19, 0}
	streakRiskAt   = clock{20, 30}
	streakCutoffAt = clock{23, 0}
)

// Rules derives today's candidates from a user's state. Candidates are
// returned in a fixed generation order.
type Rules struct{}

func NewRules() *Rules {
	return &Rules{}
}

// Candidates returns the candidates relevant to event. Candidates whose fire
// time is not after now are dropped.
func (r *Rules) Candidates(state *domain.UserState, event domain.Event, now time.Time, loc *time.Location) []domain.Candidate {
	local := now.In(loc)

	var builders []func(*domain.UserState, time.Time) (domain.Candidate, bool)

	switch event {
	case domain.EventAppOpen, domain.EventDailyWindow:
		builders = []func(*domain.UserState, time.Time) (domain.Candidate, bool){
			r.morning,
			r.workoutReminder,
			r.checkInReminder,
			r.logNudge,
			r.proteinNudge,
			r.calorieNudge,
			r.streakRisk,
		}
	case domain.EventMacroUpdate:
		builders = []func(*domain.UserState, time.Time) (domain.Candidate, bool){
			r.proteinNudge,
			r.calorieNudge,
		}
	case domain.EventStreakRisk:
		builders = []func(*domain.UserState, time.Time) (domain.Candidate, bool){
			r.streakRisk,
		}
	}

	candidates := make([]domain.Candidate, 0, len(builders))
	for _, build := range builders {
		c, ok := build(state, local)
		if !ok {
			continue
		}
		if !c.FireDate.After(now) {
			continue
		}
		candidates = append(candidates, c)
	}

	return candidates
}

// Cancellations lists today's identifiers made obsolete by event.
func (r *Rules) Cancellations(state *domain.UserState, event domain.Event, now time.Time, loc *time.Location) []string {
	local := now.In(loc)

	switch event {
	case domain.EventWorkoutCompleted:
		return []string{
			domain.DailyIdentifier(CategoryWorkoutReminder, local),
			domain.DailyIdentifier(CategoryStreakRisk, local),
		}
	case domain.EventMacroUpdate:
		var ids []string
		if ratio, ok := state.Macros.ProteinRatio(); ok && ratio >= proteinNudgeThreshold {
			ids = append(ids, domain.DailyIdentifier(CategoryProteinNudge, local))
		}
		if ratio, ok := state.Macros.CalorieRatio(); ok && ratio >= calorieNudgeThreshold {
			ids = append(ids, domain.DailyIdentifier(CategoryCalorieNudge, local))
		}
		return ids
	case domain.EventCheckInSubmitted:
		return []string{domain.DailyIdentifier(CategoryCheckInReminder, local)}
	default:
		return nil
	}
}

func (r *Rules) morning(state *domain.UserState, local time.Time) (domain.Candidate, bool) {
	body := "Plan your day: log breakfast and check today's workout."
	switch {
	case state.Yesterday.Trained && state.Yesterday.HitMacros:
		body = "Great work yesterday. Keep the momentum going today."
	case state.Yesterday.Trained:
		body = "Nice session yesterday. Let's get your nutrition on track today."
	case state.Yesterday.HitMacros:
		body = "You nailed your macros yesterday. Time to move today."
	}

	return newCandidate(CategoryMorning, at(local, morningAt), domain.PriorityLow,
		"Good morning", body), true
}

func (r *Rules) workoutReminder(state *domain.UserState, local time.Time) (domain.Candidate, bool) {
	plan := state.TrainingPlan
	if !plan.HasWorkout || plan.Completed {
		return domain.Candidate{}, false
	}

	preferred := plan.PreferredTime
	if preferred == "" {
		preferred = defaultWorkoutClock
	}

	hour, minute, err := domain.ParseClock(preferred)
	if err != nil {
		hour, minute, _ = domain.ParseClock(defaultWorkoutClock)
	}

	name := plan.WorkoutName
	if name == "" {
		name = "today's workout"
	}

	return newCandidate(CategoryWorkoutReminder, at(local, clock{hour, minute}), domain.PriorityNormal,
		"Workout time", fmt.Sprintf("Time for %s.", name)), true
}

func (r *Rules) proteinNudge(state *domain.UserState, local time.Time) (domain.Candidate, bool) {
	ratio, ok := state.Macros.ProteinRatio()
	if !ok || ratio >= proteinNudgeThreshold {
		return domain.Candidate{}, false
	}

	remaining := state.Macros.Target.Protein - state.Macros.Logged.Protein

	return newCandidate(CategoryProteinNudge, at(local, proteinNudgeAt), domain.PriorityNormal,
		"Protein check", fmt.Sprintf("%.0fg of protein to go today.", remaining)), true
}

func (r *Rules) calorieNudge(state *domain.UserState, local time.Time) (domain.Candidate, bool) {
	ratio, ok := state.Macros.CalorieRatio()
	if !ok || ratio >= calorieNudgeThreshold {
		return domain.Candidate{}, false
	}

	remaining := state.Macros.Target.Calories - state.Macros.Logged.Calories

	return newCandidate(CategoryCalorieNudge, at(local, calorieNudgeAt), domain.PriorityLow,
		"Fuel up", fmt.Sprintf("%.0f kcal left in today's target.", remaining)), true
}

func (r *Rules) checkInReminder(state *domain.UserState, local time.Time) (domain.Candidate, bool) {
	if state.CheckIn.SubmittedThisWeek || local.Weekday() != state.CheckIn.Weekday {
		return domain.Candidate{}, false
	}

	return newCandidate(CategoryCheckInReminder, at(local, checkInAt), domain.PriorityHigh,
		"Weekly check-in", "Your coach is waiting for this week's check-in."), true
}

func (r *Rules) streakRisk(state *domain.UserState, local time.Time) (domain.Candidate, bool) {
	if state.Streak <= 0 || state.LoggedOn(local) {
		return domain.Candidate{}, false
	}

	fire := at(local, streakRiskAt)
	if soon := local.Add(streakRiskLead); soon.After(fire) {
		fire = soon
	}
	if !fire.Before(at(local, streakCutoffAt)) {
		return domain.Candidate{}, false
	}

	priority := domain.PriorityHigh
	if state.Streak >= criticalStreak {
		priority = domain.PriorityCritical
	}

	return newCandidate(CategoryStreakRisk, fire, priority,
		"Keep your streak", fmt.Sprintf("Log something today to keep your %d-day streak.", state.Streak)), true
}

func (r *Rules) logNudge(state *domain.UserState, local time.Time) (domain.Candidate, bool) {
	if state.LastLogAt.IsZero() || local.Sub(state.LastLogAt) <= logNudgeAfter {
		return domain.Candidate{}, false
	}

	return newCandidate(CategoryLogNudge, at(local, logNudgeAt), domain.PriorityLow,
		"We miss you", "Log a meal or a workout to get back on track."), true
}

func newCandidate(category string, fire time.Time, priority domain.Priority, title, body string) domain.Candidate {
	return domain.Candidate{
		ID:       domain.DailyIdentifier(category, fire),
		FireDate: fire,
		Category: category,
		Priority: priority,
		Title:    title,
		Body:     body,
	}
}

// at returns the wall clock time c on local's calendar date.
func at(local time.Time, c clock) time.Time {
	y, m, d := local.Date()
	return time.Date(y, m, d, c.hour, c.minute, 0, 0, local.Location())
}
