package domain

// Event is a domain trigger that starts a scheduling pass.
type Event string

const (
	EventAppOpen          Event = "app_open"
	EventMacroUpdate      Event = "macro_update"
	EventWorkoutCompleted Event = "workout_completed"
	EventStreakRisk       Event = "streak_risk"
	EventDailyWindow      Event = "daily_window"
	EventCheckInSubmitted Event = "checkin_submitted"
)

func (e Event) String() string {
	return string(e)
}

func (e Event) IsValid() bool {
	switch e {
	case EventAppOpen, EventMacroUpdate, EventWorkoutCompleted,
		EventStreakRisk, EventDailyWindow, EventCheckInSubmitted:
		return true
	default:
		return false
	}
}
