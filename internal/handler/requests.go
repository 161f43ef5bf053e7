package handler

import (
	"time"

	"github.com/KasumiMercury/primind-engagement-notifications/internal/domain"
)

type CandidateRequest struct {
	ID       string          `json:"id" validate:"required,max=256"`
	FireDate time.Time       `json:"fire_date" validate:"required"`
	Category string          `json:"category"`
	Priority domain.Priority `json:"priority" validate:"required"`
	Title    string          `json:"title"`
	Body     string          `json:"body"`
}

func (r CandidateRequest) toCandidate() domain.Candidate {
	category := r.Category
	if category == "" {
		category = domain.CategoryOf(r.ID)
	}

	return domain.Candidate{
		ID:       r.ID,
		FireDate: r.FireDate,
		Category: category,
		Priority: r.Priority,
		Title:    r.Title,
		Body:     r.Body,
	}
}

type EvaluateRequest struct {
	UserID    string           `json:"user_id" validate:"required,max=128"`
	Timezone  string           `json:"timezone" validate:"omitempty,timezone"`
	Candidate CandidateRequest `json:"candidate"`
}

type EvaluateResponse struct {
	Decision domain.Decision `json:"decision"`
}

type EventRequest struct {
	Event domain.Event `json:"event" validate:"required,oneof=app_open macro_update workout_completed streak_risk daily_window checkin_submitted"`
}

type UserStateRequest struct {
	Timezone     string              `json:"timezone" validate:"omitempty,timezone"`
	TrainingPlan TrainingPlanRequest `json:"training_plan"`
	Macros       domain.MacroStatus  `json:"macros"`
	Yesterday    domain.DayActivity  `json:"yesterday"`
	LastLogAt    time.Time           `json:"last_log_at"`
	Streak       int                 `json:"streak" validate:"gte=0"`
	CheckIn      CheckInRequest      `json:"check_in"`
}

type TrainingPlanRequest struct {
	HasWorkout    bool   `json:"has_workout"`
	WorkoutName   string `json:"workout_name"`
	PreferredTime string `json:"preferred_time" validate:"omitempty,datetime=15:04"`
	Completed     bool   `json:"completed"`
}

type CheckInRequest struct {
	Weekday           time.Weekday `json:"weekday" validate:"gte=0,lte=6"`
	SubmittedThisWeek bool         `json:"submitted_this_week"`
}

func (r UserStateRequest) toUserState(userID string, now time.Time) *domain.UserState {
	return &domain.UserState{
		UserID:   userID,
		Timezone: r.Timezone,
		TrainingPlan: domain.TrainingPlan{
			HasWorkout:    r.TrainingPlan.HasWorkout,
			WorkoutName:   r.TrainingPlan.WorkoutName,
			PreferredTime: r.TrainingPlan.PreferredTime,
			Completed:     r.TrainingPlan.Completed,
		},
		Macros:    r.Macros,
		Yesterday: r.Yesterday,
		LastLogAt: r.LastLogAt,
		Streak:    r.Streak,
		CheckIn: domain.CheckIn{
			Weekday:           r.CheckIn.Weekday,
			SubmittedThisWeek: r.CheckIn.SubmittedThisWeek,
		},
		UpdatedAt: now,
	}
}

type TriggerRequest struct {
	Kind            domain.TriggerKind `json:"kind" validate:"required,oneof=calendar interval"`
	At              *time.Time         `json:"at" validate:"required_if=Kind calendar"`
	IntervalSeconds int64              `json:"interval_seconds" validate:"required_if=Kind interval,gte=0"`
	Repeats         bool               `json:"repeats"`
	PeriodSeconds   int64              `json:"period_seconds" validate:"required_if=Kind calendar Repeats true,gte=0"`
}

func (r TriggerRequest) toTrigger() domain.Trigger {
	switch r.Kind {
	case domain.TriggerInterval:
		return domain.Trigger{
			Kind:     domain.TriggerInterval,
			Repeats:  r.Repeats,
			Interval: time.Duration(r.IntervalSeconds) * time.Second,
		}
	default:
		if r.Repeats {
			return domain.RepeatingCalendarTrigger(*r.At, time.Duration(r.PeriodSeconds)*time.Second)
		}
		return domain.CalendarTrigger(*r.At)
	}
}

type RegisterNotificationRequest struct {
	ID       string          `json:"id" validate:"required,max=256"`
	Title    string          `json:"title" validate:"required"`
	Body     string          `json:"body"`
	Trigger  TriggerRequest  `json:"trigger"`
	Category string          `json:"category"`
	Priority domain.Priority `json:"priority"`
}

type RegisterNotificationResponse struct {
	ID       string          `json:"id"`
	Decision domain.Decision `json:"decision"`
}

type NotificationListResponse struct {
	Notifications []domain.PendingNotification `json:"notifications"`
}

// DeliveredRequest is the task payload posted back by the delivery queue.
type DeliveredRequest struct {
	UserID         string    `json:"user_id" validate:"required"`
	NotificationID string    `json:"notification_id" validate:"required"`
	FireAt         time.Time `json:"fire_at" validate:"required"`
}

type DeliveredResponse struct {
	Status string                      `json:"status"`
	Next   *domain.PendingNotification `json:"next,omitempty"`
}
