package domain

import (
	"strings"
	"time"
)

const (
	UserInfoCategoryKey = "category"
	UserInfoPriorityKey = "priority"
)

// PendingNotification is a scheduled but undelivered notification as held by
// the notification store.
type PendingNotification struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Body        string         `json:"body"`
	Trigger     Trigger        `json:"trigger"`
	UserInfo    map[string]any `json:"user_info,omitempty"`
	ScheduledAt time.Time      `json:"scheduled_at"`
	// DispatchAt is the run time of the delivery task queued for this record.
	DispatchAt  time.Time      `json:"dispatch_at,omitempty"`
}

// TaskTime reports the run time of the delivery task that belongs to this
// record. Records saved before DispatchAt existed fall back to the trigger.
func (n PendingNotification) TaskTime(now time.Time) (time.Time, bool) {
	if !n.DispatchAt.IsZero() {
		return n.DispatchAt, true
	}
	return n.Trigger.DispatchTime(now)
}

// NotificationMeta is the typed form of the metadata attached to a pending
// notification.
type NotificationMeta struct {
	Category string
	Priority Priority
}

// Meta parses the metadata bag. Missing or malformed values fall back to the
// identifier-derived category and normal priority.
func (n PendingNotification) Meta() NotificationMeta {
	meta := NotificationMeta{
		Category: CategoryOf(n.ID),
		Priority: PriorityNormal,
	}

	if n.UserInfo == nil {
		return meta
	}

	if raw, ok := n.UserInfo[UserInfoCategoryKey].(string); ok && strings.TrimSpace(raw) != "" {
		meta.Category = raw
	}

	if p, ok := ParsePriority(n.UserInfo[UserInfoPriorityKey]); ok {
		meta.Priority = p
	}

	return meta
}

// Candidate is a proposed notification awaiting admission.
type Candidate struct {
	ID       string    `json:"id"`
	FireDate time.Time `json:"fire_date"`
	Category string    `json:"category"`
	Priority Priority  `json:"priority"`
	Title    string    `json:"title,omitempty"`
	Body     string    `json:"body,omitempty"`
}

// ToPending converts an admitted candidate into the record stored for later
// evaluations, carrying its category and priority in the metadata bag.
func (c Candidate) ToPending(now time.Time) PendingNotification {
	return PendingNotification{
		ID:      c.ID,
		Title:   c.Title,
		Body:    c.Body,
		Trigger: CalendarTrigger(c.FireDate),
		UserInfo: map[string]any{
			UserInfoCategoryKey: c.Category,
			UserInfoPriorityKey: int(c.Priority),
		},
		ScheduledAt: now,
	}
}

// PendingEntry is the throttler's view of a pending notification.
type PendingEntry struct {
	ID       string    `json:"id"`
	FireDate time.Time `json:"fire_date"`
	Category string    `json:"category"`
	Priority Priority  `json:"priority"`
}
