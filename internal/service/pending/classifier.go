package pending

import (
	"strings"
	"time"

	"github.com/KasumiMercury/primind-engagement-notifications/internal/domain"
)

const (
	// ExemptPrefix marks short-lived rest-timer alerts. They bypass throttling
	// and are never counted against other notifications.
	ExemptPrefix = "rest-timer"
)

type Classifier struct {
	exemptPrefix string
}

func NewClassifier() *Classifier {
	return &Classifier{
		exemptPrefix: ExemptPrefix,
	}
}

func (c *Classifier) IsExempt(identifier string) bool {
	return strings.HasPrefix(identifier, c.exemptPrefix)
}

// Classify reduces the pending set to the entries competing with a
// notification firing at reference: same local calendar date, not exempt,
// not repeating, and not yet delivered.
func (c *Classifier) Classify(
	notifications []domain.PendingNotification,
	reference time.Time,
	now time.Time,
	loc *time.Location,
) []domain.PendingEntry {
	if loc == nil {
		loc = time.Local
	}

	entries := make([]domain.PendingEntry, 0, len(notifications))
	for _, n := range notifications {
		if c.IsExempt(n.ID) {
			continue
		}

		fireDate, ok := n.Trigger.NextFireDate(now)
		if !ok {
			continue
		}

		// One-shot entries in the past have been delivered.
		if fireDate.Before(now) {
			continue
		}

		if !SameDay(fireDate, reference, loc) {
			continue
		}

		meta := n.Meta()
		entries = append(entries, domain.PendingEntry{
			ID:       n.ID,
			FireDate: fireDate,
			Category: meta.Category,
			Priority: meta.Priority,
		})
	}

	return entries
}

func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
