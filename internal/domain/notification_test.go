package domain

import (
	"testing"
	"time"
)

func TestPendingNotificationMeta(t *testing.T) {
	tests := []struct {
		name     string
		n        PendingNotification
		wantCat  string
		wantPrio Priority
	}{
		{
			name:     "no metadata falls back",
			n:        PendingNotification{ID: "engagement.log_nudge.2024-05-01"},
			wantCat:  "engagement.log_nudge",
			wantPrio: PriorityNormal,
		},
		{
			name: "explicit metadata",
			n: PendingNotification{
				ID:       "custom.2024-05-01",
				UserInfo: map[string]any{"category": "hydration", "priority": float64(3)},
			},
			wantCat:  "hydration",
			wantPrio: PriorityHigh,
		},
		{
			name: "malformed priority keeps category",
			n: PendingNotification{
				ID:       "x.2024-05-01",
				UserInfo: map[string]any{"category": "x-cat", "priority": "urgent"},
			},
			wantCat:  "x-cat",
			wantPrio: PriorityNormal,
		},
		{
			name: "non-string category ignored",
			n: PendingNotification{
				ID:       "y.2024-05-01",
				UserInfo: map[string]any{"category": 12, "priority": 1},
			},
			wantCat:  "y",
			wantPrio: PriorityLow,
		},
		{
			name: "blank category ignored",
			n: PendingNotification{
				ID:       "z",
				UserInfo: map[string]any{"category": "  "},
			},
			wantCat:  "z",
			wantPrio: PriorityNormal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := tt.n.Meta()
			if meta.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", meta.Category, tt.wantCat)
			}
			if meta.Priority != tt.wantPrio {
				t.Errorf("Priority = %v, want %v", meta.Priority, tt.wantPrio)
			}
		})
	}
}

func TestCandidateToPendingCarriesMeta(t *testing.T) {
	fire := time.Date(2024, 5, 1, 14, 0, 0, 0, time.UTC)
	c := Candidate{
		ID:       "engagement.macro_nudge.protein.2024-05-01",
		FireDate: fire,
		Category: "engagement.macro_nudge.protein",
		Priority: PriorityHigh,
		Title:    "Protein check",
	}

	p := c.ToPending(fire.Add(-time.Hour))

	meta := p.Meta()
	if meta.Category != c.Category || meta.Priority != c.Priority {
		t.Errorf("Meta = %+v, want category %q priority %v", meta, c.Category, c.Priority)
	}
	if got, ok := p.Trigger.NextFireDate(time.Time{}); !ok || !got.Equal(fire) {
		t.Errorf("NextFireDate = %v, %v", got, ok)
	}
}
