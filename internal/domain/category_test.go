package domain

import (
	"testing"
	"time"
)

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		want       string
	}{
		{name: "strips date suffix", identifier: "engagement.workout_reminder.2024-05-01", want: "engagement.workout_reminder"},
		{name: "no suffix", identifier: "engagement.morning", want: "engagement.morning"},
		{name: "date without dot", identifier: "weekly2024-05-01", want: "weekly2024-05-01"},
		{name: "suffix not trailing", identifier: "a.2024-05-01.b", want: "a.2024-05-01.b"},
		{name: "malformed date", identifier: "a.2024-5-1", want: "a.2024-5-1"},
		{name: "only suffix", identifier: ".2024-05-01", want: ""},
		{name: "empty", identifier: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CategoryOf(tt.identifier); got != tt.want {
				t.Errorf("CategoryOf(%q) = %q, want %q", tt.identifier, got, tt.want)
			}
		})
	}
}

func TestCategoryOfIdempotent(t *testing.T) {
	identifiers := []string{
		"engagement.streak_risk.2024-05-01",
		"engagement.macro_nudge.protein.2025-12-31",
		"custom",
		"rest-timer.42",
	}

	for _, id := range identifiers {
		once := CategoryOf(id)
		if twice := CategoryOf(once); twice != once {
			t.Errorf("CategoryOf not idempotent for %q: %q then %q", id, once, twice)
		}
	}
}

func TestDailyIdentifierRoundTrip(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	at := time.Date(2024, 5, 1, 23, 30, 0, 0, loc)

	id := DailyIdentifier("engagement.morning", at)
	if id != "engagement.morning.2024-05-01" {
		t.Errorf("DailyIdentifier = %q", id)
	}
	if got := CategoryOf(id); got != "engagement.morning" {
		t.Errorf("CategoryOf(DailyIdentifier) = %q", got)
	}
}
