package domain

import (
	"regexp"
	"time"
)

const dateSuffixLayout = "2006-01-02"

var dateSuffixPattern = regexp.MustCompile(`\.\d{4}-\d{2}-\d{2}$`)

// CategoryOf derives the category of an identifier by stripping one trailing
// ".YYYY-MM-DD" suffix. Identifiers without a suffix are their own category.
func CategoryOf(identifier string) string {
	loc := dateSuffixPattern.FindStringIndex(identifier)
	if loc == nil {
		return identifier
	}

	return identifier[:loc[0]]
}

// DailyIdentifier builds the identifier of a once-per-day notification.
// The date is taken in t's location.
func DailyIdentifier(category string, t time.Time) string {
	return category + "." + t.Format(dateSuffixLayout)
}
