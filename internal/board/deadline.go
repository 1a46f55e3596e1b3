package board

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Urgency levels
const (
	LevelExpired = "expired"
	LevelUrgent  = "urgent"
	LevelSoon    = "soon"
	LevelLater   = "later"
)

// DateLayout is the layout due dates are stored and displayed in
const DateLayout = "2006-01-02"

var dueDateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Badge is the urgency label shown on a card
type Badge struct {
	Label    string `json:"label"`
	Level    string `json:"level"`
	DaysLeft int    `json:"days_left"`
}

// ParseDueDate parses a stored due date. Accepts YYYY-MM-DD and RFC 3339 style timestamps.
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q, expected YYYY-MM-DD", s)
}

// Classify returns the deadline badge for dueDate relative to now, or nil when
// there is no due date or it cannot be parsed.
//
// days_left is ceil((due - today) / 24h) where today is now truncated to its
// calendar day. Both sides are compared as wall-clock values so DST changes
// never shift the count.
func Classify(dueDate *string, now time.Time) *Badge {
	if dueDate == nil || strings.TrimSpace(*dueDate) == "" {
		return nil
	}
	due, err := ParseDueDate(*dueDate)
	if err != nil {
		return nil
	}
	if due.Location() != time.UTC {
		due = due.In(now.Location())
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := DaysLeft(wall(due), today)

	switch {
	case days < 0:
		return &Badge{Label: "Expired", Level: LevelExpired, DaysLeft: days}
	case days <= 3:
		return &Badge{Label: fmt.Sprintf("Urgent: %d days left", days), Level: LevelUrgent, DaysLeft: days}
	case days <= 7:
		return &Badge{Label: fmt.Sprintf("%d days left", days), Level: LevelSoon, DaysLeft: days}
	default:
		return &Badge{Label: due.Format(DateLayout), Level: LevelLater, DaysLeft: days}
	}
}

// DaysLeft is ceil((due - today) / 24h)
func DaysLeft(due, today time.Time) int {
	return int(math.Ceil(due.Sub(today).Hours() / 24))
}

func wall(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
