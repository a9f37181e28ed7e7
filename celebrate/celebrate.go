package celebrate

import (
	"fmt"
	"log"
	"time"

	"cheersbot/utils"
)

// Kind is a celebration category. Birthdays and work anniversaries are
// treated symmetrically everywhere below.
type Kind string

const (
	Birthday    Kind = "birthday"
	Anniversary Kind = "anniversary"
)

func (k Kind) Valid() bool {
	return k == Birthday || k == Anniversary
}

// Entry is one member's celebration row: the stored date plus any
// custom message/image and the dedup guard.
type Entry struct {
	UserID             string
	Name               string
	Email              string
	Date               string // MM/DD/YYYY
	Message            string
	Image              string
	LastCelebratedDate string // ISO YYYY-MM-DD, empty if never posted
}

// Today is a calendar day pinned to the celebration timezone. The
// stored year never participates in matching.
type Today struct {
	ISO   string // YYYY-MM-DD, the dedup guard value
	Month int
	Day   int
}

// TodayIn computes today in the target location. The now seam exists so
// tests can freeze the clock.
func TodayIn(loc *time.Location, now func() time.Time) Today {
	t := now().In(loc)
	return Today{
		ISO:   t.Format("2006-01-02"),
		Month: int(t.Month()),
		Day:   t.Day(),
	}
}

// TodaysMatches returns the entries whose stored month+day equals today
// and which have not already been celebrated on today's date. Entries
// without a linked user or with an unparseable date are skipped.
func TodaysMatches(entries []Entry, today Today) []Entry {
	var matches []Entry
	for _, e := range entries {
		if e.UserID == "" || e.Date == "" {
			continue
		}
		month, day, ok := utils.MonthDay(e.Date)
		if !ok {
			log.Printf("[WARN] skipping unparseable date %q for user %s", e.Date, e.UserID)
			continue
		}
		if month != today.Month || day != today.Day {
			continue
		}
		if e.LastCelebratedDate == today.ISO {
			continue
		}
		matches = append(matches, e)
	}
	return matches
}

// DefaultMessage is the celebration text used when no custom message is
// stored for the member.
func DefaultMessage(kind Kind, userID string) string {
	switch kind {
	case Anniversary:
		return fmt.Sprintf("🎉🎖️ Congratulations <@%s> on your work anniversary! 🎖️🎉\n\nThank you for your dedication and hard work! 🚀✨", userID)
	default:
		return fmt.Sprintf(":tada::birthday: Happy Birthday, <@%s>! :birthday::tada:", userID)
	}
}

// Headline is the plain-text fallback accompanying the block message.
func Headline(kind Kind, userID string) string {
	if kind == Anniversary {
		return fmt.Sprintf("🎖️ Happy Work Anniversary <@%s>!", userID)
	}
	return fmt.Sprintf("🎉 Happy Birthday <@%s>!", userID)
}
