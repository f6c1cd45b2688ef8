// Package core holds the bill record model and the date and money helpers
// shared by the controllers, the storage layer, and the views.
package core

import (
	"fmt"
	"time"
)

const isoDateLayout = "2006-01-02"

// French short month names, capitalized the way the bills table displays them.
var frenchMonths = [...]string{
	"Jan", "Fév", "Mar", "Avr", "Mai", "Jui",
	"Jui", "Aoû", "Sep", "Oct", "Nov", "Déc",
}

// ParseISODate parses a zero-padded ISO-8601 calendar date string.
func ParseISODate(s string) (time.Time, error) {
	t, err := time.Parse(isoDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate turns an ISO-8601 date into the short localized display form,
// e.g. "2004-04-04" -> "4 Avr. 04". Callers are expected to fall back to the
// raw value when an error is returned, so no record is lost on malformed input.
func FormatDate(iso string) (string, error) {
	t, err := ParseISODate(iso)
	if err != nil {
		return "", err
	}
	month := frenchMonths[int(t.Month())-1]
	return fmt.Sprintf("%d %s. %02d", t.Day(), month, t.Year()%100), nil
}

// AntiChrono orders two raw ISO date strings reverse-chronologically: it
// reports whether a sorts before b, i.e. a > b lexicographically. Correct only
// while both dates share the same zero-padded format.
func AntiChrono(a, b string) bool {
	return a > b
}

// FormatStatus returns the display label for a bill status.
func FormatStatus(s Status) string {
	switch s {
	case StatusPending:
		return "En attente"
	case StatusAccepted:
		return "Accepté"
	case StatusRefused:
		return "Refusé"
	default:
		return string(s)
	}
}
