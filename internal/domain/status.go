package domain

import (
	"strings"
	"time"
)

// PublicationState is where an article stands relative to its publication date.
type PublicationState string

const (
	PublicationDraft     PublicationState = "draft"
	PublicationScheduled PublicationState = "scheduled"
	PublicationPublished PublicationState = "published"
)

var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", time.DateOnly}

// ParseDate reads the date formats the API emits.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// PublicationState reports draft when the date is missing or unreadable.
func (a Article) PublicationState(now time.Time) PublicationState {
	at, ok := ParseDate(a.DatePublication)
	switch {
	case !ok:
		return PublicationDraft
	case at.After(now):
		return PublicationScheduled
	}
	return PublicationPublished
}

// NormalizePublicationState coerces user input, e.g. a CLI flag.
func NormalizePublicationState(input string) (PublicationState, bool) {
	switch state := PublicationState(strings.ToLower(strings.TrimSpace(input))); state {
	case PublicationDraft, PublicationScheduled, PublicationPublished:
		return state, true
	}
	return "", false
}
