package domain

import (
	"strings"

	"github.com/goliatone/go-slug"
)

// SlugFor keeps an explicit slug when valid and derives one from the title
// otherwise. It returns "" when nothing usable can be produced.
func SlugFor(explicit, title string) string {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		if slug.IsValid(explicit) {
			return explicit
		}
		if normalized, err := slug.Normalize(explicit); err == nil {
			return normalized
		}
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	normalized, err := slug.Normalize(title)
	if err != nil {
		return ""
	}
	return normalized
}
