package api

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/hazyhaar/gazetteer/pkg/gazetteer"
)

const mapsSearchURL = "https://www.google.com/maps/search/?api=1&query="

// MapLink builds a map search link for a single entity. The address is
// included only when it is specific enough: longer than 5 runes and not a
// rural designation. Nil entities get no link.
func MapLink(e *gazetteer.Entity, locality string) string {
	if e == nil {
		return ""
	}
	parts := []string{e.Name}
	if utf8.RuneCountInString(e.Address) > 5 && !strings.Contains(strings.ToLower(e.Address), "rural") {
		parts = append(parts, e.Address)
	}
	if locality = strings.TrimSpace(locality); locality != "" {
		parts = append(parts, locality)
	}
	return mapsSearchURL + url.QueryEscape(strings.Join(parts, ", "))
}
