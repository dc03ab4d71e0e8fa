// Package cli provides CLI infrastructure for pcparts.
package cli

import (
	"strings"

	"github.com/jacksmith/pcparts/internal/model"
)

// ResolvePart finds the part a user meant by term. An exact id match wins,
// ignoring case; otherwise term must be a prefix of exactly one id. Parts
// without an id are never matched.
func ResolvePart(term string, parts []model.Part) (model.Part, error) {
	if strings.TrimSpace(term) == "" {
		return model.Part{}, &ValidationError{Field: "id", Message: "part id is required"}
	}
	lower := strings.ToLower(term)

	for _, p := range parts {
		if p.ID != "" && strings.ToLower(p.ID) == lower {
			return p, nil
		}
	}

	var matches []model.Part
	for _, p := range parts {
		if p.ID != "" && strings.HasPrefix(strings.ToLower(p.ID), lower) {
			matches = append(matches, p)
		}
	}

	switch len(matches) {
	case 0:
		return model.Part{}, &NotFoundError{Type: "part", ID: term}
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, p := range matches {
			ids[i] = p.ID
		}
		return model.Part{}, &AmbiguousError{Term: term, Matches: ids}
	}
}
