// Package model defines the core data structures for pcparts.
package model

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Part is a catalog record as returned by the parts service.
type Part struct {
	ID          string          `json:"id"`                    // business key, e.g. "P121"
	Key         string          `json:"_id,omitempty"`         // server-assigned storage key
	Name        string          `json:"name"`
	Brand       string          `json:"brand"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Description string          `json:"description,omitempty"`
}

// MarshalJSON encodes Price as a JSON number, which is what the service expects.
func (p Part) MarshalJSON() ([]byte, error) {
	type part Part
	return json.Marshal(struct {
		part
		Price json.Number `json:"price"`
	}{part(p), json.Number(p.Price.String())})
}

// Persisted reports whether the server has assigned a storage key.
func (p *Part) Persisted() bool {
	return p.Key != ""
}

// InStock reports whether at least one unit is available.
func (p *Part) InStock() bool {
	return p.Stock > 0
}

// MatchesID reports whether the business id contains term, ignoring case.
// Parts without an id never match.
func (p *Part) MatchesID(term string) bool {
	if p.ID == "" {
		return false
	}
	return strings.Contains(strings.ToLower(p.ID), strings.ToLower(term))
}
