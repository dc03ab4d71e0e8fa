package model

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Draft is the working copy of a part's editable fields, used for both
// creating a new part and editing an existing one.
type Draft struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Brand       string          `json:"brand"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Description string          `json:"description,omitempty"`
}

// BlankDraft returns an empty draft: blank strings, zero price and stock.
func BlankDraft() Draft {
	return Draft{Price: decimal.Zero}
}

// DraftFromPart copies the editable fields of p.
func DraftFromPart(p Part) Draft {
	return Draft{
		ID:          p.ID,
		Name:        p.Name,
		Brand:       p.Brand,
		Price:       p.Price,
		Stock:       p.Stock,
		Description: p.Description,
	}
}

// MarshalJSON encodes Price as a JSON number.
func (d Draft) MarshalJSON() ([]byte, error) {
	type draft Draft
	return json.Marshal(struct {
		draft
		Price json.Number `json:"price"`
	}{draft(d), json.Number(d.Price.String())})
}

// IsBlank reports whether d equals BlankDraft().
func (d Draft) IsBlank() bool {
	return d.ID == "" && d.Name == "" && d.Brand == "" &&
		d.Price.IsZero() && d.Stock == 0 && d.Description == ""
}

// Validate performs the checks the input form enforces before anything is
// sent: required text fields and non-negative numbers. It returns one
// FieldError per failing field, in form order.
func (d Draft) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(d.ID) == "" {
		errs = append(errs, FieldError{Field: "id", Message: "id is required"})
	}
	if strings.TrimSpace(d.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	}
	if strings.TrimSpace(d.Brand) == "" {
		errs = append(errs, FieldError{Field: "brand", Message: "brand is required"})
	}
	if d.Price.IsNegative() {
		errs = append(errs, FieldError{Field: "price", Message: "price must be zero or positive"})
	}
	if d.Stock < 0 {
		errs = append(errs, FieldError{Field: "stock", Message: "stock must be zero or positive"})
	}
	return errs
}

// FieldError describes one invalid field.
type FieldError struct {
	Field   string
	Message string
}
