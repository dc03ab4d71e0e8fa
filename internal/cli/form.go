package cli

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jacksmith/pcparts/internal/model"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const formHeader = `# Edit the part below, then save and quit.
# Price is in dollars; stock is a whole number. The id cannot be changed
# while editing an existing part.
`

// draftForm is the YAML shape of a draft opened in $EDITOR. Price is kept
// as text so the user's exact digits survive the round trip.
type draftForm struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Brand       string `yaml:"brand"`
	Price       string `yaml:"price"`
	Stock       int    `yaml:"stock"`
	Description string `yaml:"description,omitempty"`
}

// FormatDraftForm renders d as an editable YAML document.
func FormatDraftForm(d model.Draft) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(formHeader)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	form := draftForm{
		ID:          d.ID,
		Name:        d.Name,
		Brand:       d.Brand,
		Price:       d.Price.StringFixed(2),
		Stock:       d.Stock,
		Description: d.Description,
	}
	if err := enc.Encode(form); err != nil {
		return nil, fmt.Errorf("failed to encode form: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode form: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseDraftForm reads a YAML document produced by FormatDraftForm.
func ParseDraftForm(data []byte) (model.Draft, error) {
	var form draftForm
	if err := yaml.Unmarshal(data, &form); err != nil {
		return model.Draft{}, &ValidationError{Message: fmt.Sprintf("could not read form: %v", err)}
	}

	price, err := ParsePrice(form.Price)
	if err != nil {
		return model.Draft{}, err
	}

	return model.Draft{
		ID:          strings.TrimSpace(form.ID),
		Name:        form.Name,
		Brand:       form.Brand,
		Price:       price,
		Stock:       form.Stock,
		Description: form.Description,
	}, nil
}

// ParsePrice parses a dollar amount such as "19.99" or "$19.99".
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	if s == "" {
		return decimal.Zero, &ValidationError{Field: "price", Message: "a number is required"}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: "price", Message: fmt.Sprintf("%q is not a number", s)}
	}
	return d, nil
}

// EditDraft opens d in the user's editor and returns the edited draft.
// It returns changed=false when the file was saved untouched.
func EditDraft(d model.Draft) (edited model.Draft, changed bool, err error) {
	original, err := FormatDraftForm(d)
	if err != nil {
		return d, false, err
	}

	result, err := EditInEditor(original, ".yaml")
	if err != nil {
		return d, false, err
	}
	if bytes.Equal(original, result) {
		return d, false, nil
	}

	edited, err = ParseDraftForm(result)
	if err != nil {
		return d, false, err
	}
	return edited, true, nil
}
