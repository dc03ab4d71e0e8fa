package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jacksmith/pcparts/internal/catalog"
)

// NotFoundError indicates a part was not found in the loaded list.
type NotFoundError struct {
	Type string // "part"
	ID   string // the ID that was not found
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Type, e.ID)
}

// AmbiguousError indicates an ID prefix matched more than one part.
type AmbiguousError struct {
	Term    string
	Matches []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%q matches %d parts: %s", e.Term, len(e.Matches), strings.Join(e.Matches, ", "))
}

// ValidationError indicates a bad flag or form value.
type ValidationError struct {
	Field   string // the field that failed validation
	Message string // what went wrong
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

// FormatError returns a user-friendly error message.
// Each line is prefixed with "error: "; catalog errors with several messages
// produce one line per message.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	var ce *catalog.Error
	if errors.As(err, &ce) && len(ce.Lines) > 0 {
		lines := make([]string, len(ce.Lines))
		for i, l := range ce.Lines {
			lines[i] = "error: " + l
		}
		return strings.Join(lines, "\n")
	}
	return "error: " + err.Error()
}
