package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ResponseError is a non-2xx reply whose body could be decoded.
type ResponseError struct {
	StatusCode int
	Detail     Detail
}

func (e *ResponseError) Error() string {
	if msgs := e.Detail.Lines(); len(msgs) > 0 {
		return fmt.Sprintf("service returned %d: %s", e.StatusCode, strings.Join(msgs, ", "))
	}
	return fmt.Sprintf("service returned %d", e.StatusCode)
}

// TransportError covers everything that prevented a usable reply: the
// request could not be sent, or the response body could not be decoded.
type TransportError struct {
	Op  string // e.g. "POST /parts"
	Err error
}

func (e *TransportError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Detail is the error payload of the parts service. Field-level validation
// failures arrive as a list in "detail"; other failures carry a single
// message in "detail" or "error".
type Detail struct {
	Validation []string // one entry per field-level message
	Message    string
}

// Lines returns the messages to display, one per line.
func (d Detail) Lines() []string {
	if len(d.Validation) > 0 {
		return d.Validation
	}
	if d.Message != "" {
		return []string{d.Message}
	}
	return nil
}

// IsValidation reports whether the payload carried field-level errors.
func (d Detail) IsValidation() bool {
	return len(d.Validation) > 0
}

type errorBody struct {
	Detail json.RawMessage `json:"detail"`
	Error  string          `json:"error"`
}

type validationItem struct {
	Loc  []any  `json:"loc,omitempty"`
	Msg  string `json:"msg"`
	Type string `json:"type,omitempty"`
}

// parseDetail decodes an error body. A body that is not a JSON object is
// an error; an object without usable fields yields an empty Detail.
func parseDetail(data []byte) (Detail, error) {
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return Detail{}, err
	}

	var d Detail
	if len(body.Detail) > 0 {
		var items []validationItem
		var msg string
		switch {
		case json.Unmarshal(body.Detail, &items) == nil:
			for _, it := range items {
				d.Validation = append(d.Validation, it.Msg)
			}
		case json.Unmarshal(body.Detail, &msg) == nil:
			d.Message = msg
		}
	}
	if d.Message == "" && !d.IsValidation() {
		d.Message = body.Error
	}
	return d, nil
}
