package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// SubmissionPayload is the body of POST /submit. Fields stay raw so that
// presence is the only check: an absent field is nil, while JSON null, an
// empty string or a value of any type counts as present.
type SubmissionPayload struct {
	FirstName      json.RawMessage `json:"firstName" validate:"required"`
	LastName       json.RawMessage `json:"lastName" validate:"required"`
	Score          json.RawMessage `json:"score" validate:"required"`
	TotalQuestions json.RawMessage `json:"totalQuestions" validate:"required"`
	Timestamp      json.RawMessage `json:"timestamp" validate:"required"`
	Answers        json.RawMessage `json:"answers" validate:"required"`
}

// FieldText renders a raw JSON value the way it is written into the
// results row: strings contribute their content, numbers their shortest
// decimal form ("1.0" and "1e2" become "1" and "100"), anything else its
// literal JSON text.
func FieldText(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	var value any
	if err := json.Unmarshal([]byte(trimmed), &value); err != nil {
		return trimmed
	}
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return trimmed
	}
}
