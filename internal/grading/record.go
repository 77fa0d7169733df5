package grading

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// TimestampLayout matches the ISO-8601 form browsers emit for
// Date.prototype.toISOString.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// RecordedAnswer is the stored value for one question: the chosen
// option, SkippedMarker, or nil when unanswered.
type RecordedAnswer struct {
	QuestionID string
	Value      *string
}

// RecordedAnswers encodes as a JSON object in key order.
type RecordedAnswers []RecordedAnswer

func (a RecordedAnswers) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, answer := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		id, err := json.Marshal(answer.QuestionID)
		if err != nil {
			return nil, err
		}
		buf.Write(id)
		buf.WriteByte(':')
		if answer.Value == nil {
			buf.WriteString("null")
			continue
		}
		value, err := json.Marshal(*answer.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (a *RecordedAnswers) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("answers must be a JSON object")
	}

	out := RecordedAnswers{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		id, _ := tok.(string)

		var value *string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("answer %q: %w", id, err)
		}
		out = append(out, RecordedAnswer{QuestionID: id, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*a = out
	return nil
}

// Map returns the answers keyed by question id.
func (a RecordedAnswers) Map() map[string]*string {
	out := make(map[string]*string, len(a))
	for _, answer := range a {
		out[answer.QuestionID] = answer.Value
	}
	return out
}

// SubmissionRecord is the payload persisted once per submission.
type SubmissionRecord struct {
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	Score          int             `json:"score"`
	TotalQuestions int             `json:"totalQuestions"`
	Timestamp      string          `json:"timestamp"`
	Answers        RecordedAnswers `json:"answers"`
}

// NewSubmissionRecord derives the durable record from a report. The
// timestamp is assigned here, on the submitting side.
func NewSubmissionRecord(report *Report, firstName, lastName string, at time.Time) *SubmissionRecord {
	answers := make(RecordedAnswers, 0, len(report.Results))
	for _, result := range report.Results {
		answer := RecordedAnswer{QuestionID: result.QuestionID}
		switch result.Outcome {
		case OutcomeSkipped:
			marker := SkippedMarker
			answer.Value = &marker
		case OutcomeCorrect, OutcomeIncorrect:
			given := string(result.Given)
			answer.Value = &given
		}
		answers = append(answers, answer)
	}

	return &SubmissionRecord{
		FirstName:      firstName,
		LastName:       lastName,
		Score:          report.Score,
		TotalQuestions: report.Total,
		Timestamp:      at.UTC().Format(TimestampLayout),
		Answers:        answers,
	}
}

func (g *Grader) Record(report *Report, firstName, lastName string, at time.Time) *SubmissionRecord {
	return NewSubmissionRecord(report, firstName, lastName, at)
}
