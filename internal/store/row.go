package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrMalformedRow = errors.New("malformed results row")

// Row is one ResultsLog line. Fields hold their stored text.
//
// The line format is
//
//	timestamp,firstName,lastName,score,totalQuestions,"answersJSON"
//
// The answers column is wrapped in double quotes but the JSON inside is
// not quote-escaped, so the line is not RFC 4180 CSV and encoding/csv
// cannot read it back. The first five fields never contain commas.
type Row struct {
	Timestamp      string
	FirstName      string
	LastName       string
	Score          string
	TotalQuestions string
	AnswersJSON    string
}

// Format renders the row as a newline-terminated line.
func (r Row) Format() string {
	return fmt.Sprintf("%s,%s,%s,%s,%s,\"%s\"\n",
		r.Timestamp, r.FirstName, r.LastName, r.Score, r.TotalQuestions, r.AnswersJSON)
}

// Answers decodes the answers column.
func (r Row) Answers() (map[string]any, error) {
	var answers map[string]any
	if err := json.Unmarshal([]byte(r.AnswersJSON), &answers); err != nil {
		return nil, fmt.Errorf("failed to decode answers: %w", err)
	}
	return answers, nil
}

// ParseRow reverses Format.
func ParseRow(line string) (Row, error) {
	line = strings.TrimRight(line, "\r\n")

	parts := strings.SplitN(line, ",", 6)
	if len(parts) != 6 {
		return Row{}, fmt.Errorf("%w: expected 6 fields, got %d", ErrMalformedRow, len(parts))
	}

	answers := parts[5]
	if len(answers) < 2 || answers[0] != '"' || answers[len(answers)-1] != '"' {
		return Row{}, fmt.Errorf("%w: answers column is not quoted", ErrMalformedRow)
	}

	return Row{
		Timestamp:      parts[0],
		FirstName:      parts[1],
		LastName:       parts[2],
		Score:          parts[3],
		TotalQuestions: parts[4],
		AnswersJSON:    answers[1 : len(answers)-1],
	}, nil
}
