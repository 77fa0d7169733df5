package grading

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// SkippedMarker is the recorded value of an explicitly skipped question.
const SkippedMarker = "SKIPPED"

// Attempt is one test taker's answer state. A question is either
// selected, skipped, or untouched; never selected and skipped at once.
type Attempt struct {
	selections map[string]Choice
	skipped    map[string]struct{}
}

func NewAttempt() *Attempt {
	return &Attempt{
		selections: make(map[string]Choice),
		skipped:    make(map[string]struct{}),
	}
}

// Select records a choice and clears any skip mark on the question.
// An empty choice is ignored.
func (a *Attempt) Select(questionID string, choice Choice) {
	if choice == "" {
		return
	}
	delete(a.skipped, questionID)
	a.selections[questionID] = choice
}

// Skip marks the question skipped and clears its selection.
func (a *Attempt) Skip(questionID string) {
	delete(a.selections, questionID)
	a.skipped[questionID] = struct{}{}
}

func (a *Attempt) Selection(questionID string) (Choice, bool) {
	choice, ok := a.selections[questionID]
	return choice, ok
}

func (a *Attempt) IsSkipped(questionID string) bool {
	_, ok := a.skipped[questionID]
	return ok
}

// Skipped returns the skipped question identifiers, sorted.
func (a *Attempt) Skipped() []string {
	out := make([]string, 0, len(a.skipped))
	for id := range a.skipped {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// LoadAttempt reads an attempt file: a YAML or JSON mapping from question
// id to a choice, "skip"/"SKIPPED", or null. Entries are applied in
// document order, so a later entry for the same question wins.
func LoadAttempt(path string) (*Attempt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read attempt: %w", err)
	}
	attempt, err := ParseAttempt(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse attempt %s: %w", path, err)
	}
	return attempt, nil
}

func ParseAttempt(data []byte) (*Attempt, error) {
	pairs, err := parseOrderedMapping(data)
	if err != nil {
		return nil, err
	}

	attempt := NewAttempt()
	for _, pair := range pairs {
		value := strings.TrimSpace(pair.value)
		switch {
		case pair.null || value == "":
			continue
		case strings.EqualFold(value, "skip") || value == SkippedMarker:
			attempt.Skip(pair.key)
		default:
			attempt.Select(pair.key, Choice(value))
		}
	}
	return attempt, nil
}
