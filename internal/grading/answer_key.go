package grading

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Choice is one option of a multiple-choice question, e.g. "a".
type Choice string

// KeyEntry pairs a question identifier with its correct choice.
type KeyEntry struct {
	QuestionID string
	Answer     Choice
}

var (
	ErrEmptyAnswerKey     = errors.New("answer key has no questions")
	ErrDuplicateQuestion  = errors.New("duplicate question in answer key")
	ErrInvalidKeyEntry    = errors.New("invalid answer key entry")
	ErrUnsupportedKeyFile = errors.New("answer key file must be a mapping of question id to choice")
)

// AnswerKey maps question identifiers to their correct choice. The order
// in which questions were defined is preserved and drives report order.
// An AnswerKey is immutable after construction.
type AnswerKey struct {
	order   []string
	answers map[string]Choice
}

// NewAnswerKey builds a key from entries in their defined order.
func NewAnswerKey(entries []KeyEntry) (*AnswerKey, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyAnswerKey
	}

	key := &AnswerKey{
		order:   make([]string, 0, len(entries)),
		answers: make(map[string]Choice, len(entries)),
	}
	for i, entry := range entries {
		id := strings.TrimSpace(entry.QuestionID)
		answer := Choice(strings.TrimSpace(string(entry.Answer)))
		if id == "" || answer == "" {
			return nil, fmt.Errorf("%w: entry %d", ErrInvalidKeyEntry, i)
		}
		if _, exists := key.answers[id]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateQuestion, id)
		}
		key.order = append(key.order, id)
		key.answers[id] = answer
	}
	return key, nil
}

// MustAnswerKey is like NewAnswerKey but panics on error. Intended for
// package-level key definitions.
func MustAnswerKey(entries []KeyEntry) *AnswerKey {
	key, err := NewAnswerKey(entries)
	if err != nil {
		panic(err)
	}
	return key
}

// Questions returns the question identifiers in key order.
func (k *AnswerKey) Questions() []string {
	out := make([]string, len(k.order))
	copy(out, k.order)
	return out
}

// Answer returns the correct choice for a question.
func (k *AnswerKey) Answer(questionID string) (Choice, bool) {
	answer, ok := k.answers[questionID]
	return answer, ok
}

// Has reports whether the question belongs to the key.
func (k *AnswerKey) Has(questionID string) bool {
	_, ok := k.answers[questionID]
	return ok
}

// Total is the fixed number of questions in the key.
func (k *AnswerKey) Total() int {
	return len(k.order)
}

// LoadAnswerKey reads a YAML or JSON mapping of question id to choice.
func LoadAnswerKey(path string) (*AnswerKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read answer key: %w", err)
	}
	key, err := ParseAnswerKey(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse answer key %s: %w", path, err)
	}
	return key, nil
}

// ParseAnswerKey parses a YAML or JSON mapping, keeping document order.
func ParseAnswerKey(data []byte) (*AnswerKey, error) {
	pairs, err := parseOrderedMapping(data)
	if err != nil {
		return nil, err
	}

	entries := make([]KeyEntry, 0, len(pairs))
	for _, pair := range pairs {
		if pair.null {
			return nil, fmt.Errorf("%w: %s has no answer", ErrInvalidKeyEntry, pair.key)
		}
		entries = append(entries, KeyEntry{QuestionID: pair.key, Answer: Choice(pair.value)})
	}
	return NewAnswerKey(entries)
}

type mappingPair struct {
	key   string
	value string
	null  bool
}

// parseOrderedMapping decodes a flat scalar mapping. JSON objects are
// valid YAML flow mappings, so both formats go through yaml.v3.
func parseOrderedMapping(data []byte) ([]mappingPair, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, ErrUnsupportedKeyFile
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, ErrUnsupportedKeyFile
	}

	pairs := make([]mappingPair, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valueNode := root.Content[i], root.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode || valueNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: line %d", ErrUnsupportedKeyFile, keyNode.Line)
		}
		pairs = append(pairs, mappingPair{
			key:   keyNode.Value,
			value: valueNode.Value,
			null:  valueNode.Tag == "!!null",
		})
	}
	return pairs, nil
}
