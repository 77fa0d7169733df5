package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoQuestionKey(t *testing.T) *AnswerKey {
	t.Helper()
	key, err := NewAnswerKey([]KeyEntry{
		{QuestionID: "q1", Answer: "b"},
		{QuestionID: "q2", Answer: "a"},
	})
	require.NoError(t, err)
	return key
}

func TestScore_SelectAndSkip(t *testing.T) {
	key := twoQuestionKey(t)
	attempt := NewAttempt()
	attempt.Select("q1", "b")
	attempt.Skip("q2")

	report := Score(key, attempt)

	require.Len(t, report.Results, 2)
	assert.Equal(t, OutcomeCorrect, report.Results[0].Outcome)
	assert.Equal(t, OutcomeSkipped, report.Results[1].Outcome)
	assert.Equal(t, 1, report.Score)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Correct)
	assert.Equal(t, 0, report.Incorrect)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 0, report.Unanswered)
}

func TestScore_WrongAndUntouched(t *testing.T) {
	key := twoQuestionKey(t)
	attempt := NewAttempt()
	attempt.Select("q1", "a")

	report := Score(key, attempt)

	assert.Equal(t, OutcomeIncorrect, report.Results[0].Outcome)
	assert.Equal(t, Choice("a"), report.Results[0].Given)
	assert.Equal(t, Choice("b"), report.Results[0].Correct)
	assert.Equal(t, OutcomeUnanswered, report.Results[1].Outcome)
	assert.Equal(t, 0, report.Score)
	assert.Equal(t, 1, report.Incorrect)
	assert.Equal(t, 1, report.Unanswered)
}

func TestScore_KeyOrderAndUnknownQuestions(t *testing.T) {
	key, err := NewAnswerKey([]KeyEntry{
		{QuestionID: "q3", Answer: "c"},
		{QuestionID: "q1", Answer: "a"},
		{QuestionID: "q2", Answer: "b"},
	})
	require.NoError(t, err)

	attempt := NewAttempt()
	attempt.Select("q99", "a")
	attempt.Skip("q98")

	report := Score(key, attempt)

	ids := make([]string, 0, len(report.Results))
	for _, r := range report.Results {
		ids = append(ids, r.QuestionID)
	}
	assert.Equal(t, []string{"q3", "q1", "q2"}, ids)
	assert.Equal(t, 3, report.Unanswered)
	assert.Equal(t, 3, report.Total)
}

func TestScore_Invariants(t *testing.T) {
	key := DefaultAnswerKey()
	questions := key.Questions()

	tests := []struct {
		name  string
		apply func(a *Attempt)
	}{
		{name: "empty attempt", apply: func(a *Attempt) {}},
		{name: "all correct", apply: func(a *Attempt) {
			for _, id := range questions {
				answer, _ := key.Answer(id)
				a.Select(id, answer)
			}
		}},
		{name: "all skipped", apply: func(a *Attempt) {
			for _, id := range questions {
				a.Skip(id)
			}
		}},
		{name: "mixed", apply: func(a *Attempt) {
			for i, id := range questions {
				switch i % 4 {
				case 0:
					answer, _ := key.Answer(id)
					a.Select(id, answer)
				case 1:
					a.Select(id, "z")
				case 2:
					a.Skip(id)
				}
			}
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			attempt := NewAttempt()
			tc.apply(attempt)

			report := Score(key, attempt)

			assert.Equal(t, key.Total(), report.Correct+report.Incorrect+report.Skipped+report.Unanswered)
			assert.Equal(t, report.Correct, report.Score)
			assert.GreaterOrEqual(t, report.Score, 0)
			assert.LessOrEqual(t, report.Score, report.Total)
			assert.Len(t, report.Results, key.Total())
		})
	}
}

func TestGrader_UsesInjectedKey(t *testing.T) {
	grader := NewGrader(twoQuestionKey(t))
	attempt := NewAttempt()
	attempt.Select("q2", "a")

	report := grader.Grade(attempt)

	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Score)
}

func TestQuestionResult_Number(t *testing.T) {
	assert.Equal(t, "31b", QuestionResult{QuestionID: "q31b"}.Number())
	assert.Equal(t, "7", QuestionResult{QuestionID: "q7"}.Number())
}
