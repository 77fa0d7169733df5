package grading

import "strings"

// Outcome classifies a single question of a graded attempt.
type Outcome string

const (
	OutcomeCorrect    Outcome = "correct"
	OutcomeIncorrect  Outcome = "incorrect"
	OutcomeSkipped    Outcome = "skipped"
	OutcomeUnanswered Outcome = "unanswered"
)

type QuestionResult struct {
	QuestionID string  `json:"question_id"`
	Outcome    Outcome `json:"outcome"`
	Given      Choice  `json:"given,omitempty"`
	Correct    Choice  `json:"correct"`
}

// Number is the display number of the question: its id without the
// leading "q", so "q31b" reads as "31b".
func (r QuestionResult) Number() string {
	return strings.TrimPrefix(r.QuestionID, "q")
}

// Report is the read-only result of grading an attempt against a key.
type Report struct {
	Results    []QuestionResult `json:"results"`
	Score      int              `json:"score"`
	Total      int              `json:"total"`
	Correct    int              `json:"correct"`
	Incorrect  int              `json:"incorrect"`
	Skipped    int              `json:"skipped"`
	Unanswered int              `json:"unanswered"`
}

// Score classifies every key question in key order. The denominator is
// the key size, not the number of questions the attempt touched.
func Score(key *AnswerKey, attempt *Attempt) *Report {
	report := &Report{
		Results: make([]QuestionResult, 0, key.Total()),
		Total:   key.Total(),
	}

	for _, id := range key.order {
		correct := key.answers[id]
		result := QuestionResult{QuestionID: id, Correct: correct}

		if attempt.IsSkipped(id) {
			result.Outcome = OutcomeSkipped
			report.Skipped++
		} else if given, ok := attempt.Selection(id); ok {
			result.Given = given
			if given == correct {
				result.Outcome = OutcomeCorrect
				report.Correct++
			} else {
				result.Outcome = OutcomeIncorrect
				report.Incorrect++
			}
		} else {
			result.Outcome = OutcomeUnanswered
			report.Unanswered++
		}

		report.Results = append(report.Results, result)
	}

	report.Score = report.Correct
	return report
}

// Grader scores attempts against the key it was built with.
type Grader struct {
	key *AnswerKey
}

func NewGrader(key *AnswerKey) *Grader {
	return &Grader{key: key}
}

func (g *Grader) Key() *AnswerKey {
	return g.key
}

func (g *Grader) Grade(attempt *Attempt) *Report {
	return Score(g.key, attempt)
}
