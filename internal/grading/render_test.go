package grading

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdown(t *testing.T) {
	key, err := NewAnswerKey([]KeyEntry{
		{QuestionID: "q1", Answer: "b"},
		{QuestionID: "q2", Answer: "a"},
		{QuestionID: "q3", Answer: "c"},
		{QuestionID: "q31b", Answer: "a"},
	})
	require.NoError(t, err)

	attempt := NewAttempt()
	attempt.Select("q1", "b")
	attempt.Select("q2", "d")
	attempt.Skip("q3")

	out := RenderMarkdown(Score(key, attempt))

	assert.Contains(t, out, "- **Question 1:** Your answer: b. ✔️\n")
	assert.Contains(t, out, "- **Question 2:** Your answer: d. (Correct: a) ❌\n")
	assert.Contains(t, out, "- **Question 3:** Skipped.\n")
	assert.Contains(t, out, "- **Question 31b:** Not Answered.\n")
	assert.Contains(t, out, "**Final Score: 1 / 4**")
	assert.Contains(t, out, "Correct Answers: 1")
	assert.Contains(t, out, "Incorrect Answers: 1")
	assert.Contains(t, out, "Skipped: 1")
	assert.Contains(t, out, "Unanswered: 1")
	assert.Less(t, strings.Index(out, "Question 1:"), strings.Index(out, "Question 31b:"))
}

func TestRenderHTML(t *testing.T) {
	key := twoQuestionKey(t)
	attempt := NewAttempt()
	attempt.Select("q1", "<script>")

	html, err := RenderHTML(Score(key, attempt))
	require.NoError(t, err)

	assert.Contains(t, html, "<ul>")
	assert.Contains(t, html, "<strong>Question 1:</strong>")
	assert.Contains(t, html, "<h3>Summary</h3>")
	assert.Contains(t, html, "<strong>Final Score: 0 / 2</strong>")
	assert.NotContains(t, html, "<script>")
}
