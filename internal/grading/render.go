package grading

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
)

var markdown = goldmark.New()

// RenderMarkdown turns a report into the per-question list and summary
// shown to the test taker.
func RenderMarkdown(report *Report) string {
	var b strings.Builder

	for _, result := range report.Results {
		fmt.Fprintf(&b, "- **Question %s:** %s\n", result.Number(), describe(result))
	}

	b.WriteString("\n### Summary\n\n")
	fmt.Fprintf(&b, "**Final Score: %d / %d**\n\n", report.Score, report.Total)
	fmt.Fprintf(&b, "Correct Answers: %d\n\n", report.Correct)
	fmt.Fprintf(&b, "Incorrect Answers: %d\n\n", report.Incorrect)
	fmt.Fprintf(&b, "Skipped: %d\n\n", report.Skipped)
	fmt.Fprintf(&b, "Unanswered: %d\n", report.Unanswered)

	return b.String()
}

// RenderHTML renders the Markdown report through goldmark. The default
// renderer escapes raw HTML, so choices cannot inject markup.
func RenderHTML(report *Report) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(RenderMarkdown(report)), &buf); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return buf.String(), nil
}

func describe(result QuestionResult) string {
	switch result.Outcome {
	case OutcomeSkipped:
		return "Skipped."
	case OutcomeCorrect:
		return fmt.Sprintf("Your answer: %s. ✔️", escapeMarkdown(string(result.Given)))
	case OutcomeIncorrect:
		return fmt.Sprintf("Your answer: %s. (Correct: %s) ❌",
			escapeMarkdown(string(result.Given)), escapeMarkdown(string(result.Correct)))
	default:
		return "Not Answered."
	}
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`, "<", `\<`, "#", `\#`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
