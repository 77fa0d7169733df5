package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_DryRun(t *testing.T) {
	key := writeFile(t, "key.yaml", "q1: b\nq2: a\n")
	answers := writeFile(t, "answers.yaml", "q1: b\nq2: skip\n")
	htmlFile := filepath.Join(t.TempDir(), "report.html")

	var out bytes.Buffer
	err := run(context.Background(), []string{"--key", key, "--answers", answers, "--dry-run", "--html", htmlFile}, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "- **Question 1:** Your answer: b. ✔️")
	assert.Contains(t, out.String(), "- **Question 2:** Skipped.")
	assert.Contains(t, out.String(), "**Final Score: 1 / 2**")

	html, err := os.ReadFile(htmlFile)
	require.NoError(t, err)
	assert.Contains(t, string(html), "<strong>Final Score: 1 / 2</strong>")
}

func TestRun_Submits(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_, _ = w.Write([]byte("Submission received and results saved successfully."))
	}))
	defer srv.Close()

	key := writeFile(t, "key.json", `{"q1": "b", "q2": "a"}`)
	answers := writeFile(t, "answers.json", `{"q1": "c", "q2": null}`)

	var out bytes.Buffer
	err := run(context.Background(), []string{
		"--key", key, "--answers", answers,
		"--first-name", "Ann", "--last-name", "Lee",
		"--server", srv.URL,
	}, &out)
	require.NoError(t, err)

	assert.Equal(t, "Ann", received["firstName"])
	assert.EqualValues(t, 0, received["score"])
	assert.EqualValues(t, 2, received["totalQuestions"])
	assert.Equal(t, map[string]any{"q1": "c", "q2": nil}, received["answers"])

	output := out.String()
	assert.Contains(t, output, "(Correct: b) ❌")
	assert.Contains(t, output, "Results submitted successfully!")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("Final Score")), bytes.Index(out.Bytes(), []byte("Saving results...")))
}

func TestRun_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("Bad Request: Missing required submission fields."))
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := run(context.Background(), []string{"--first-name", "A", "--last-name", "B", "--server", srv.URL}, &out)
	require.Error(t, err)
	assert.Contains(t, out.String(), "Error submitting results: Bad Request: Missing required submission fields.")
	assert.Contains(t, out.String(), "**Final Score: 0 / 91**")
}

func TestRun_RequiresNames(t *testing.T) {
	err := run(context.Background(), []string{"--server", "http://127.0.0.1:1"}, &bytes.Buffer{})
	assert.Error(t, err)
}
