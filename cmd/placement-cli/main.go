// Command placement-cli grades an answers file against the answer key,
// prints the report and submits the result to a placement test server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/SAP-F-2025/placement-test-service/internal/client"
	"github.com/SAP-F-2025/placement-test-service/internal/grading"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	keyFile     string
	answersFile string
	firstName   string
	lastName    string
	server      string
	htmlFile    string
	dryRun      bool
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	var opts options

	flagSet := pflag.NewFlagSet("placement-cli", pflag.ContinueOnError)
	flagSet.SetOutput(stdout)
	flagSet.StringVar(&opts.keyFile, "key", os.Getenv("ANSWER_KEY_FILE"), "answer key file (YAML or JSON mapping); built-in key when empty")
	flagSet.StringVar(&opts.answersFile, "answers", "", "answers file mapping question ids to choices, \"skip\" or null")
	flagSet.StringVar(&opts.firstName, "first-name", "", "test taker's first name")
	flagSet.StringVar(&opts.lastName, "last-name", "", "test taker's last name")
	flagSet.StringVar(&opts.server, "server", "http://localhost:3000", "placement test server base URL")
	flagSet.StringVar(&opts.htmlFile, "html", "", "also write the report as HTML to this file")
	flagSet.BoolVar(&opts.dryRun, "dry-run", false, "grade and print the report without submitting")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if !opts.dryRun && (strings.TrimSpace(opts.firstName) == "" || strings.TrimSpace(opts.lastName) == "") {
		return errors.New("--first-name and --last-name are required unless --dry-run is set")
	}

	key, err := loadKey(opts.keyFile)
	if err != nil {
		return err
	}

	var attempt *grading.Attempt
	if opts.answersFile != "" {
		if attempt, err = grading.LoadAttempt(opts.answersFile); err != nil {
			return err
		}
	} else {
		attempt = grading.NewAttempt()
	}

	grader := grading.NewGrader(key)
	if opts.dryRun {
		return printReport(stdout, grader.Grade(attempt), opts.htmlFile)
	}

	var reportErr error
	session := client.NewSession(client.SessionOptions{
		Grader:    grader,
		Submitter: client.NewSubmitter(opts.server, nil),
		OnReport: func(report *grading.Report) {
			reportErr = printReport(stdout, report, opts.htmlFile)
		},
		OnStatus: func(status client.Status) {
			fmt.Fprintln(stdout, status.Message)
		},
	})
	replay(session, key, attempt)

	_, result, err := session.Submit(ctx, opts.firstName, opts.lastName)
	if err != nil {
		return err
	}
	if reportErr != nil {
		return reportErr
	}

	switch result.Kind {
	case client.ResultSuccess:
		return nil
	case client.ResultRejected:
		return fmt.Errorf("server rejected submission (status %d)", result.StatusCode)
	default:
		return fmt.Errorf("submission failed: %w", result.Err)
	}
}

func loadKey(path string) (*grading.AnswerKey, error) {
	if path == "" {
		return grading.DefaultAnswerKey(), nil
	}
	return grading.LoadAnswerKey(path)
}

// replay copies a loaded attempt into the session, one interaction per
// keyed question.
func replay(session *client.Session, key *grading.AnswerKey, attempt *grading.Attempt) {
	for _, id := range key.Questions() {
		if attempt.IsSkipped(id) {
			session.Skip(id)
			continue
		}
		if choice, ok := attempt.Selection(id); ok {
			session.Select(id, choice)
		}
	}
}

func printReport(w io.Writer, report *grading.Report, htmlFile string) error {
	fmt.Fprintln(w, grading.RenderMarkdown(report))

	if htmlFile == "" {
		return nil
	}
	html, err := grading.RenderHTML(report)
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	if err := os.WriteFile(htmlFile, []byte(html), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
