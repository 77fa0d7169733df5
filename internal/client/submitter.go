package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/SAP-F-2025/placement-test-service/internal/grading"
)

// ResultKind classifies the outcome of one submission attempt.
type ResultKind string

const (
	ResultSuccess        ResultKind = "success"
	ResultRejected       ResultKind = "rejected"
	ResultTransportError ResultKind = "transport_error"
)

// Result is what the server said, or why it could not be asked.
type Result struct {
	Kind ResultKind
	// Message is the response body for Success and Rejected.
	Message    string
	StatusCode int
	Err        error
}

// Submitter posts SubmissionRecords to a placement test server. It never
// retries.
type Submitter struct {
	baseURL string
	client  *http.Client
}

func NewSubmitter(baseURL string, client *http.Client) *Submitter {
	if client == nil {
		client = http.DefaultClient
	}
	return &Submitter{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (s *Submitter) Submit(ctx context.Context, record *grading.SubmissionRecord) Result {
	body, err := json.Marshal(record)
	if err != nil {
		return Result{Kind: ResultTransportError, Err: fmt.Errorf("failed to encode submission: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/submit", bytes.NewReader(body))
	if err != nil {
		return Result{Kind: ResultTransportError, Err: fmt.Errorf("failed to build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return Result{Kind: ResultTransportError, Err: err}
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Kind: ResultTransportError, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	kind := ResultSuccess
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		kind = ResultRejected
	}
	return Result{Kind: kind, Message: string(text), StatusCode: resp.StatusCode}
}
