package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/SAP-F-2025/placement-test-service/internal/grading"
)

var ErrSubmitDisabled = errors.New("submit is disabled")

type StatusKind string

const (
	StatusNone    StatusKind = ""
	StatusPending StatusKind = "pending"
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

const (
	StatusCalculating = "Calculating results and submitting..."
	StatusSaving      = "Saving results..."
	StatusSubmitted   = "Results submitted successfully!"
	StatusNetwork     = "Network error. Could not submit results."
	statusRejected    = "Error submitting results: "
)

// Status is the line shown next to the submit control.
type Status struct {
	Message string
	Kind    StatusKind
}

// SessionOptions wires a Session's collaborators. Any hook may be nil.
type SessionOptions struct {
	Grader    *grading.Grader
	Submitter *Submitter
	// OnReport receives the graded report before the network call.
	OnReport func(*grading.Report)
	OnStatus func(Status)
	Now      func() time.Time
}

// Session is one test form: an Attempt, the submit control and the
// status line. Only one submission can be in flight.
type Session struct {
	opts    SessionOptions
	attempt *grading.Attempt

	mu        sync.Mutex
	inFlight  bool
	submitted bool
	status    Status
}

func NewSession(opts SessionOptions) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Session{
		opts:    opts,
		attempt: grading.NewAttempt(),
	}
}

func (s *Session) Select(questionID string, choice grading.Choice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempt.Select(questionID, choice)
}

func (s *Session) Skip(questionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempt.Skip(questionID)
}

// SubmitEnabled reports whether the submit control accepts a click.
func (s *Session) SubmitEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.inFlight && !s.submitted
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Submit grades the attempt and sends it. The report reflects the attempt
// as it was when Submit started and is returned whatever the network
// outcome.
func (s *Session) Submit(ctx context.Context, firstName, lastName string) (*grading.Report, Result, error) {
	s.mu.Lock()
	if s.inFlight || s.submitted {
		s.mu.Unlock()
		return nil, Result{}, ErrSubmitDisabled
	}
	s.inFlight = true
	s.setStatusLocked(Status{Message: StatusCalculating, Kind: StatusPending})
	report := s.opts.Grader.Grade(s.attempt)
	s.mu.Unlock()

	if s.opts.OnReport != nil {
		s.opts.OnReport(report)
	}

	record := s.opts.Grader.Record(report, firstName, lastName, s.opts.Now())
	s.setStatus(Status{Message: StatusSaving, Kind: StatusPending})

	result := s.opts.Submitter.Submit(ctx, record)

	s.mu.Lock()
	s.inFlight = false
	switch result.Kind {
	case ResultSuccess:
		s.submitted = true
		s.setStatusLocked(Status{Message: StatusSubmitted, Kind: StatusSuccess})
	case ResultRejected:
		s.setStatusLocked(Status{Message: statusRejected + result.Message, Kind: StatusError})
	default:
		s.setStatusLocked(Status{Message: StatusNetwork, Kind: StatusError})
	}
	s.mu.Unlock()

	return report, result, nil
}

func (s *Session) setStatus(status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setStatusLocked(status)
}

// setStatusLocked runs OnStatus under the lock, so hooks must not call
// back into the Session.
func (s *Session) setStatusLocked(status Status) {
	s.status = status
	if s.opts.OnStatus != nil {
		s.opts.OnStatus(status)
	}
}
