package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SAP-F-2025/placement-test-service/internal/cache"
	"github.com/SAP-F-2025/placement-test-service/internal/events"
	"github.com/SAP-F-2025/placement-test-service/internal/models"
	"github.com/SAP-F-2025/placement-test-service/internal/store"
	"github.com/SAP-F-2025/placement-test-service/internal/validator"
)

const dedupKeyPrefix = "placement:submission:"

// SubmissionService accepts scored payloads into the results log.
type SubmissionService interface {
	Accept(ctx context.Context, payload *models.SubmissionPayload) (*AcceptResult, error)
}

type AcceptResult struct {
	Row       store.Row
	Duplicate bool
}

// DedupOptions turns on duplicate suppression. A nil Cache disables it.
type DedupOptions struct {
	Cache  cache.CacheService
	Window time.Duration
}

type submissionService struct {
	log       *store.ResultsLog
	publisher events.EventPublisher
	dedup     DedupOptions
	validator *validator.Validator
	logger    *ServiceLogger
	now       func() time.Time
}

func NewSubmissionService(
	log *store.ResultsLog,
	publisher events.EventPublisher,
	dedup DedupOptions,
	validator *validator.Validator,
	logger *slog.Logger,
) SubmissionService {
	return &submissionService{
		log:       log,
		publisher: publisher,
		dedup:     dedup,
		validator: validator,
		logger:    NewServiceLogger(logger, "submission"),
		now:       time.Now,
	}
}

func (s *submissionService) Accept(ctx context.Context, payload *models.SubmissionPayload) (result *AcceptResult, err error) {
	start := time.Now()
	defer func() {
		attrs := []slog.Attr{}
		if result != nil {
			attrs = append(attrs,
				slog.String("first_name", result.Row.FirstName),
				slog.String("last_name", result.Row.LastName),
				slog.Bool("duplicate", result.Duplicate))
		}
		s.logger.LogOperation(ctx, "accept_submission", time.Since(start), err, attrs...)
	}()

	if payload == nil {
		return nil, ErrInvalidPayload
	}
	if err := s.validator.Validate(payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingFields, err)
	}

	row := s.composeRow(ctx, payload)
	line := []byte(row.Format())

	claimKey, claimed := s.claim(ctx, line)
	if claimKey != "" && !claimed {
		return &AcceptResult{Row: row, Duplicate: true}, nil
	}

	if err := s.log.Append(line); err != nil {
		if claimed {
			s.release(ctx, claimKey)
		}
		return nil, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	s.publish(ctx, row)
	return &AcceptResult{Row: row}, nil
}

// composeRow sanitizes names and encodes the answers column.
func (s *submissionService) composeRow(ctx context.Context, payload *models.SubmissionPayload) store.Row {
	return store.Row{
		Timestamp:      models.FieldText(payload.Timestamp),
		FirstName:      stripCommas(models.FieldText(payload.FirstName)),
		LastName:       stripCommas(models.FieldText(payload.LastName)),
		Score:          models.FieldText(payload.Score),
		TotalQuestions: models.FieldText(payload.TotalQuestions),
		AnswersJSON:    s.encodeAnswers(ctx, payload.Answers),
	}
}

// encodeAnswers re-encodes answers compactly. Any failure is recovered by
// storing an empty object instead of rejecting the submission.
func (s *submissionService) encodeAnswers(ctx context.Context, raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		s.logger.Logger().WarnContext(ctx, "Failed to encode answers, storing empty object", "error", err)
		return "{}"
	}
	return buf.String()
}

func stripCommas(s string) string {
	return strings.ReplaceAll(s, ",", "")
}

// claim returns the dedup key and whether this request owns it. An empty
// key means dedup is off or unavailable and the write proceeds.
func (s *submissionService) claim(ctx context.Context, line []byte) (string, bool) {
	if s.dedup.Cache == nil {
		return "", false
	}

	sum := sha256.Sum256(line)
	key := dedupKeyPrefix + hex.EncodeToString(sum[:])

	set, err := s.dedup.Cache.SetIfAbsent(ctx, key, s.dedup.Window)
	if err != nil {
		s.logger.Logger().WarnContext(ctx, "Duplicate check unavailable, appending anyway", "error", err)
		return "", false
	}
	if !set {
		s.logger.Logger().InfoContext(ctx, "Duplicate submission suppressed", "key", key)
	}
	return key, set
}

func (s *submissionService) release(ctx context.Context, key string) {
	if err := s.dedup.Cache.Delete(context.WithoutCancel(ctx), key); err != nil {
		s.logger.Logger().WarnContext(ctx, "Failed to release duplicate claim", "key", key, "error", err)
	}
}

func (s *submissionService) publish(ctx context.Context, row store.Row) {
	if s.publisher == nil {
		return
	}

	event := events.NewSubmissionRecordedEvent(events.SubmissionRecorded{
		FirstName:      row.FirstName,
		LastName:       row.LastName,
		Score:          row.Score,
		TotalQuestions: row.TotalQuestions,
		SubmittedAt:    row.Timestamp,
		ResultsFile:    s.log.Path(),
	}, s.now())

	if err := s.publisher.PublishSubmissionEvent(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Logger().ErrorContext(ctx, "Failed to publish submission event",
			"event_id", event.ID,
			"error", err)
	}
}
