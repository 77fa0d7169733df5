package services

import (
	"log/slog"

	"github.com/SAP-F-2025/placement-test-service/internal/events"
	"github.com/SAP-F-2025/placement-test-service/internal/store"
	"github.com/SAP-F-2025/placement-test-service/internal/validator"
)

// ServiceManager hands out the services built over one results log.
type ServiceManager interface {
	Submission() SubmissionService
	Results() ResultsService
}

type serviceManager struct {
	submission SubmissionService
	results    ResultsService
}

func NewServiceManager(
	log *store.ResultsLog,
	publisher events.EventPublisher,
	dedup DedupOptions,
	validator *validator.Validator,
	logger *slog.Logger,
) ServiceManager {
	return &serviceManager{
		submission: NewSubmissionService(log, publisher, dedup, validator, logger),
		results:    NewResultsService(log, logger),
	}
}

func (m *serviceManager) Submission() SubmissionService {
	return m.submission
}

func (m *serviceManager) Results() ResultsService {
	return m.results
}
