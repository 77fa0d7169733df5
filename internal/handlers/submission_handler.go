package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/SAP-F-2025/placement-test-service/internal/middleware"
	"github.com/SAP-F-2025/placement-test-service/internal/models"
	"github.com/SAP-F-2025/placement-test-service/internal/services"
	"github.com/SAP-F-2025/placement-test-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const maxSubmissionBytes = 1 << 20

type SubmissionHandler struct {
	BaseHandler
	submissionService services.SubmissionService
	metrics           *middleware.Metrics
}

func NewSubmissionHandler(
	submissionService services.SubmissionService,
	metrics *middleware.Metrics,
	logger utils.Logger,
) *SubmissionHandler {
	return &SubmissionHandler{
		BaseHandler:       NewBaseHandler(logger),
		submissionService: submissionService,
		metrics:           metrics,
	}
}

// Submit appends a scored placement test to the results log
// @Summary Submit results
// @Description Stores one graded submission as a results row
// @Tags submissions
// @Accept json
// @Produce plain
// @Param submission body models.SubmissionPayload true "Graded submission"
// @Success 200 {string} string
// @Failure 400 {string} string
// @Failure 500 {string} string
// @Router /submit [post]
func (h *SubmissionHandler) Submit(c *gin.Context) {
	payload, status, msg, err := h.decode(c)
	if err != nil {
		h.observe(middleware.OutcomeRejected)
		h.RespondWithText(c, status, msg, nil, "reason", err.Error())
		return
	}

	result, err := h.submissionService.Accept(c.Request.Context(), payload)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if result.Duplicate {
		h.observe(middleware.OutcomeDuplicate)
		h.RespondWithText(c, http.StatusOK, MsgSubmissionDuplicate, nil)
		return
	}

	h.observe(middleware.OutcomeSaved)
	h.RespondWithText(c, http.StatusOK, MsgSubmissionSaved, nil,
		"first_name", result.Row.FirstName,
		"last_name", result.Row.LastName,
		"score", result.Row.Score)
}

// decode reads the body. An empty body is treated as an empty object so
// it fails the presence check rather than the JSON check.
func (h *SubmissionHandler) decode(c *gin.Context) (*models.SubmissionPayload, int, string, error) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxSubmissionBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, http.StatusRequestEntityTooLarge, MsgPayloadTooLarge, err
		}
		return nil, http.StatusBadRequest, MsgInvalidJSON, err
	}

	var payload models.SubmissionPayload
	if strings.TrimSpace(string(body)) == "" {
		return &payload, 0, "", nil
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, http.StatusBadRequest, MsgInvalidJSON, err
	}
	return &payload, 0, "", nil
}

func (h *SubmissionHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidPayload):
		h.observe(middleware.OutcomeRejected)
		h.RespondWithText(c, http.StatusBadRequest, MsgInvalidJSON, nil, "reason", err.Error())
	case services.IsValidation(err):
		h.observe(middleware.OutcomeRejected)
		h.RespondWithText(c, http.StatusBadRequest, MsgMissingFields, nil, "reason", err.Error())
	default:
		h.observe(middleware.OutcomeFailed)
		h.RespondWithText(c, http.StatusInternalServerError, MsgSaveFailed, err)
	}
}

func (h *SubmissionHandler) observe(outcome string) {
	if h.metrics != nil {
		h.metrics.ObserveSubmission(outcome)
	}
}
