package handlers

import (
	"github.com/SAP-F-2025/placement-test-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// Response texts are part of the public contract; clients display them as-is.
const (
	MsgSubmissionSaved     = "Submission received and results saved successfully."
	MsgSubmissionDuplicate = "Submission already recorded."
	MsgMissingFields       = "Bad Request: Missing required submission fields."
	MsgInvalidJSON         = "Bad Request: Invalid JSON body."
	MsgPayloadTooLarge     = "Payload Too Large: Submission body exceeds the size limit."
	MsgSaveFailed          = "Internal Server Error: Could not save results."
	MsgResultsNotFound     = "Not Found: Results file does not exist. No results have been submitted yet, or the file may have been lost (e.g., due to ephemeral storage)."
	MsgReadFailed          = "Internal Server Error: Could not read results."
)

// BaseHandler provides common logging functionality for all handlers
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) requestFields(c *gin.Context, additionalFields []any) []any {
	fields := []any{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"remote_addr", c.ClientIP(),
		"request_id", c.GetHeader("X-Request-ID"),
	}
	return append(fields, additionalFields...)
}

func (h *BaseHandler) log(c *gin.Context) utils.Logger {
	return utils.GetLoggerFromContext(c, h.logger)
}

// LogRequest logs an incoming request with its context information
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...any) {
	h.log(c).Info(message, h.requestFields(c, additionalFields)...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...any) {
	h.log(c).LogError(err, message, h.requestFields(c, additionalFields)...)
}

func (h *BaseHandler) LogWarn(c *gin.Context, message string, additionalFields ...any) {
	h.log(c).Warn(message, h.requestFields(c, additionalFields)...)
}

// RespondWithText writes a plain-text response and logs it. Errors are
// logged at error level, other non-2xx responses at warn level.
func (h *BaseHandler) RespondWithText(c *gin.Context, statusCode int, message string, err error, additionalFields ...any) {
	fields := append([]any{"status_code", statusCode}, additionalFields...)
	switch {
	case err != nil:
		h.LogError(c, err, message, fields...)
	case statusCode >= 400:
		h.LogWarn(c, message, fields...)
	default:
		h.LogRequest(c, message, fields...)
	}

	c.String(statusCode, message)
}
