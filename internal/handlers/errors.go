package handlers

import (
	"net/http"
	"strconv"

	"taskHelper/internal/logger"
	"taskHelper/internal/service"

	"go.uber.org/zap"
)

// enhancementRetryAfter is sent with ENHANCEMENT_UNAVAILABLE responses.
const enhancementRetryAfter = 60

// handleError writes the JSON error body for err. Errors that are not
// business errors become a STORE_FAULT response.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	businessErr, ok := service.AsBusinessError(err)
	if !ok {
		businessErr = service.NewStoreFault(r.Method+" "+r.URL.Path, err)
	}

	statusCode := mapBusinessErrorToHTTP(businessErr.Code)
	fields := []zap.Field{
		zap.String("error_code", businessErr.Code),
		zap.Int("http_status", statusCode),
		zap.String("path", r.URL.Path),
	}
	if statusCode >= http.StatusInternalServerError {
		logger.Error("HTTP: request failed", err, fields...)
	} else {
		logger.Warn("HTTP: business error", fields...)
	}

	if service.HasCode(businessErr, service.CodeEnhancementUnavailable) {
		w.Header().Set("Retry-After", strconv.Itoa(enhancementRetryAfter))
	}

	details := businessErr.Details
	if details == nil {
		details = map[string]any{}
	}
	responseWithPayload(w, statusCode,
		toPayload("error", businessErr.Message),
		toPayload("code", businessErr.Code),
		toPayload("details", details),
	)
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeValidation, service.CodeNoFields, service.CodeInvalidID:
		return http.StatusBadRequest
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeDuplicateDetected:
		return http.StatusConflict
	case service.CodeEnhancementUnavailable:
		return http.StatusTooManyRequests
	case service.CodeImageGenerationFailed, service.CodeCreateFailed, service.CodeStoreFault:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
