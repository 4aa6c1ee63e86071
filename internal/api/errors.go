package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/diaryhq/diary-server/internal/errors"
	"github.com/diaryhq/diary-server/internal/store"
)

// codeUnavailable is reported when a dependency such as the database is down.
const codeUnavailable = "UNAVAILABLE"

// APIError is a custom error type that implements huma.StatusError.
// It maps domain errors to HTTP responses with consistent structure.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler configures huma to translate every error into an
// APIError. It is the only place where errors become status codes:
//   - domain errors keep their code and message
//   - store errors that escaped the services are mapped by kind
//   - huma's own request validation failures become 400 VALIDATION
//   - anything else is logged and reported as 500 without internals
//
// Call this after creating the huma.API but before registering routes.
func RegisterErrorHandler(logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		for _, err := range errs {
			var domainErr *domainerrors.Error
			if errors.As(err, &domainErr) {
				if domainErr.Code == domainerrors.CodeInternal {
					logger.Error("internal error", "error", err)
				}
				return &APIError{
					status:  domainErr.HTTPStatus(),
					Code:    string(domainErr.Code),
					Message: domainErr.Message,
					Details: domainErr.Details,
				}
			}

			if apiErr := fromStoreError(err); apiErr != nil {
				return apiErr
			}
		}

		switch {
		case status == http.StatusUnprocessableEntity || status == http.StatusBadRequest:
			return requestValidationError(message, errs)
		case status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable:
			logger.Error("unhandled error", "status", status, "message", message, "error", errors.Join(errs...))
			return &APIError{
				status:  http.StatusInternalServerError,
				Code:    string(domainerrors.CodeInternal),
				Message: "Internal server error",
			}
		}

		return &APIError{
			status:  status,
			Code:    statusToCode(status),
			Message: message,
		}
	}
}

// fromStoreError maps store errors that reached the boundary untranslated.
func fromStoreError(err error) *APIError {
	var storeErr *store.Error
	if !errors.As(err, &storeErr) {
		return nil
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		return &APIError{status: http.StatusNotFound, Code: string(domainerrors.CodeNotFound), Message: storeErr.Message}
	case errors.Is(err, store.ErrAlreadyExists):
		return &APIError{status: http.StatusConflict, Code: string(domainerrors.CodeConflict), Message: "Record already exists"}
	case errors.Is(err, store.ErrInvalidReference):
		return &APIError{
			status:  http.StatusBadRequest,
			Code:    string(domainerrors.CodeIntegrity),
			Message: "Integrity error: referenced record does not exist",
		}
	}
	return nil
}

// requestValidationError reports a request huma could not bind (malformed
// JSON, wrong types) as a 400. The first detail becomes the message.
func requestValidationError(message string, errs []error) *APIError {
	details := make(map[string]string, len(errs))
	first := ""
	for _, err := range errs {
		var detail *huma.ErrorDetail
		if errors.As(err, &detail) {
			location := strings.TrimPrefix(detail.Location, "body.")
			details[location] = detail.Message
			if first == "" {
				first = detail.Message
				if location != "" && location != "body" {
					first = location + ": " + detail.Message
				}
			}
			continue
		}
		if first == "" {
			first = err.Error()
		}
	}
	if first == "" {
		first = message
	}

	apiErr := &APIError{
		status:  http.StatusBadRequest,
		Code:    string(domainerrors.CodeValidation),
		Message: first,
	}
	if len(details) > 0 {
		apiErr.Details = details
	}
	return apiErr
}

// statusToCode maps HTTP status codes to our domain error codes.
func statusToCode(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return string(domainerrors.CodeValidation)
	case http.StatusUnauthorized:
		return string(domainerrors.CodeUnauthorized)
	case http.StatusForbidden:
		return string(domainerrors.CodeForbidden)
	case http.StatusNotFound:
		return string(domainerrors.CodeNotFound)
	case http.StatusConflict:
		return string(domainerrors.CodeConflict)
	case http.StatusTooManyRequests:
		return string(domainerrors.CodeRateLimited)
	case http.StatusServiceUnavailable:
		return codeUnavailable
	default:
		if status >= 400 && status < 500 {
			return string(domainerrors.CodeValidation)
		}
		return string(domainerrors.CodeInternal)
	}
}
