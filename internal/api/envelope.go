package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/diaryhq/diary-server/internal/errors"
)

// EnvelopeVersion is the response envelope format version. Clients check it
// before decoding anything else.
const EnvelopeVersion = 1

// APIEnvelope wraps every successful response.
type APIEnvelope struct { //nolint:revive // API prefix is intentional for clarity
	Version int  `json:"v"`
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// APIErrorEnvelope wraps every error response.
type APIErrorEnvelope struct { //nolint:revive // API prefix is intentional for clarity
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer is a huma transformer that wraps response bodies in
// the versioned envelope. Errors produced by the error handler become error
// envelopes; everything else is success data.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	switch body := v.(type) {
	case APIEnvelope, APIErrorEnvelope:
		return body, nil
	case *APIError:
		return newErrorEnvelope(body.Code, body.Message, body.Details), nil
	case *domainerrors.Error:
		// Handlers return domain errors as huma status errors; only the
		// message is exposed, never the wrapped cause.
		return newErrorEnvelope(string(body.Code), body.Message, body.Details), nil
	case error:
		return newErrorEnvelope(statusToCodeString(status), body.Error(), nil), nil
	}

	return APIEnvelope{
		Version: EnvelopeVersion,
		Success: true,
		Data:    v,
	}, nil
}

func newErrorEnvelope(code, message string, details any) APIErrorEnvelope {
	return APIErrorEnvelope{
		Version: EnvelopeVersion,
		Success: false,
		Code:    code,
		Message: message,
		Details: details,
	}
}

func statusToCodeString(status string) string {
	code, err := strconv.Atoi(status)
	if err != nil {
		return string(domainerrors.CodeInternal)
	}
	return statusToCode(code)
}

// writeErrorEnvelope writes an error envelope from plain net/http code, for
// failures that happen before a request reaches huma.
func writeErrorEnvelope(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(newErrorEnvelope(code, message, nil))
}
