package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/Mallowslabby/shopee/pkg/errors"
)

// downstreamError is the error envelope returned by downstream services.
type downstreamError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ParseResponseError converts a non-2xx HTTP response from a downstream service
// into an AppError. The response body is consumed but not closed.
func ParseResponseError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.Internal(fmt.Errorf("read error response: %w", err))
	}

	var envelope downstreamError
	msg := ""
	if err := json.Unmarshal(body, &envelope); err == nil {
		msg = envelope.Error.Message
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return &apperrors.AppError{
			Code:    "NOT_FOUND",
			Message: msg,
			Status:  http.StatusNotFound,
			Err:     apperrors.ErrNotFound,
		}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return apperrors.InvalidInput(msg)
	case http.StatusConflict:
		return &apperrors.AppError{
			Code:    "CONFLICT",
			Message: msg,
			Status:  http.StatusConflict,
			Err:     apperrors.ErrConflict,
		}
	default:
		return apperrors.Internal(fmt.Errorf("downstream returned %d: %s", resp.StatusCode, msg))
	}
}

// IsClientError reports whether the status code is in the 4xx range.
func IsClientError(statusCode int) bool {
	return statusCode >= 400 && statusCode < 500
}
