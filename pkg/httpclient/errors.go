package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/ysam020/assessment/pkg/errors"
)

// maxErrorBodyBytes caps how much of a failed response body is read.
const maxErrorBodyBytes = 1 << 20

// DownstreamErrorResponse mirrors the httputil.ErrorResponse shape the
// platform's services return, so structured error bodies can be decoded.
type DownstreamErrorResponse struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ParseResponseError turns a non-2xx response into an AppError, preserving
// the downstream code and message when the body follows the standard
// ErrorResponse format. The body is fully consumed and closed.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err)
	}

	var downstream DownstreamErrorResponse
	if json.Unmarshal(bodyBytes, &downstream) == nil && downstream.Error != nil {
		return mapDownstreamError(resp.StatusCode, downstream.Error.Code, downstream.Error.Message, serviceName)
	}

	return fmt.Errorf("%s returned status %d: %s", serviceName, resp.StatusCode, string(bodyBytes))
}

// mapDownstreamError maps a downstream status and error code onto the local
// error model so errors.Is checks keep working across service boundaries.
func mapDownstreamError(status int, code, message, serviceName string) error {
	qualifiedMsg := serviceName + ": " + message

	switch status {
	case http.StatusNotFound:
		return apperrors.NotFound(serviceName, message)
	case http.StatusBadRequest:
		return apperrors.InvalidInput(qualifiedMsg)
	case http.StatusConflict:
		return apperrors.Conflict(qualifiedMsg)
	case http.StatusUnauthorized:
		return apperrors.Unauthorized(qualifiedMsg)
	case http.StatusForbidden:
		return apperrors.Forbidden(qualifiedMsg)
	case http.StatusServiceUnavailable:
		return &apperrors.AppError{
			Code:    code,
			Message: qualifiedMsg,
			Status:  http.StatusServiceUnavailable,
			Err:     apperrors.ErrServiceUnavail,
		}
	}

	if status >= 500 {
		return fmt.Errorf("%s server error (%d/%s): %s", serviceName, status, code, message)
	}

	return &apperrors.AppError{
		Code:    code,
		Message: qualifiedMsg,
		Status:  status,
	}
}

// IsClientError reports whether status is a 4xx. Client errors should not
// trip the circuit breaker or trigger fallbacks; the request itself was bad.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
