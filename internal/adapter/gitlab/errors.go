package gitlab

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/bkyoung/lintgate/internal/adapter/httpx"
)

const platformName = "gitlab"

// mapHTTPError maps GitLab API HTTP status codes to typed httpx errors
// so the shared retry logic can decide what to do with them.
func mapHTTPError(statusCode int, body []byte) *httpx.Error {
	message := parseErrorMessage(statusCode, body)

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &httpx.Error{
			Type:       httpx.ErrTypeAuthentication,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  false,
			Platform:   platformName,
		}
	case http.StatusTooManyRequests:
		return &httpx.Error{
			Type:       httpx.ErrTypeRateLimit,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  true,
			Platform:   platformName,
		}
	case http.StatusNotFound:
		return &httpx.Error{
			Type:       httpx.ErrTypeNotFound,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  false,
			Platform:   platformName,
		}
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusConflict:
		return &httpx.Error{
			Type:       httpx.ErrTypeInvalidRequest,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  false,
			Platform:   platformName,
		}
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable:
		return &httpx.Error{
			Type:       httpx.ErrTypeServiceUnavailable,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  true,
			Platform:   platformName,
		}
	default:
		return &httpx.Error{
			Type:       httpx.ErrTypeUnknown,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  false,
			Platform:   platformName,
		}
	}
}

// parseErrorMessage extracts a message from GitLab's error body, which
// may carry either "message" (string or object) or "error".
func parseErrorMessage(statusCode int, body []byte) string {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		switch msg := errResp.Message.(type) {
		case string:
			if msg != "" {
				return msg
			}
		case map[string]interface{}:
			if len(msg) > 0 {
				return fmt.Sprintf("%v", msg)
			}
		}
		if errResp.Error != "" {
			return errResp.Error
		}
	}

	preview := strings.TrimSpace(string(body))
	if len(preview) > 100 {
		preview = preview[:100] + "..."
	}
	if preview == "" {
		return fmt.Sprintf("HTTP %d", statusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", statusCode, preview)
}
