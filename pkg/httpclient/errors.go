package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/fabricio2fb/reviewlar/pkg/errors"
)

const maxBody = 1 << 20

// remoteError matches both our own envelope and the {"error": "..."} shape
// some model-serving endpoints return.
type remoteError struct {
	Error json.RawMessage `json:"error"`
}

type remoteEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ParseResponseError consumes and closes a non-2xx response and maps it to
// an error. 5xx answers become Unavailable so callers can degrade.
func ParseResponseError(resp *http.Response, service string) error {
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("%s returned status %d (read body: %w)", service, resp.StatusCode, err)
	}

	message, code := string(raw), "CONFLICT"
	var re remoteError
	if json.Unmarshal(raw, &re) == nil && len(re.Error) > 0 {
		var env remoteEnvelope
		var s string
		switch {
		case json.Unmarshal(re.Error, &env) == nil && env.Message != "":
			message = env.Message
			if env.Code != "" {
				code = env.Code
			}
		case json.Unmarshal(re.Error, &s) == nil:
			message = s
		}
	}

	cause := fmt.Errorf("%s returned status %d: %s", service, resp.StatusCode, message)
	switch {
	case resp.StatusCode >= 500:
		return apperrors.Unavailable(service, cause)
	case resp.StatusCode == http.StatusTooManyRequests:
		return apperrors.RateLimited(message)
	case resp.StatusCode == http.StatusUnauthorized:
		return apperrors.Unauthorized(message)
	case resp.StatusCode == http.StatusForbidden:
		return apperrors.Forbidden(message)
	case resp.StatusCode == http.StatusConflict:
		return apperrors.Conflict(code, message)
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NotFound(service, "endpoint")
	default:
		return apperrors.InvalidInput(cause.Error())
	}
}
