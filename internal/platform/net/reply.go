package net

import (
	"net/http"

	perr "bazaar/internal/platform/errors"
)

// Wire is the response envelope; handlers and short circuiting middlewares both write it
type Wire struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// Reply builds the envelope for a successful status
func Reply(status int, data any, reqID string) Wire {
	return Wire{
		StatusCode: status,
		Status:     http.StatusText(status),
		RequestID:  reqID,
		Data:       data,
	}
}

// OK is Reply with 200
func OK(data any, reqID string) (int, Wire) {
	return http.StatusOK, Reply(http.StatusOK, data, reqID)
}

// Error maps err to its status and envelope; nil is a 200
func Error(err error, reqID string) (int, Wire) {
	if err == nil {
		return OK(nil, reqID)
	}
	status := perr.HTTPStatus(err)
	e := perr.WireFrom(err)
	w := Reply(status, nil, reqID)
	w.Code, w.Error, w.Field = e.Code, e.Message, e.Field
	return status, w
}
