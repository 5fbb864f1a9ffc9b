package web

// errors.go turns load errors into responses.
//
// The technical error is logged with the request ID; the client only ever
// sees the fixed user message for the error's kind (directory.MapError).
// API routes answer JSON, pages render the message in place of the results.

import (
	"net/http"
	"strings"

	"github.com/JonMunkholm/directory/internal/directory"
	"github.com/JonMunkholm/directory/internal/logging"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor picks the HTTP status for a load error: upstream sheet
// problems are 502, a cancelled load is 503.
func statusFor(err error) int {
	code := directory.MapError(err).Code
	switch {
	case strings.HasPrefix(code, "FETCH"), strings.HasPrefix(code, "PARSE"):
		return http.StatusBadGateway
	case code == "REQ001":
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondError logs err and writes its user message as JSON.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	msg := directory.MapError(err)
	status := statusFor(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	)

	writeJSON(w, status, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}
