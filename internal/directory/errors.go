package directory

// errors.go defines the load error taxonomy and the user-facing messages.
//
// # Error Codes Reference
//
//	FETCH001 - HTTP error: the sheet URL answered with a non-2xx status
//	FETCH002 - Empty response: the sheet URL answered with a blank body
//	FETCH003 - Redirect: an HTML page came back instead of CSV, usually
//	           because the sheet is not published to the web
//	FETCH004 - Network: the request never got an HTTP answer
//	           (a body over the size limit falls through to ERR000)
//	PARSE001 - Parse: the CSV has no data rows or no header names
//	REQ001   - Cancelled: the load was superseded or the caller gave up
//	ERR000   - Anything else
//
// A FetchExhaustedError is classified by the last error it carries.

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrEmptyResponse is returned when the sheet answers with a blank body.
var ErrEmptyResponse = errors.New("empty CSV data received")

// HTTPError reports a non-success HTTP status from the sheet URL.
type HTTPError struct {
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error: status %d", e.Status)
}

// RedirectError reports an HTML document where CSV was expected.
type RedirectError struct {
	// Title is the page <title>, when one could be found.
	Title string
}

func (e *RedirectError) Error() string {
	if e.Title != "" {
		return fmt.Sprintf("received HTML redirect instead of CSV data (page %q)", e.Title)
	}
	return "received HTML redirect instead of CSV data"
}

// ParseError reports CSV text that cannot form a dataset.
type ParseError struct {
	// Line is the 1-based line the failure refers to, 0 for the whole text.
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("CSV parsing error: line %d: %s", e.Line, e.Reason)
	}
	return "CSV parsing error: " + e.Reason
}

// BodyTooLargeError reports a sheet body longer than the fetch limit. The
// body is rejected whole; a cut-off sheet would end in a broken row.
type BodyTooLargeError struct {
	Limit int64
}

func (e *BodyTooLargeError) Error() string {
	return fmt.Sprintf("sheet body exceeds %d bytes", e.Limit)
}

// FetchExhaustedError is returned after every fetch attempt failed.
// It unwraps to the error of the final attempt.
type FetchExhaustedError struct {
	Attempts int
	Last     error
}

func (e *FetchExhaustedError) Error() string {
	return fmt.Sprintf("failed to fetch data after %d attempts: %v", e.Attempts, e.Last)
}

func (e *FetchExhaustedError) Unwrap() error {
	return e.Last
}

// UserMessage is the fixed, human-readable rendering of a load error.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Support reference
}

var (
	msgHTTP = UserMessage{
		Message: "Unable to load data from Google Sheets. Please try again later.",
		Action:  "Try again in a few minutes",
		Code:    "FETCH001",
	}
	msgEmpty = UserMessage{
		Message: "Invalid CSV data received. Please check the spreadsheet format.",
		Action:  "Make sure the published sheet has a header row and data",
		Code:    "FETCH002",
	}
	msgRedirect = UserMessage{
		Message: "Unable to access CSV data. Please ensure the spreadsheet is published to web and the URL is correct.",
		Action:  "Publish the sheet as CSV and update the configured URL",
		Code:    "FETCH003",
	}
	msgNetwork = UserMessage{
		Message: "Network error. Please check your connection and try again.",
		Action:  "Check the connection and retry",
		Code:    "FETCH004",
	}
	msgParse = UserMessage{
		Message: "Error parsing CSV data. Please check the spreadsheet format.",
		Action:  "Check that the first row holds the column names",
		Code:    "PARSE001",
	}
	msgCancelled = UserMessage{
		Message: "Loading was cancelled.",
		Action:  "Retry to load the directory",
		Code:    "REQ001",
	}
	defaultMessage = UserMessage{
		Message: "Failed to load initiatives. Please check your internet connection and try again.",
		Action:  "Please try again",
		Code:    "ERR000",
	}
)

// MapError returns the user message for err. A nil error maps to the zero
// UserMessage.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var (
		parseErr    *ParseError
		redirectErr *RedirectError
		httpErr     *HTTPError
		netErr      net.Error
	)
	switch {
	case errors.As(err, &parseErr):
		return msgParse
	case errors.As(err, &redirectErr):
		return msgRedirect
	case errors.As(err, &httpErr):
		return msgHTTP
	case errors.Is(err, ErrEmptyResponse):
		return msgEmpty
	case errors.Is(err, context.Canceled):
		return msgCancelled
	case errors.As(err, &netErr):
		return msgNetwork
	}
	return defaultMessage
}

// FormatUserError renders err as "Message (Code: XXX)".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s)", msg.Message, msg.Code)
}
