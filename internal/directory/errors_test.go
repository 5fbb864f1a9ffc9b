package directory

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "http status maps to sheets message",
			err:         &HTTPError{Status: 500},
			wantCode:    "FETCH001",
			wantMessage: "Unable to load data from Google Sheets. Please try again later.",
		},
		{
			name:        "empty body maps to invalid data",
			err:         ErrEmptyResponse,
			wantCode:    "FETCH002",
			wantMessage: "Invalid CSV data received. Please check the spreadsheet format.",
		},
		{
			name:        "redirect maps to publish hint",
			err:         &RedirectError{Title: "Sign in"},
			wantCode:    "FETCH003",
			wantMessage: "Unable to access CSV data. Please ensure the spreadsheet is published to web and the URL is correct.",
		},
		{
			name:        "network error maps to connection message",
			err:         &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")},
			wantCode:    "FETCH004",
			wantMessage: "Network error. Please check your connection and try again.",
		},
		{
			name:        "parse error maps to format message",
			err:         &ParseError{Reason: "too short"},
			wantCode:    "PARSE001",
			wantMessage: "Error parsing CSV data. Please check the spreadsheet format.",
		},
		{
			name:        "cancelled load",
			err:         fmt.Errorf("load: %w", context.Canceled),
			wantCode:    "REQ001",
			wantMessage: "Loading was cancelled.",
		},
		{
			name:        "exhausted fetch classified by last error",
			err:         &FetchExhaustedError{Attempts: 3, Last: &HTTPError{Status: 503}},
			wantCode:    "FETCH001",
			wantMessage: "Unable to load data from Google Sheets. Please try again later.",
		},
		{
			name:        "exhausted fetch with redirect",
			err:         &FetchExhaustedError{Attempts: 3, Last: &RedirectError{}},
			wantCode:    "FETCH003",
			wantMessage: "Unable to access CSV data. Please ensure the spreadsheet is published to web and the URL is correct.",
		},
		{
			name:        "oversize body returns default",
			err:         &FetchExhaustedError{Attempts: 3, Last: &BodyTooLargeError{Limit: 1 << 20}},
			wantCode:    "ERR000",
			wantMessage: "Failed to load initiatives. Please check your internet connection and try again.",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("something odd"),
			wantCode:    "ERR000",
			wantMessage: "Failed to load initiatives. Please check your internet connection and try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}

	got := FormatUserError(ErrEmptyResponse)
	want := "Invalid CSV data received. Please check the spreadsheet format. (Code: FETCH002)"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}
}

func TestFetchExhaustedError(t *testing.T) {
	last := &HTTPError{Status: 404}
	err := error(&FetchExhaustedError{Attempts: 3, Last: last})

	want := "failed to fetch data after 3 attempts: HTTP error: status 404"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.Status != 404 {
		t.Error("errors.As did not reach the last attempt's error")
	}
}

func TestParseError_Message(t *testing.T) {
	tests := []struct {
		err  *ParseError
		want string
	}{
		{&ParseError{Reason: "no rows"}, "CSV parsing error: no rows"},
		{&ParseError{Line: 1, Reason: "no headers"}, "CSV parsing error: line 1: no headers"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
