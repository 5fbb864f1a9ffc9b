package tui

import (
	"github.com/JonMunkholm/directory/internal/directory"
	"github.com/JonMunkholm/directory/internal/service"
)

// DoneMsg reports a finished action with a short status line.
type DoneMsg string

// ErrMsg reports a failed action.
type ErrMsg struct{ Err error }

type loadedMsg struct{ ds *directory.Dataset }

// searchAppliedMsg signals that a debounced search ran; the model reads the
// new view from the session.
type searchAppliedMsg struct{}

type sortSelectedMsg directory.SortKey

type statusMsg service.Status
