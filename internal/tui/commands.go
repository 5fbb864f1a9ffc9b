package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/JonMunkholm/directory/internal/directory"
	"github.com/JonMunkholm/directory/internal/service"
)

// CommandTimeout bounds a load, reload or cache clear started from the UI.
var CommandTimeout = 2 * time.Minute

// Service is the part of service.Service the browser drives.
type Service interface {
	Load(ctx context.Context) (*directory.Dataset, error)
	Reload(ctx context.Context) (*directory.Dataset, error)
	ClearCache(ctx context.Context)
	Status() service.Status
}

// Actions turns service calls into tea.Cmds.
type Actions struct {
	svc Service
}

// Load loads the dataset, preferring the cache.
func (a Actions) Load() tea.Cmd {
	return a.datasetCmd("load", a.svc.Load)
}

// Reload fetches the sheet again, bypassing the cache.
func (a Actions) Reload() tea.Cmd {
	return a.datasetCmd("reload", a.svc.Reload)
}

func (a Actions) datasetCmd(name string, fn func(context.Context) (*directory.Dataset, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), CommandTimeout)
		defer cancel()

		ds, err := fn(ctx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return ErrMsg{Err: fmt.Errorf("%s timed out after %v: %w", name, CommandTimeout, err)}
			}
			return ErrMsg{Err: err}
		}
		return loadedMsg{ds: ds}
	}
}

// ClearCache drops the cached dataset.
func (a Actions) ClearCache() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), CommandTimeout)
		defer cancel()

		a.svc.ClearCache(ctx)
		return DoneMsg("Cache cleared")
	}
}

// Status reports the loaded dataset and the last load error.
func (a Actions) Status() tea.Cmd {
	return func() tea.Msg {
		return statusMsg(a.svc.Status())
	}
}

// waitForSearch blocks until a debounced search has been applied.
func waitForSearch(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return searchAppliedMsg{}
	}
}
