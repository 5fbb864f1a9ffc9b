package fetch

// fetcher.go retrieves the published sheet as CSV text.
//
// Every attempt is classified into one of the directory error kinds:
//
//	non-2xx status           -> *directory.HTTPError
//	blank body               -> directory.ErrEmptyResponse
//	HTML instead of CSV      -> *directory.RedirectError
//	body over MaxBodyBytes   -> *directory.BodyTooLargeError
//	transport failure        -> the client error, unchanged
//
// Failed attempts are retried with a linear backoff (RetryDelay * attempt).
// Once all attempts fail the caller gets *directory.FetchExhaustedError,
// which unwraps to the last attempt's error.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/JonMunkholm/directory/internal/directory"
	"github.com/JonMunkholm/directory/internal/logging"
)

// Defaults used when the corresponding Fetcher field is zero.
const (
	DefaultMaxAttempts  = 3
	DefaultRetryDelay   = time.Second
	DefaultMaxBodyBytes = 10 << 20
)

// Doer sends an HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher downloads CSV text from a sheet URL.
type Fetcher struct {
	Client       Doer
	URL          string
	MaxAttempts  int
	RetryDelay   time.Duration
	MaxBodyBytes int64

	// Sleep waits between attempts. Nil uses a timer that stops early when
	// ctx is done.
	Sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Fetcher for url using client and the default retry policy.
func New(client Doer, url string) *Fetcher {
	return &Fetcher{
		Client:       client,
		URL:          url,
		MaxAttempts:  DefaultMaxAttempts,
		RetryDelay:   DefaultRetryDelay,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

// Fetch returns the sheet's CSV text.
//
// A cancelled ctx stops the retry loop and returns ctx's error.
func (f *Fetcher) Fetch(ctx context.Context) (string, error) {
	log := logging.FromContext(ctx)
	attempts := f.MaxAttempts
	if attempts < 1 {
		attempts = DefaultMaxAttempts
	}

	start := time.Now()
	defer func() {
		fetchDuration.Observe(time.Since(start).Seconds())
	}()

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		text, err := f.attempt(ctx)
		if err == nil {
			fetchAttempts.WithLabelValues(outcomeOK).Inc()
			if attempt > 1 {
				log.Info("sheet fetched after retry", "attempt", attempt)
			}
			return text, nil
		}

		fetchAttempts.WithLabelValues(outcome(err)).Inc()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		lastErr = err
		log.Warn("sheet fetch attempt failed",
			"attempt", attempt,
			"max_attempts", attempts,
			"error", err,
		)

		if attempt < attempts {
			if err := f.sleep(ctx, f.RetryDelay*time.Duration(attempt)); err != nil {
				return "", err
			}
		}
	}

	return "", &directory.FetchExhaustedError{Attempts: attempts, Last: lastErr}
}

// attempt performs one GET and classifies the response.
func (f *Fetcher) attempt(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain, */*")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := f.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return "", &directory.HTTPError{Status: resp.StatusCode}
	}

	limit := f.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > limit {
		return "", &directory.BodyTooLargeError{Limit: limit}
	}

	text := string(body)
	if strings.TrimSpace(text) == "" {
		return "", directory.ErrEmptyResponse
	}
	if LooksLikeHTML(text) {
		return "", &directory.RedirectError{Title: PageTitle(text)}
	}
	return text, nil
}

func (f *Fetcher) sleep(ctx context.Context, d time.Duration) error {
	if f.Sleep != nil {
		return f.Sleep(ctx, d)
	}
	return SleepContext(ctx, d)
}

// SleepContext waits for d or until ctx is done, whichever comes first.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// outcome is the metrics label for a failed attempt.
func outcome(err error) string {
	var (
		httpErr     *directory.HTTPError
		redirectErr *directory.RedirectError
		tooLarge    *directory.BodyTooLargeError
	)
	switch {
	case errors.As(err, &tooLarge):
		return outcomeTooLarge
	case errors.As(err, &httpErr):
		return outcomeHTTP
	case errors.Is(err, directory.ErrEmptyResponse):
		return outcomeEmpty
	case errors.As(err, &redirectErr):
		return outcomeRedirect
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return outcomeCanceled
	}
	return outcomeNetwork
}
