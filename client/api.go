// Package client is the data layer the admin and public views sit on: a
// small HTTP client with a bounded retry policy, a request cache with
// stale-while-revalidate semantics, and an optimistic mutation wrapper.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"talentbridge/pkg/logger"
)

const (
	queryRetries    = 2
	mutationRetries = 1

	backoffBase = 500 * time.Millisecond
	backoffCap  = 3 * time.Second
)

// APIError is any non-2xx response, carrying the server's message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// API issues JSON requests against the backend.
type API struct {
	base string
	http *http.Client
}

func NewAPI(base string) *API {
	return &API{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

// Get fetches path (an absolute API path, optionally with a query string) and
// returns the raw response body. Transport and 5xx failures are retried
// twice with capped exponential backoff.
func (a *API) Get(ctx context.Context, path string) ([]byte, error) {
	return a.roundTrip(ctx, http.MethodGet, path, nil, queryRetries)
}

// Do issues a mutation. Mutations get a single retry, and only for failures
// where the server cannot have applied the write meaningfully (transport
// errors and 5xx); a 4xx is final.
func (a *API) Do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, err
		}
	}
	return a.roundTrip(ctx, method, path, payload, mutationRetries)
}

func (a *API) roundTrip(ctx context.Context, method, path string, payload []byte, retries int) ([]byte, error) {
	var lastErr error
	for attempt := 0; ; attempt++ {
		body, err := a.once(ctx, method, path, payload)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if apiErr, ok := err.(*APIError); ok && apiErr.Status < 500 {
			return nil, err
		}
		if attempt >= retries {
			return nil, lastErr
		}

		logger.Sugar.Debugf("Retrying %s %s after error: %v", method, path, err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff(attempt)):
		}
	}
}

func (a *API) once(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.base+path, reader)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Message: errorMessage(resp, body)}
	}
	return body, nil
}

// errorMessage extracts the server's message field, falling back to the
// status text, then to the raw body.
func errorMessage(resp *http.Response, body []byte) string {
	var parsed struct {
		Message string `json:"message"`
		Err     string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Err != "" {
			return parsed.Err
		}
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return string(body)
}

func backoff(attempt int) time.Duration {
	d := backoffBase << attempt
	if d > backoffCap {
		return backoffCap
	}
	return d
}
