// Package relay is the client for the snapshot relay: a key-value document
// service that stores one whole clinic snapshot per opaque identifier.
//
// The relay has no partial-update or query capability, so every operation
// transfers the complete snapshot. That bounds the cross-device consistency
// model to last-writer-wins at the document level: concurrent writers race and
// the last replace to complete wins in full.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/klinikapp/klinikd/internal/models"
)

// ErrNotFound reports an identifier that does not resolve to a document,
// either never created or expired at the relay. Distinct from RemoteError so
// callers know to re-provision instead of retrying.
var ErrNotFound = errors.New("snapshot document not found")

// RemoteError wraps transport and server failures talking to the relay. The
// periodic retry cadence recovers from these; local state is never touched.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("relay %s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

const (
	docsPath       = "/api/docs"
	requestTimeout = 10 * time.Second
)

// Client talks to the relay's HTTP API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// NewClient builds a Client for the given base URL, e.g. "https://relay.example.com".
func NewClient(baseURL string) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse relay url %q: %w", baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("relay url %q must be absolute", baseURL)
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: requestTimeout},
	}, nil
}

// Create submits an initial snapshot document and returns the identifier the
// relay minted for it. On failure no identifier was allocated for the caller.
func (c *Client) Create(ctx context.Context, snap models.Snapshot) (string, error) {
	var result struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, docsPath, snap, &result); err != nil {
		return "", err
	}
	if result.ID == "" {
		return "", &RemoteError{Op: "create", Err: errors.New("relay returned no id")}
	}
	return result.ID, nil
}

// Fetch retrieves the full document stored under id.
func (c *Client) Fetch(ctx context.Context, id string) (models.Snapshot, error) {
	var snap models.Snapshot
	if err := c.do(ctx, http.MethodGet, docsPath+"/"+url.PathEscape(id), nil, &snap); err != nil {
		return models.Snapshot{}, err
	}
	return snap, nil
}

// Replace overwrites the full document at id.
func (c *Client) Replace(ctx context.Context, id string, snap models.Snapshot) error {
	return c.do(ctx, http.MethodPut, docsPath+"/"+url.PathEscape(id), snap, nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload, dest any) error {
	op := strings.ToLower(method) + " " + path

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return &RemoteError{Op: op, Err: fmt.Errorf("encode payload: %w", err)}
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	// JoinPath keeps any path prefix on the base URL, so a relay mounted
	// behind a reverse-proxy subpath stays reachable.
	reqURL := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return &RemoteError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &RemoteError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case resp.StatusCode >= 400:
		return &RemoteError{Op: op, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &RemoteError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
