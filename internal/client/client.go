// Package client talks JSON over HTTP to the story-evaluation service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"inkpad/internal/logger"
	"inkpad/internal/protocol"

	"github.com/google/uuid"
)

// maxBodyBytes caps how much of a reply is read.
const maxBodyBytes = 4 << 20

// TransportError covers network failures, timeouts and bodies that are not a
// recognizable reply.
type TransportError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: http %d: %v", e.Endpoint, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Options configures a Client.
type Options struct {
	BaseURL    string
	CommitPath string
	ChoosePath string
	HTTP       *http.Client
	Log        *logger.LogEntry
}

// Client is safe for concurrent use; it keeps no per-request state.
type Client struct {
	baseURL    string
	commitPath string
	choosePath string
	http       *http.Client
	log        *logger.LogEntry
}

func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, errors.New("missing service url")
	}
	httpClient := opts.HTTP
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	wire := opts.Log
	if wire == nil {
		wire = logger.Named("wire")
	}
	return &Client{
		baseURL:    base,
		commitPath: defaultPath(opts.CommitPath, "/editor/onchange"),
		choosePath: defaultPath(opts.ChoosePath, "/editor/choose"),
		http:       httpClient,
		log:        wire,
	}, nil
}

func defaultPath(path, fallback string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return fallback
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// Commit posts the full script text.
func (c *Client) Commit(ctx context.Context, req protocol.CommitRequest) (protocol.Response, error) {
	return c.post(ctx, "commit", c.commitPath, req)
}

// Choose posts an option selection.
func (c *Client) Choose(ctx context.Context, req protocol.ChooseRequest) (protocol.Response, error) {
	return c.post(ctx, "choose", c.choosePath, req)
}

func (c *Client) post(ctx context.Context, kind, path string, payload any) (protocol.Response, error) {
	endpoint := c.baseURL + path
	body, err := json.Marshal(payload)
	if err != nil {
		return protocol.Response{}, &TransportError{Endpoint: endpoint, Err: err}
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return protocol.Response{}, &TransportError{Endpoint: endpoint, Err: err}
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-Id", requestID)

	entry := c.log.WithFields(logger.Fields{
		"type":       kind,
		"request_id": requestID,
		"endpoint":   endpoint,
	})
	if seq, ok := SequenceFrom(ctx); ok {
		entry = entry.WithField("seq", seq)
	}
	entry.WithField("bytes", len(body)).Debug("-> request")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		entry.WithField("elapsed", time.Since(start)).Warnf("request failed: %v", err)
		return protocol.Response{}, &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	entry = entry.WithFields(logger.Fields{"status": resp.StatusCode, "elapsed": time.Since(start)})
	if err != nil {
		entry.Warnf("read body: %v", err)
		return protocol.Response{}, &TransportError{Endpoint: endpoint, Status: resp.StatusCode, Err: err}
	}

	// The service answers parse errors with 400 and a diagnostics body, so
	// the status alone does not decide success.
	decoded, err := protocol.DecodeResponse(raw)
	if err != nil {
		entry.Warnf("undecodable reply: %v", err)
		return protocol.Response{}, &TransportError{Endpoint: endpoint, Status: resp.StatusCode, Err: err}
	}
	if decoded.IsDiagnostics() {
		entry.WithField("diagnostics", len(decoded.Diagnostics)).Info("<- diagnostics")
	} else {
		entry.WithFields(logger.Fields{"uuid": decoded.UUID, "end": decoded.Section.End}).Info("<- section")
	}
	return decoded, nil
}
