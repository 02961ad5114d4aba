// Package upload submits captured stills to the publishing endpoint.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

const (
	DefaultEndpoint        = "https://hdgs7oe2bps2fxp7tqgfjauuuq0jzkpx.lambda-url.us-east-1.on.aws/"
	DefaultTagID           = "web-upload"
	DefaultMaxPayloadBytes = 1 << 20

	// TimestampLayout matches an ISO-8601 instant with millisecond precision.
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

	maxResponseBytes = 1 << 20
)

// Result is a successful submission. PostURL may be empty.
type Result struct {
	PostURL   string
	RequestID string
}

type request struct {
	Image     string `json:"image"`
	TagID     string `json:"tagId"`
	Timestamp string `json:"timestamp"`
}

type response struct {
	Success bool   `json:"success"`
	PostURL string `json:"postUrl,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Client performs one POST per Submit. The zero value is not usable; build
// one with NewClient.
type Client struct {
	Endpoint        string
	TagID           string
	MaxPayloadBytes int
	HTTP            *http.Client
	Clock           func() time.Time
	Logger          *slog.Logger
}

// NewClient returns a client for endpoint using hc for transport.
func NewClient(endpoint, tagID string, maxPayload int, hc *http.Client, logger *slog.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if tagID == "" {
		tagID = DefaultTagID
	}
	if maxPayload <= 0 {
		maxPayload = DefaultMaxPayloadBytes
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		Endpoint:        endpoint,
		TagID:           tagID,
		MaxPayloadBytes: maxPayload,
		HTTP:            hc,
		Clock:           time.Now,
		Logger:          logger,
	}
}

// StripDataURI returns the base64 payload of a data URI. Input without a
// comma is returned unchanged.
func StripDataURI(s string) string {
	if i := strings.IndexByte(s, ','); i >= 0 {
		return s[i+1:]
	}
	return s
}

// EstimatedSize approximates the decoded length of a base64 payload.
// Padding is not subtracted.
func EstimatedSize(b64 string) float64 {
	return float64(len(b64)) * 3 / 4
}

// CheckSize reports a KindPayloadTooLarge error when payload would exceed
// limit bytes once decoded. A payload exactly at the limit passes.
func CheckSize(payloadOrDataURI string, limit int) error {
	if limit <= 0 {
		limit = DefaultMaxPayloadBytes
	}
	size := EstimatedSize(StripDataURI(payloadOrDataURI))
	if size > float64(limit) {
		return &Error{
			Kind:    KindPayloadTooLarge,
			Message: fmt.Sprintf("%s (%s bytes) exceeds %s (%s bytes)",
				humanize.IBytes(uint64(size)), humanize.Comma(int64(size)),
				humanize.IBytes(uint64(limit)), humanize.Comma(int64(limit))),
		}
	}
	return nil
}

// Submit posts the still and interprets the JSON reply. It makes exactly
// one attempt. The HTTP status is not consulted; the body decides.
func (c *Client) Submit(ctx context.Context, payloadOrDataURI string) (Result, error) {
	b64 := StripDataURI(payloadOrDataURI)
	if err := CheckSize(b64, c.MaxPayloadBytes); err != nil {
		if c.Logger != nil {
			c.Logger.Warn("upload rejected locally", "error", err)
		}
		return Result{}, err
	}

	now := time.Now
	if c.Clock != nil {
		now = c.Clock
	}
	body, err := json.Marshal(request{
		Image:     b64,
		TagID:     c.TagID,
		Timestamp: now().UTC().Format(TimestampLayout),
	})
	if err != nil {
		return Result{}, &Error{Kind: KindNetworkFailure, Message: err.Error(), Err: err}
	}

	reqID := uuid.NewString()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, &Error{Kind: KindNetworkFailure, Message: err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	start := time.Now()
	if c.Logger != nil {
		c.Logger.Info("upload start", "request_id", reqID, "size", humanize.IBytes(uint64(EstimatedSize(b64))))
	}
	resp, err := hc.Do(req)
	if err != nil {
		if c.Logger != nil {
			c.Logger.Error("upload transport", "request_id", reqID, "error", err)
		}
		return Result{}, &Error{Kind: KindNetworkFailure, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	var out response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		if c.Logger != nil {
			c.Logger.Error("upload decode", "request_id", reqID, "status", resp.StatusCode, "error", err)
		}
		return Result{}, &Error{Kind: KindNetworkFailure, Message: err.Error(), Err: err}
	}
	if c.Logger != nil {
		c.Logger.Info("upload done", "request_id", reqID, "status", resp.StatusCode,
			"success", out.Success, "elapsed", time.Since(start))
	}
	if !out.Success {
		msg := out.Error
		if msg == "" {
			msg = DefaultRejectMessage
		}
		return Result{}, &Error{Kind: KindServerRejected, Message: msg}
	}
	return Result{PostURL: out.PostURL, RequestID: reqID}, nil
}
