// Package api is the HTTP transport for the remote parts service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jacksmith/pcparts/internal/model"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader carries a per-request id so service logs can be correlated.
const RequestIDHeader = "X-Request-ID"

// maxBodySize caps how much of a response body is read.
const maxBodySize = 4 << 20

// Client talks to the parts service rooted at a single base URL. Every
// operation, deletes included, is addressed relative to that URL.
type Client struct {
	base *url.URL
	http *http.Client
	log  logrus.FieldLogger
}

// NewClient returns a Client for baseURL (e.g. "http://localhost:8000").
// A nil httpClient uses http.DefaultClient; a nil logger uses the logrus
// standard logger.
func NewClient(baseURL string, httpClient *http.Client, logger logrus.FieldLogger) (*Client, error) {
	u, err := ParseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Client{base: u, http: httpClient, log: logger}, nil
}

// ParseBaseURL validates a service base URL. Only http and https are
// accepted; a trailing slash is dropped.
func ParseBaseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("base URL is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: missing host", raw)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// BaseURL returns the service root this client addresses.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// List fetches every part.
func (c *Client) List(ctx context.Context) ([]model.Part, error) {
	var parts []model.Part
	if err := c.do(ctx, http.MethodGet, "/parts", nil, &parts); err != nil {
		return nil, err
	}
	if parts == nil {
		parts = []model.Part{}
	}
	return parts, nil
}

// Get fetches one part by business id.
func (c *Client) Get(ctx context.Context, id string) (*model.Part, error) {
	var p model.Part
	if err := c.do(ctx, http.MethodGet, "/parts/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create submits a new part.
func (c *Client) Create(ctx context.Context, d model.Draft) error {
	return c.do(ctx, http.MethodPost, "/parts", d, nil)
}

// Update replaces the part stored under key.
func (c *Client) Update(ctx context.Context, key string, d model.Draft) error {
	return c.do(ctx, http.MethodPut, "/parts/mongo/"+url.PathEscape(key), d, nil)
}

// Delete removes the part stored under key.
func (c *Client) Delete(ctx context.Context, key string) error {
	return c.do(ctx, http.MethodDelete, "/parts/mongo/"+url.PathEscape(key), nil, nil)
}

// do sends one request. Non-2xx replies become *ResponseError; anything
// that prevents a usable reply becomes *TransportError.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	op := method + " " + path

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &TransportError{Op: op, Err: errors.Wrap(err, "encode request")}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return &TransportError{Op: op, Err: errors.Wrap(err, "build request")}
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, reqID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithFields(logrus.Fields{
			"op":         op,
			"request_id": reqID,
		}).WithError(err).Debug("parts request failed")
		return &TransportError{Op: op, Err: errors.Wrap(err, "send request")}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	c.log.WithFields(logrus.Fields{
		"op":         op,
		"status":     resp.StatusCode,
		"duration":   time.Since(start),
		"request_id": reqID,
	}).Debug("parts request")
	if err != nil {
		return &TransportError{Op: op, Err: errors.Wrap(err, "read response")}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, perr := parseDetail(data)
		if perr != nil {
			return &TransportError{Op: op, Err: errors.Wrapf(perr, "decode %d response", resp.StatusCode)}
		}
		return &ResponseError{StatusCode: resp.StatusCode, Detail: detail}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &TransportError{Op: op, Err: errors.Wrap(err, "decode response")}
	}
	return nil
}
