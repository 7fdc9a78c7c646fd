// Package gatewayclient speaks the events/upload wire contract over HTTP.
package gatewayclient

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

	"github.com/baechuer/alchies-rsvp/internal/domain"
	"github.com/baechuer/alchies-rsvp/internal/infrastructure/imagehost/sanitizer"
	pkgctx "github.com/baechuer/alchies-rsvp/internal/pkg/context"
	"github.com/gojektech/heimdall/v6"
	"github.com/gojektech/heimdall/v6/httpclient"
	"github.com/google/uuid"
)

const (
	defaultTimeout  = 15 * time.Second
	maxResponseSize = 10 << 20
)

// Client implements eventstore.Gateway. Requests are never retried.
type Client struct {
	base  string
	token string
	http  *httpclient.Client
}

type Option func(*options)

type options struct {
	timeout time.Duration
	token   string
	doer    heimdall.Doer
}

func WithTimeout(d time.Duration) Option { return func(o *options) { o.timeout = d } }

// WithBearerToken sets a token sent when the request context carries none.
func WithBearerToken(token string) Option { return func(o *options) { o.token = token } }

// WithDoer swaps the underlying transport, e.g. an httptest server client.
func WithDoer(d heimdall.Doer) Option { return func(o *options) { o.doer = d } }

// New builds a client for baseURL, e.g. "http://localhost:8888" or
// "https://site/.netlify/functions".
func New(baseURL string, opts ...Option) *Client {
	o := options{timeout: defaultTimeout}
	for _, fn := range opts {
		fn(&o)
	}

	hopts := []httpclient.Option{
		httpclient.WithHTTPTimeout(o.timeout),
		httpclient.WithRetryCount(0),
	}
	if o.doer != nil {
		hopts = append(hopts, httpclient.WithHTTPClient(o.doer))
	}
	c := httpclient.NewClient(hopts...)
	c.AddPlugin(&requestLogger{})

	return &Client{
		base:  strings.TrimRight(baseURL, "/"),
		token: o.token,
		http:  c,
	}
}

func (c *Client) GetAll(ctx context.Context) ([]domain.Event, error) {
	var out []domain.Event
	if err := c.do(ctx, http.MethodGet, "/events", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Event{}
	}
	return out, nil
}

func (c *Client) GetByID(ctx context.Context, id string) (domain.Event, error) {
	var out domain.Event
	err := c.do(ctx, http.MethodGet, eventPath(id), nil, &out)
	return out, err
}

func (c *Client) Create(ctx context.Context, d domain.Draft) (domain.Event, error) {
	var out domain.Event
	err := c.do(ctx, http.MethodPost, "/events", d, &out)
	return out, err
}

func (c *Client) Update(ctx context.Context, id string, p domain.Patch) (domain.Event, error) {
	var out domain.Event
	err := c.do(ctx, http.MethodPut, eventPath(id), p, &out)
	return out, err
}

// Delete removes the event permanently.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, eventPath(id)+"?permanent=true", nil, nil)
}

// Archive is the server-side soft delete.
func (c *Client) Archive(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, eventPath(id), nil, nil)
}

type uploadRequest struct {
	Image string `json:"image"`
}

type uploadResponse struct {
	URL      string `json:"url"`
	ID       string `json:"id"`
	Success  bool   `json:"success"`
	Fallback bool   `json:"fallback"`
}

// UploadImage sends raw image bytes as a base64 data url and returns the hosted URL.
func (c *Client) UploadImage(ctx context.Context, image []byte) (string, error) {
	var out uploadResponse
	if err := c.do(ctx, http.MethodPost, "/upload", uploadRequest{Image: sanitizer.EncodeDataURL(image)}, &out); err != nil {
		return "", err
	}
	if out.URL == "" {
		return "", domain.ErrRemote("upload returned no url", nil)
	}
	return out.URL, nil
}

func eventPath(id string) string {
	return "/events/" + url.PathEscape(id)
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return domain.ErrRemote("encode request", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return domain.ErrRemote("build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rid := pkgctx.GetRequestID(ctx)
	if rid == "" {
		rid = uuid.NewString()
	}
	req.Header.Set("X-Request-Id", rid)
	if tok := pkgctx.GetBearerToken(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	} else if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.ErrRemote(fmt.Sprintf("%s %s: %v", method, path, err), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return domain.ErrRemote("read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return domain.ErrRemote("decode response", err)
	}
	return nil
}

func statusError(status int, raw []byte) error {
	var eb errorBody
	_ = json.Unmarshal(raw, &eb)
	msg := eb.Message
	if msg == "" {
		msg = http.StatusText(status)
	}
	if status == http.StatusNotFound {
		return domain.ErrNotFound(msg)
	}
	var cause error
	if eb.Error != "" {
		cause = fmt.Errorf("status %d: %s", status, eb.Error)
	} else {
		cause = fmt.Errorf("status %d", status)
	}
	return domain.ErrRemote(msg, cause)
}
