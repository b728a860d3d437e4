package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-cms-admin/internal/logging"
	"github.com/goliatone/go-cms-admin/internal/validation"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
	"github.com/google/uuid"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "go-cms-admin"
	maxBodyBytes     = 8 << 20
)

// TokenSource returns the bearer token for outgoing requests, or "".
type TokenSource func(ctx context.Context) string

// Client talks to the remote REST API. Every answer is read whole, checked
// and turned into one of the error kinds declared in errors.go.
type Client struct {
	baseURL    string
	routes     *Routes
	httpClient *http.Client
	logger     interfaces.Logger
	token      TokenSource
	userAgent  string
	timeout    time.Duration
	now        func() time.Time
}

type Option func(*Client)

// WithHTTPClient replaces the transport. Its redirect policy is overridden so
// the client can follow mutation redirects itself.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithTokenSource(source TokenSource) Option {
	return func(c *Client) { c.token = source }
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

func WithUserAgent(agent string) Option {
	return func(c *Client) {
		if agent = strings.TrimSpace(agent); agent != "" {
			c.userAgent = agent
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	routes, err := NewRoutes(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		routes:    routes,
		logger:    logging.NoOp(),
		userAgent: defaultUserAgent,
		timeout:   defaultTimeout,
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	hc := http.Client{}
	if c.httpClient != nil {
		hc = *c.httpClient
	}
	hc.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	if hc.Timeout == 0 {
		hc.Timeout = c.timeout
	}
	c.httpClient = &hc
	return c, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Routes() *Routes { return c.routes }

// Response is a fully read answer.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Do sends one request and follows a single 301/302/303 redirect with a GET
// accepting JSON. Transport failures are wrapped with ErrTransport; the
// status code is not interpreted.
func (c *Client) Do(ctx context.Context, method, target string, payload *Payload) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.WithRequest(c.logger, method, pathOf(target)).WithContext(ctx)
	requestID := uuid.NewString()
	started := c.now()
	logger.Debug("remote.request.start", "request_id", requestID)

	resp, err := c.send(ctx, method, target, payload, requestID)
	if err == nil && isRedirect(resp.Status) && method != http.MethodGet {
		location := resp.Header.Get("Location")
		if location == "" {
			err = malformed(resp.Status, "redirect without location", nil)
		} else if next, rerr := resolve(target, location); rerr != nil {
			err = malformed(resp.Status, "redirect location is invalid", rerr)
		} else {
			logger.Debug("remote.request.redirect", "request_id", requestID, "location", next)
			resp, err = c.send(ctx, http.MethodGet, next, nil, requestID)
		}
	}

	duration := c.now().Sub(started)
	if err != nil {
		logger.Error("remote.request.failed", "request_id", requestID, "duration_ms", duration.Milliseconds(), "error", err)
		return nil, err
	}
	logger.Debug("remote.request.success", "request_id", requestID, "status", resp.Status, "duration_ms", duration.Milliseconds())
	return resp, nil
}

func (c *Client) send(ctx context.Context, method, target string, payload *Payload, requestID string) (*Response, error) {
	body, contentType, err := payload.encode()
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("remote: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != nil {
		if token := c.token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, transportError(err)
	}
	return &Response{Status: res.StatusCode, Header: res.Header, Body: raw}, nil
}

// Envelope performs a request against an endpoint answering with the
// {success, data, message} envelope and checks the data member against shape.
func (c *Client) Envelope(ctx context.Context, method, target string, payload *Payload, shape validation.Shape) (Envelope, error) {
	resp, err := c.Do(ctx, method, target, payload)
	if err != nil {
		return Envelope{}, err
	}
	if !isSuccess(resp.Status) {
		return Envelope{}, statusError(resp)
	}
	return checkEnvelope(resp.Status, resp.Body, shape)
}

// JSON performs a request against an endpoint answering with a bare JSON
// document and decodes it into out when out is not nil.
func (c *Client) JSON(ctx context.Context, method, target string, payload *Payload, out any) error {
	resp, err := c.Do(ctx, method, target, payload)
	if err != nil {
		return err
	}
	if !isSuccess(resp.Status) {
		return statusError(resp)
	}
	if out == nil || len(strings.TrimSpace(string(resp.Body))) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return malformed(resp.Status, "body does not decode", err)
	}
	return nil
}

// statusError builds a rejection for a non-2xx answer, keeping the server
// message when the body is an envelope.
func statusError(resp *Response) error {
	var message string
	var fields map[string][]string
	if env, err := decodeEnvelope(resp.Body); err == nil {
		message = env.Message
		fields = env.Errors
	}
	return rejection(resp.Status, message, fields)
}

// DecodeData unmarshals the envelope data into out.
func DecodeData(env Envelope, out any) error {
	if !env.HasData() {
		return malformed(0, "envelope has no data", nil)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return malformed(0, "data does not match the expected type", err)
	}
	return nil
}

func isSuccess(status int) bool { return status >= 200 && status < 300 }

func isRedirect(status int) bool {
	return status == http.StatusMovedPermanently || status == http.StatusFound || status == http.StatusSeeOther
}

func resolve(base, location string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	l, err := url.Parse(location)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(l).String(), nil
}

func pathOf(target string) string {
	if u, err := url.Parse(target); err == nil {
		return u.Path
	}
	return target
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool { return errors.Is(err, ErrTransport) }
