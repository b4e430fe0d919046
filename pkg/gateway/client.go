package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sort"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/artisanhub/pkg/errors"
	"github.com/angelmondragon/artisanhub/pkg/logger"
)

const (
	defaultTimeout              = 60 * time.Second
	defaultErrorBodyLimit int64 = 4096
	defaultUserAgent            = "artisanhub/1.0"
)

var errBaseURLRequired = errors.New("gateway base url is required")

// Client is the single choke point for calls to the AI backend. It carries no
// mutable state after construction and is safe for concurrent use.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	userAgent      string
	errorBodyLimit int64
	logg           *logger.Logger

	timeout    time.Duration
	hasTimeout bool
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout; zero disables it. It applies to
// the client given by WithHTTPClient regardless of option order.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout >= 0 {
			c.timeout = timeout
			c.hasTimeout = true
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(ua); trimmed != "" {
			c.userAgent = trimmed
		}
	}
}

// WithErrorBodyLimit caps how much of a failed response body is kept.
func WithErrorBodyLimit(limit int64) Option {
	return func(c *Client) {
		if limit > 0 {
			c.errorBodyLimit = limit
		}
	}
}

// WithLogger enables debug logging of every call.
func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		c.logg = logg
	}
}

// NewClient builds a gateway for the backend rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL:        trimmed,
		httpClient:     &http.Client{Timeout: defaultTimeout},
		userAgent:      defaultUserAgent,
		errorBodyLimit: defaultErrorBodyLimit,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if client.hasTimeout {
		clone := *client.httpClient
		clone.Timeout = client.timeout
		client.httpClient = &clone
	}

	return client, nil
}

// BaseURL returns the backend root this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a GET and returns the JSON payload.
func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	return resp.JSON(), nil
}

// Post issues a JSON-encoded POST. A nil body sends an empty request body.
func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	resp, err := c.PostRaw(ctx, path, body)
	if err != nil {
		return nil, err
	}
	return resp.JSON(), nil
}

// PostRaw issues a JSON-encoded POST for endpoints that may answer with a
// binary payload (generated images, streamed files) instead of JSON.
func (c *Client) PostRaw(ctx context.Context, path string, body any) (*RawResponse, error) {
	var (
		reader      io.Reader
		contentType string
	)
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("marshal %s request", path))
		}
		reader = bytes.NewReader(payload)
		contentType = "application/json"
	}
	return c.do(ctx, http.MethodPost, path, reader, contentType)
}

// PostMultipart uploads form as multipart/form-data. The response may be JSON or
// a binary blob depending on the endpoint, so the raw response is returned.
func (c *Client) PostMultipart(ctx context.Context, path string, form Form) (*RawResponse, error) {
	body, contentType, err := form.encode()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("encode %s form", path))
	}
	return c.do(ctx, http.MethodPost, path, body, contentType)
}

// GetJSON issues a GET and decodes the payload into out.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	raw, err := c.Get(ctx, path)
	if err != nil {
		return err
	}
	return decode(http.MethodGet, path, raw, out)
}

// PostJSON issues a JSON POST and decodes the payload into out.
func (c *Client) PostJSON(ctx context.Context, path string, in, out any) error {
	raw, err := c.Post(ctx, path, in)
	if err != nil {
		return err
	}
	return decode(http.MethodPost, path, raw, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*RawResponse, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "gateway client not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("build %s %s request", method, path))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.debug(ctx, method, path, 0, start, err)
		return nil, newNetworkError(ctx, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	c.debug(ctx, method, path, resp.StatusCode, start, nil)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, c.errorBodyLimit))
		return nil, newHTTPError(method, path, resp.StatusCode, msg)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newNetworkError(ctx, method, path, fmt.Errorf("read response: %w", err))
	}

	return &RawResponse{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        payload,
	}, nil
}

func (c *Client) debug(ctx context.Context, method, path string, status int, start time.Time, err error) {
	if c.logg == nil {
		return
	}
	fields := map[string]any{
		"method":      method,
		"path":        path,
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if status != 0 {
		fields["status"] = status
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	c.logg.Debug(c.logg.WithFields(ctx, fields), "gateway.call")
}

func (c *Client) buildURL(path string) string {
	return fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(path, "/"))
}

func decode(method, path string, raw json.RawMessage, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, fmt.Sprintf("decode %s %s response", method, path))
	}
	return nil
}

// RawResponse is a successful response whose body has not been interpreted yet.
type RawResponse struct {
	Status      int
	ContentType string
	Body        []byte
}

// IsJSON reports whether the backend answered with JSON.
func (r *RawResponse) IsJSON() bool {
	if r == nil {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(r.ContentType)
	if err == nil && (mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")) {
		return true
	}
	return r.ContentType == "" && json.Valid(r.Body)
}

// JSON returns the body as a JSON document. Empty bodies become JSON null.
func (r *RawResponse) JSON() json.RawMessage {
	if r == nil || len(bytes.TrimSpace(r.Body)) == 0 {
		return json.RawMessage("null")
	}
	return json.RawMessage(r.Body)
}

// Decode unmarshals a JSON body into out.
func (r *RawResponse) Decode(out any) error {
	if !r.IsJSON() && !json.Valid(r.Body) {
		return pkgerrors.New(pkgerrors.CodeUpstream, "expected a JSON response").
			WithDetails(map[string]any{"content_type": r.ContentType})
	}
	return decode(http.MethodPost, "multipart", r.JSON(), out)
}

// File is one binary part of a multipart form.
type File struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// Form is the Go-side FormData: text fields plus file parts.
type Form struct {
	Fields map[string]string
	Files  []File
}

func (f Form) encode() (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	keys := make([]string, 0, len(f.Fields))
	for k := range f.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := writer.WriteField(k, f.Fields[k]); err != nil {
			return nil, "", err
		}
	}

	for _, file := range f.Files {
		if file.Field == "" {
			return nil, "", errors.New("multipart file field name is required")
		}
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.Field, fallbackFilename(file.Filename)))
		ct := file.ContentType
		if ct == "" {
			ct = http.DetectContentType(file.Data)
		}
		header.Set("Content-Type", ct)
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf, writer.FormDataContentType(), nil
}

func fallbackFilename(name string) string {
	if strings.TrimSpace(name) == "" {
		return "upload.bin"
	}
	return name
}
