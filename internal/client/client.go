// Package client talks to the remote Markdown→DOCX conversion service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"
	"time"

	"mdocx/internal/errors"
	"mdocx/internal/log"
	"mdocx/pkg/types"

	"github.com/google/uuid"
)

const (
	healthPath    = "/api/health"
	templatesPath = "/api/templates"
	convertPath   = "/api/convert"
)

// MsgUnreachable is the message for requests that got no response at all.
const MsgUnreachable = "could not reach the conversion service"

// DefaultProbeTimeout bounds the startup health and template queries.
// Conversions are never given a deadline.
const DefaultProbeTimeout = 5 * time.Second

// Health is the body of GET /api/health.
type Health struct {
	Status          string `json:"status"`
	PandocAvailable bool   `json:"pandoc_available"`
}

// Document is a generated file returned by the service.
type Document struct {
	Data     []byte
	Filename string
}

// Client is safe for concurrent use.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	probeTimeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithProbeTimeout sets the timeout for Health and Templates.
func WithProbeTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.probeTimeout = d
		}
	}
}

// New returns a client for the service rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{},
		probeTimeout: DefaultProbeTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string { return c.baseURL }

// Health asks whether the service can convert (pandoc present).
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	err := c.getJSON(ctx, healthPath, &h)
	return h, err
}

// Templates lists the templates the service offers. An empty list is valid.
func (c *Client) Templates(ctx context.Context) ([]types.Template, error) {
	var list []types.Template
	if err := c.getJSON(ctx, templatesPath, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	endpoint := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewNetworkError(MsgUnreachable, endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewNetworkError(MsgUnreachable, endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.NewServiceError(failureMessage(resp.StatusCode, body), resp.StatusCode)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.Wrapf(err, "invalid response from %s", path)
	}
	return nil
}

// Convert uploads the request's file as multipart form data and returns the
// generated document. The response body is kept as raw bytes.
func (c *Client) Convert(ctx context.Context, r types.ConversionRequest) (*Document, error) {
	body, contentType, err := encodeForm(r)
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + convertPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Request-ID", requestID)

	logger := log.LogWithFields(
		log.F("request_id", requestID),
		log.F("file", r.File.Name),
		log.F("template", r.Template),
	)
	logger.Info("submitting conversion")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.WithError(err).Warn("conversion request failed")
		return nil, errors.NewNetworkError(MsgUnreachable, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewNetworkError(MsgUnreachable, endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		svcErr := errors.NewServiceError(failureMessage(resp.StatusCode, data), resp.StatusCode)
		logger.WithError(svcErr).Warn("conversion rejected")
		return nil, svcErr
	}

	doc := &Document{
		Data:     data,
		Filename: attachmentName(resp.Header.Get("Content-Disposition")),
	}
	logger.With(log.F("bytes", len(data)), log.F("output", doc.Filename)).Info("conversion succeeded")
	return doc, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func encodeForm(r types.ConversionRequest) (io.Reader, string, error) {
	if r.Source == nil {
		return nil, "", errors.NewFileError("no file selected", r.File.Name, errors.InvalidFile, nil)
	}
	src, err := r.Source.Open()
	if err != nil {
		return nil, "", errors.NewFileError("failed to read file", r.File.Name, errors.FileReadFailed, err)
	}
	defer src.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(r.File.Name)))
	partType := r.File.MimeType
	if partType == "" {
		partType = "application/octet-stream"
	}
	h.Set("Content-Type", partType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, src); err != nil {
		return nil, "", errors.NewFileError("failed to read file", r.File.Name, errors.FileReadFailed, err)
	}
	if r.HasTemplate() {
		if err := mw.WriteField("template", r.Template); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

// failureMessage extracts the best available explanation from a failed
// response: the JSON "error" field, else the body text, else the status text.
func failureMessage(code int, body []byte) string {
	statusText := http.StatusText(code)
	if statusText == "" {
		statusText = fmt.Sprintf("HTTP %d", code)
	}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		return statusText
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return statusText
}

// attachmentName returns the filename offered in a Content-Disposition
// header, reduced to a base name, or the default output name.
func attachmentName(disposition string) string {
	if disposition == "" {
		return types.DefaultOutputName
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return types.DefaultOutputName
	}
	name := filepath.Base(filepath.Clean("/" + params["filename"]))
	if name == "/" || name == "." || strings.HasPrefix(name, ".") {
		return types.DefaultOutputName
	}
	return name
}
