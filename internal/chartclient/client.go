// Package chartclient issues the chart service requests and normalizes every
// response into a serialized figure. It performs no retries: each call makes
// exactly one HTTP request and either returns a payload or an error.
package chartclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Veraticus/psychro/internal/common"
	"github.com/Veraticus/psychro/internal/model"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Service endpoints.
const (
	PathDefaultChart  = "/api/default-chart"
	PathGenerateChart = "/api/generate-chart"
	PathPlotPoint     = "/api/plot-point"
	PathClearData     = "/api/clear-data"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

const defaultUserAgent = "psychro"

// Client talks to the psychrometric chart service.
type Client struct {
	httpClient *http.Client
	fs         afero.Fs
	progress   io.Writer
	baseURL    string
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds each request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithFs sets the filesystem data files are read from.
func WithFs(fs afero.Fs) Option {
	return func(c *Client) {
		c.fs = fs
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithUploadProgress renders a byte progress bar to w during file uploads.
func WithUploadProgress(w io.Writer) Option {
	return func(c *Client) {
		c.progress = w
	}
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		fs:         afero.NewOsFs(),
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchDefault requests the base chart. Zone bounds are sent only when
// showZone is set and zone is non-nil.
func (c *Client) FetchDefault(ctx context.Context, showZone bool, zone *model.DesignZone) (model.ChartPayload, error) {
	req, err := c.newDefaultRequest(ctx, showZone, zone)
	if err != nil {
		return nil, err
	}
	return c.do(req, false)
}

// GenerateFromFile uploads the data file at path and returns the chart with
// its points plotted.
func (c *Client) GenerateFromFile(ctx context.Context, path string, showZone bool, zone *model.DesignZone) (model.ChartPayload, error) {
	req, err := c.newFileRequest(ctx, path, showZone, zone)
	if err != nil {
		return nil, err
	}
	return c.do(req, false)
}

// PlotManualPoint returns the chart with a single point plotted.
func (c *Client) PlotManualPoint(ctx context.Context, point model.ManualPoint, showZone bool, zone *model.DesignZone) (model.ChartPayload, error) {
	req, err := c.newPointRequest(ctx, point, showZone, zone)
	if err != nil {
		return nil, err
	}
	return c.do(req, false)
}

// Clear removes stored data on the service and returns the empty chart.
func (c *Client) Clear(ctx context.Context) (model.ChartPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+PathClearData, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, true)
}

func (c *Client) do(req *http.Request, requireSuccessStatus bool) (model.ChartPayload, error) {
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	fields := common.Fields{
		"request_id": requestID,
		"method":     req.Method,
		"endpoint":   req.URL.Path,
	}
	common.LogDebug("Sending chart request", fields)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	fields["status"] = resp.StatusCode
	fields["duration"] = time.Since(start)
	common.LogDebug("Chart response received", fields)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, transportError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return parseEnvelope(body, endpointName(req.URL.Path), requireSuccessStatus)
}

func endpointName(path string) string {
	return strings.TrimPrefix(path, "/api/")
}
