// Package gateway is a client for the read endpoints of the platform's API
// gateway used by the registry, validator and execution views.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/donaldgifford/deck/internal/pipeline"
	"github.com/donaldgifford/deck/internal/registry"
)

// maxErrorBody caps how much of a failed response is kept in a StatusError.
const maxErrorBody = 4 << 10

// StatusError is returned for responses with a non-2xx status code.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// Options configures a Client.
type Options struct {
	// RetryMax is the number of retries after a failed request. Zero uses
	// the retryablehttp default.
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// HTTPClient replaces the underlying client, mostly for tests.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client reads pipeline, account and execution data from the gateway.
type Client struct {
	base   *url.URL
	http   *retryablehttp.Client
	logger *slog.Logger
}

// New creates a Client for the gateway at baseURL.
func New(baseURL string, opts Options) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("gateway URL is required")
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing gateway URL %q: %w", baseURL, err)
	}

	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("gateway URL %q must use http or https", baseURL)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	rc := retryablehttp.NewClient()
	rc.Logger = logger
	// Hand the final response back so non-2xx statuses surface as StatusError.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if opts.RetryMax > 0 {
		rc.RetryMax = opts.RetryMax
	}
	if opts.RetryWaitMin > 0 {
		rc.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		rc.RetryWaitMax = opts.RetryWaitMax
	}
	if opts.HTTPClient != nil {
		rc.HTTPClient = opts.HTTPClient
	}

	return &Client{base: base, http: rc, logger: logger}, nil
}

// PipelineConfigs returns the pipeline configurations of an application.
func (c *Client) PipelineConfigs(ctx context.Context, application string) ([]pipeline.Pipeline, error) {
	var configs []pipeline.Pipeline
	if err := c.get(ctx, &configs, "applications", application, "pipelineConfigs"); err != nil {
		return nil, fmt.Errorf("fetching pipeline configs for %s: %w", application, err)
	}

	return configs, nil
}

// ServiceAccounts returns the service accounts the current user may use.
func (c *Client) ServiceAccounts(ctx context.Context) ([]string, error) {
	var accounts []string
	if err := c.get(ctx, &accounts, "auth", "user", "serviceAccounts"); err != nil {
		return nil, fmt.Errorf("fetching service accounts: %w", err)
	}

	return accounts, nil
}

// PreconfiguredJobs returns the operator-defined job stages.
func (c *Client) PreconfiguredJobs(ctx context.Context) ([]registry.PreconfiguredJob, error) {
	var jobs []registry.PreconfiguredJob
	if err := c.get(ctx, &jobs, "jobs", "preconfigured"); err != nil {
		return nil, fmt.Errorf("fetching preconfigured jobs: %w", err)
	}

	return jobs, nil
}

// Execution returns a pipeline execution by id.
func (c *Client) Execution(ctx context.Context, id string) (*pipeline.Execution, error) {
	var exec pipeline.Execution
	if err := c.get(ctx, &exec, "pipelines", id); err != nil {
		return nil, fmt.Errorf("fetching execution %s: %w", id, err)
	}

	return &exec, nil
}

// Application returns an application by name.
func (c *Client) Application(ctx context.Context, name string) (*pipeline.Application, error) {
	var app struct {
		Name       string         `json:"name"`
		Attributes map[string]any `json:"attributes"`
	}
	if err := c.get(ctx, &app, "applications", name); err != nil {
		return nil, fmt.Errorf("fetching application %s: %w", name, err)
	}

	return &pipeline.Application{Name: app.Name, Attributes: app.Attributes}, nil
}

// Accounts returns the cloud provider accounts visible to the current user.
func (c *Client) Accounts(ctx context.Context) ([]pipeline.ProviderAccount, error) {
	var accounts []pipeline.ProviderAccount
	if err := c.get(ctx, &accounts, "credentials"); err != nil {
		return nil, fmt.Errorf("fetching accounts: %w", err)
	}

	return accounts, nil
}

func (c *Client) get(ctx context.Context, out any, segments ...string) error {
	endpoint := c.base.JoinPath(segments...).String()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("gateway request", "method", http.MethodGet, "url", endpoint)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", endpoint, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Debug("closing response body", "url", endpoint, "error", cerr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		return &StatusError{
			Method:     http.MethodGet,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", endpoint, err)
	}

	return nil
}
