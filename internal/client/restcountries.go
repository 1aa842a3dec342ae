package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"country-capital/internal/logger"
	"country-capital/internal/models"
)

const (
	defaultBaseURL      = "https://restcountries.com/v3.1"
	defaultTimeout      = 10 * time.Second
	defaultMaxRedirects = 10

	// flags are small PNGs; anything larger is not a flag
	maxFlagBytes = 4 << 20
)

// Options configures a RestCountriesClient. Zero values fall back to defaults.
type Options struct {
	BaseURL      string
	Timeout      time.Duration
	MaxRedirects int
	Logger       logger.Logger
}

// RestCountriesClient interacts with the REST Countries API and the flag CDN it links to.
type RestCountriesClient struct {
	client  *http.Client
	baseURL string
	logger  logger.Logger
}

// NewRestCountriesClient creates a new client for the REST Countries API.
func NewRestCountriesClient(opts Options) *RestCountriesClient {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = defaultMaxRedirects
	}
	if opts.Logger == nil {
		opts.Logger = logger.NoOpLogger{}
	}

	maxRedirects := opts.MaxRedirects
	return &RestCountriesClient{
		client: &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects: %w", maxRedirects, ErrTooManyRedirects)
				}
				return nil
			},
		},
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		logger:  opts.Logger,
	}
}

// BaseURL returns the API root requests are sent to.
func (c *RestCountriesClient) BaseURL() string {
	return c.baseURL
}

// FetchCountry issues GET {base}/name/{query} and decodes the country array.
func (c *RestCountriesClient) FetchCountry(ctx context.Context, query models.Query) (models.CountryRecord, error) {
	endpoint := fmt.Sprintf("%s/name/%s", c.baseURL, url.PathEscape(query.String()))

	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var record models.CountryRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, &DecodeError{Err: err}
	}

	if len(record) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoResults, query)
	}

	c.logger.Debug("RestCountriesClient", "country fetched", map[string]interface{}{
		"query":   query.String(),
		"entries": len(record),
	})

	return record, nil
}

// FetchFlag downloads the raw flag image bytes.
func (c *RestCountriesClient) FetchFlag(ctx context.Context, flagURL string) ([]byte, error) {
	if flagURL == "" {
		return nil, fmt.Errorf("record has no flag url")
	}

	resp, err := c.get(ctx, flagURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFlagBytes+1))
	if err != nil {
		return nil, classifyTransport(err)
	}
	if len(data) > maxFlagBytes {
		return nil, &DecodeError{Err: fmt.Errorf("flag exceeds %d bytes", maxFlagBytes)}
	}

	return data, nil
}

// RequestIDHeader carries the submission id of lookups started from the window.
const RequestIDHeader = "X-Request-Id"

// get performs the request and turns non-2xx statuses and transport failures into typed errors.
// On success the caller owns resp.Body.
func (c *RestCountriesClient) get(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json, image/png;q=0.9, */*;q=0.8")

	submission := logger.SubmissionID(ctx)
	if submission != "" {
		req.Header.Set(RequestIDHeader, submission)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		terr := classifyTransport(err)
		c.logger.Warning("RestCountriesClient", "request failed", map[string]interface{}{
			"url":        endpoint,
			"kind":       terr.Kind.String(),
			"submission": submission,
		})
		return nil, terr
	}

	c.logger.Debug("RestCountriesClient", "response received", map[string]interface{}{
		"url":         endpoint,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
		"submission":  submission,
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode, URL: endpoint}
	}

	return resp, nil
}
