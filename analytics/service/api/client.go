package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/advanced-rest-client/app-analytics/analytics/conf"
	"github.com/advanced-rest-client/app-analytics/analytics/constants"
	"github.com/splitio/go-toolkit/v5/logging"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultHTTPTimeout = 30

func getURL(cfg *conf.AdvancedConfig) string {
	if cfg != nil && cfg.CollectURL != "" {
		return cfg.CollectURL
	}
	return constants.CollectURL
}

// HTTPClient structure to wrap up the net/http.Client
type HTTPClient struct {
	url        string
	httpClient *http.Client
	logger     logging.LoggerInterface
	userAgent  string
}

// NewHTTPClient instance of HttpClient
func NewHTTPClient(
	cfg *conf.Config,
	endpoint string,
	userAgent string,
	logger logging.LoggerInterface,
) *HTTPClient {
	var timeout int
	if cfg.Advanced.HTTPTimeout != 0 {
		timeout = cfg.Advanced.HTTPTimeout
	} else {
		timeout = defaultHTTPTimeout
	}
	client := &http.Client{
		Timeout:   time.Duration(timeout) * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	return &HTTPClient{
		url:        endpoint,
		httpClient: client,
		logger:     logger,
		userAgent:  userAgent,
	}
}

// Post performs a HTTP POST request of a form encoded body and returns the response body
func (c *HTTPClient) Post(ctx context.Context, service string, query url.Values, body []byte) ([]byte, error) {
	serviceURL := c.url + service
	if len(query) > 0 {
		serviceURL += "?" + query.Encode()
	}
	c.logger.Debug("[POST] ", serviceURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serviceURL, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Add("User-Agent", c.userAgent)

	c.logger.Debug(fmt.Sprintf("Headers: %v", req.Header))
	c.logger.Verbose("[REQUEST_BODY]", string(body), "[END_REQUEST_BODY]")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Error posting data to API: ", req.URL.String(), err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error(err.Error())
		return nil, err
	}

	c.logger.Verbose("[RESPONSE_BODY]", string(respBody), "[END_RESPONSE_BODY]")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return respBody, nil
	}

	return nil, fmt.Errorf("POST method: Status Code: %d - %s", resp.StatusCode, resp.Status)
}
