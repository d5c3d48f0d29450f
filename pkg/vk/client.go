package vk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"vkscan/pkg/config"
	errs "vkscan/pkg/errors"
	"vkscan/pkg/logger"
	"vkscan/pkg/ratelimit"
	"vkscan/pkg/retry"
)

// Client talks to the VK API and fetches VK web pages
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	limiter    ratelimit.Limiter
	logger     logger.Logger

	apiBaseURL  string
	webBaseURL  string
	accessToken string
	apiVersion  string
	pageSize    int

	resolveDelay       time.Duration
	resolveMaxAttempts int
	sleep              retry.SleepFunc
}

// NewClient creates a VK client from configuration. A nil limiter disables
// rate limiting and a nil logger selects the global logger.
func NewClient(cfg config.VKConfig, limiter ratelimit.Limiter, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if limiter == nil {
		limiter = ratelimit.Unlimited()
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = config.DefaultConfig().VK.UserAgent
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		headers: map[string]string{
			"User-Agent":      userAgent,
			"Accept-Language": "ru-RU,ru;q=0.9,en-US;q=0.8,en;q=0.7",
		},
		limiter:            limiter,
		logger:             log.WithField("component", "vk"),
		apiBaseURL:         cfg.APIBaseURL,
		webBaseURL:         cfg.WebBaseURL,
		accessToken:        cfg.AccessToken,
		apiVersion:         cfg.APIVersion,
		pageSize:           pageSize,
		resolveDelay:       cfg.ResolveRetryDelay,
		resolveMaxAttempts: cfg.ResolveMaxAttempts,
		sleep:              retry.Wait,
	}
}

// SetHTTPClient replaces the underlying HTTP client
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

// SetSleep replaces the wait used between users.get attempts
func (c *Client) SetSleep(sleep retry.SleepFunc) {
	c.sleep = sleep
}

// SetAccessToken replaces the API access token
func (c *Client) SetAccessToken(token string) {
	c.accessToken = token
}

// WebBaseURL returns the origin used for page scraping
func (c *Client) WebBaseURL() string {
	return c.webBaseURL
}

// get performs a GET request after waiting for the rate limiter
func (c *Client) get(ctx context.Context, rawURL, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errs.New(errs.ErrorTypeUnknown, 0, "failed to create request: %v", err)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	req.Header.Set("Accept", accept)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	safeURL := logger.RedactToken(rawURL)
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    safeURL,
	})

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      safeURL,
			"duration": duration,
		})
		// The transport error embeds the URL, token included
		return nil, errs.New(errs.ErrorTypeNetwork, 0, "GET %s failed: %s", safeURL, logger.RedactToken(err.Error()))
	}

	logger.LogRequest(c.logger, req.Method, rawURL, resp.StatusCode, duration)
	return resp, nil
}

// getJSON performs an API request and decodes the JSON body into target
func (c *Client) getJSON(ctx context.Context, rawURL string, target interface{}) error {
	resp, err := c.get(ctx, rawURL, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkResponseStatus(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.New(errs.ErrorTypeNetwork, resp.StatusCode, "failed to read response body: %v", err)
	}

	if err := json.Unmarshal(body, target); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          logger.RedactToken(rawURL),
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return errs.Wrap(errs.ErrorTypeParsing, resp.StatusCode, err, "failed to parse JSON: %v", err)
	}

	return nil
}

// checkResponseStatus maps non-2xx statuses to typed errors
func checkResponseStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return errs.New(errs.ErrorTypeAuth, code, "access denied")
	case code == http.StatusNotFound:
		return errs.New(errs.ErrorTypeNotFound, code, "resource not found")
	case code == http.StatusTooManyRequests:
		return errs.New(errs.ErrorTypeRateLimit, code, "rate limit exceeded")
	case code >= 500:
		return errs.New(errs.ErrorTypeServerError, code, "server error")
	default:
		return errs.New(errs.ErrorTypeUnknown, code, "unexpected status code: %d", code)
	}
}
