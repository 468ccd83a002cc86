package base

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ivesbwas/bwas/internal/config"
	ierr "github.com/ivesbwas/bwas/internal/errors"
	"github.com/ivesbwas/bwas/internal/httpclient"
	"github.com/ivesbwas/bwas/internal/logger"
	"github.com/ivesbwas/bwas/internal/types"
	"golang.org/x/time/rate"
)

// Caller sends JSON requests to one upstream service. Each call is bounded
// by the service timeout, optionally rate limited and never retried.
type Caller struct {
	service    string
	cfg        config.ServiceConfig
	httpClient httpclient.Client
	limiter    *rate.Limiter
	logger     *logger.Logger
}

// NewCaller creates a caller for the named service
func NewCaller(service string, cfg config.ServiceConfig, httpClient httpclient.Client, logger *logger.Logger) *Caller {
	c := &Caller{
		service:    service,
		cfg:        cfg,
		httpClient: httpClient,
		logger:     logger,
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return c
}

// Service returns the service name used in logs and errors
func (c *Caller) Service() string {
	return c.service
}

// Do sends method endpoint with body encoded as JSON and decodes a 2xx
// response into response. Failures are marked:
//   - ierr.ErrTimeout when the deadline passes
//   - ierr.ErrCanceled when the caller cancels
//   - ierr.ErrExternalService for everything else, with the
//     *httpclient.Error kept in the chain for non-2xx responses
func (c *Caller) Do(ctx context.Context, method, endpoint string, body interface{}, response interface{}) error {
	op := fmt.Sprintf("%s %s", method, c.service)

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if cerr := ierr.WrapContextErr(err, op); cerr != nil {
				return cerr
			}
			// Wait fails early when the reservation would outlive the deadline
			return ierr.WithError(err).
				WithHintf("%s is rate limited", c.service).
				WithReportableDetails(map[string]any{"operation": op}).
				Mark(ierr.ErrTimeout)
		}
	}

	fullURL := strings.TrimRight(c.cfg.BaseURL, "/") + endpoint

	var jsonBody []byte
	if body != nil {
		var err error
		jsonBody, err = json.Marshal(body)
		if err != nil {
			c.logger.Errorw("failed to marshal request body", "error", err, "service", c.service)
			return ierr.WithError(err).
				WithHint("Invalid request data").
				Mark(ierr.ErrSystem)
		}
	}

	headers := map[string]string{}
	if requestID := types.GetRequestID(ctx); requestID != "" {
		headers[types.HeaderRequestID] = requestID
	}

	resp, err := c.httpClient.Send(ctx, &httpclient.Request{
		Method:  method,
		URL:     fullURL,
		Headers: headers,
		Body:    jsonBody,
	})
	if err != nil {
		return c.classify(ctx, op, method, endpoint, err)
	}

	if response == nil || len(resp.Body) == 0 {
		if response != nil {
			return c.unparsable(method, endpoint, resp.StatusCode, fmt.Errorf("empty response body"))
		}
		return nil
	}

	if err := json.Unmarshal(resp.Body, response); err != nil {
		return c.unparsable(method, endpoint, resp.StatusCode, err)
	}
	return nil
}

func (c *Caller) classify(ctx context.Context, op, method, endpoint string, err error) error {
	if cerr := ierr.WrapContextErr(err, op); cerr != nil {
		c.logger.Warnw("upstream call did not complete",
			"service", c.service,
			"method", method,
			"endpoint", endpoint,
			"error", err)
		return cerr
	}
	if cerr := ierr.FromContext(ctx, op); cerr != nil {
		return cerr
	}

	if httpErr, ok := httpclient.IsHTTPError(err); ok {
		c.logger.Errorw("upstream service returned error",
			"service", c.service,
			"status_code", httpErr.StatusCode,
			"method", method,
			"endpoint", endpoint,
			"response_body", string(httpErr.Response))
		return ierr.WithError(err).
			WithHintf("%s returned status %d", c.service, httpErr.StatusCode).
			WithReportableDetails(map[string]any{
				"service":     c.service,
				"status_code": httpErr.StatusCode,
				"message":     httpErr.Message(),
			}).
			Mark(ierr.ErrExternalService)
	}

	c.logger.Errorw("upstream request failed",
		"service", c.service,
		"method", method,
		"endpoint", endpoint,
		"error", err)
	return ierr.WithError(err).
		WithHintf("Unable to connect to %s", c.service).
		WithReportableDetails(map[string]any{
			"service": c.service,
		}).
		Mark(ierr.ErrExternalService)
}

func (c *Caller) unparsable(method, endpoint string, statusCode int, err error) error {
	c.logger.Errorw("failed to parse upstream response",
		"service", c.service,
		"method", method,
		"endpoint", endpoint,
		"status_code", statusCode,
		"error", err)
	return ierr.WithError(err).
		WithHintf("%s returned an unreadable response", c.service).
		WithReportableDetails(map[string]any{
			"service":     c.service,
			"status_code": statusCode,
		}).
		Mark(ierr.ErrExternalService)
}

// IsStatus reports whether err carries an upstream response with statusCode
func IsStatus(err error, statusCode int) bool {
	httpErr, ok := httpclient.IsHTTPError(err)
	return ok && httpErr.StatusCode == statusCode
}
