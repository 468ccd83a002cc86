package testutil

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ivesbwas/bwas/internal/httpclient"
)

// MockHTTPClient implements a mock HTTP client for testing. Like the real
// client it reports non-2xx responses as *httpclient.Error.
type MockHTTPClient struct {
	mu       sync.RWMutex
	routes   map[string]MockResponse
	requests []*httpclient.Request
}

// MockResponse represents a mock HTTP response
type MockResponse struct {
	StatusCode int
	Body       []byte
	Headers    map[string]string
	// Err is returned instead of a response, simulating a transport failure
	Err error
	// Delay holds the response back, the call still honours ctx
	Delay time.Duration
}

// NewMockHTTPClient creates a new mock HTTP client
func NewMockHTTPClient() *MockHTTPClient {
	return &MockHTTPClient{
		routes: make(map[string]MockResponse),
	}
}

// RegisterResponse registers a mock response for a given method and URL
// suffix, e.g. RegisterResponse("POST /signatures", ...). A route without a
// method matches any method.
func (m *MockHTTPClient) RegisterResponse(route string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[route] = resp
}

// RegisterJSONResponse is a helper to register a JSON response
func (m *MockHTTPClient) RegisterJSONResponse(route string, statusCode int, body string) {
	m.RegisterResponse(route, MockResponse{
		StatusCode: statusCode,
		Body:       []byte(body),
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	})
}

// Send implements the httpclient.Client interface
func (m *MockHTTPClient) Send(ctx context.Context, req *httpclient.Request) (*httpclient.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	resp, found := m.match(req)
	m.mu.Unlock()

	if !found {
		return nil, httpclient.NewError(http.StatusNotFound, []byte("Not Found"))
	}

	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if resp.Err != nil {
		return nil, resp.Err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, httpclient.NewError(resp.StatusCode, resp.Body)
	}

	return &httpclient.Response{
		StatusCode: resp.StatusCode,
		Body:       resp.Body,
		Headers:    resp.Headers,
	}, nil
}

// match picks the longest registered route matching the request
func (m *MockHTTPClient) match(req *httpclient.Request) (MockResponse, bool) {
	var (
		best    MockResponse
		bestLen = -1
	)
	for route, resp := range m.routes {
		method, suffix, hasMethod := strings.Cut(route, " ")
		if !hasMethod {
			suffix = route
		} else if !strings.EqualFold(method, req.Method) {
			continue
		}
		if strings.HasSuffix(req.URL, suffix) && len(suffix) > bestLen {
			best = resp
			bestLen = len(suffix)
		}
	}
	return best, bestLen >= 0
}

// Requests returns the requests sent so far
func (m *MockHTTPClient) Requests() []*httpclient.Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*httpclient.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// LastRequest returns the most recent request or nil
func (m *MockHTTPClient) LastRequest() *httpclient.Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

// Clear removes all registered responses and recorded requests
func (m *MockHTTPClient) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes = make(map[string]MockResponse)
	m.requests = nil
}
