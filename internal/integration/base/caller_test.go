package base

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/ivesbwas/bwas/internal/config"
	ierr "github.com/ivesbwas/bwas/internal/errors"
	"github.com/ivesbwas/bwas/internal/logger"
	"github.com/ivesbwas/bwas/internal/testutil"
	"github.com/ivesbwas/bwas/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pong struct {
	Value string `json:"value"`
}

func newCaller(cfg config.ServiceConfig) (*Caller, *testutil.MockHTTPClient) {
	mock := testutil.NewMockHTTPClient()
	return NewCaller("test service", cfg, mock, logger.NewNopLogger()), mock
}

func TestDoDecodesResponse(t *testing.T) {
	c, mock := newCaller(config.ServiceConfig{BaseURL: "http://svc.test/", Timeout: time.Second})
	mock.RegisterJSONResponse("POST /ping", http.StatusOK, `{"value":"pong"}`)

	ctx := types.SetRequestID(context.Background(), "req-1")
	var out pong
	require.NoError(t, c.Do(ctx, http.MethodPost, "/ping", map[string]string{"a": "b"}, &out))
	assert.Equal(t, "pong", out.Value)

	sent := mock.LastRequest()
	assert.Equal(t, "http://svc.test/ping", sent.URL)
	assert.Equal(t, "req-1", sent.Headers[types.HeaderRequestID])
	assert.JSONEq(t, `{"a":"b"}`, string(sent.Body))
}

func TestDoEmptyBodyWhenResponseExpected(t *testing.T) {
	c, mock := newCaller(config.ServiceConfig{BaseURL: "http://svc.test", Timeout: time.Second})
	mock.RegisterResponse("GET /ping", testutil.MockResponse{StatusCode: http.StatusNoContent})

	var out pong
	err := c.Do(context.Background(), http.MethodGet, "/ping", nil, &out)
	assert.True(t, ierr.IsExternalService(err))

	assert.NoError(t, c.Do(context.Background(), http.MethodGet, "/ping", nil, nil))
}

func TestDoCarriesUpstreamStatus(t *testing.T) {
	c, mock := newCaller(config.ServiceConfig{BaseURL: "http://svc.test", Timeout: time.Second})
	mock.RegisterJSONResponse("GET /ping", http.StatusTeapot, `{"message":"short and stout"}`)

	err := c.Do(context.Background(), http.MethodGet, "/ping", nil, nil)
	require.Error(t, err)
	assert.True(t, ierr.IsExternalService(err))
	assert.True(t, IsStatus(err, http.StatusTeapot))
	assert.False(t, IsStatus(err, http.StatusNotFound))
}

func TestDoRateLimited(t *testing.T) {
	c, mock := newCaller(config.ServiceConfig{
		BaseURL:   "http://svc.test",
		Timeout:   50 * time.Millisecond,
		RateLimit: 0.5,
		RateBurst: 1,
	})
	mock.RegisterJSONResponse("GET /ping", http.StatusOK, `{}`)

	require.NoError(t, c.Do(context.Background(), http.MethodGet, "/ping", nil, nil))

	// the next token is two seconds away, beyond the call deadline
	err := c.Do(context.Background(), http.MethodGet, "/ping", nil, nil)
	assert.True(t, ierr.IsTimeout(err))
	assert.Len(t, mock.Requests(), 1)
}
