package essar

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/ivesbwas/bwas/internal/config"
	"github.com/ivesbwas/bwas/internal/domain/signature"
	ierr "github.com/ivesbwas/bwas/internal/errors"
	"github.com/ivesbwas/bwas/internal/logger"
	"github.com/ivesbwas/bwas/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ClientSuite struct {
	suite.Suite
	http   *testutil.MockHTTPClient
	client *Client
}

func TestClient(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	cfg := config.GetDefaultConfig()
	cfg.Signature.BaseURL = "http://essar.test/"
	cfg.Signature.Timeout = 50 * time.Millisecond
	s.http = testutil.NewMockHTTPClient()
	s.client = NewClient(cfg, s.http, logger.NewNopLogger())
}

func (s *ClientSuite) request() *signature.Request {
	return &signature.Request{
		UUID:          "user-1",
		TransactionID: "tx-1",
		UserName:      "Jane",
		Tin:           "987654321",
		FormType:      "W9",
		AppName:       "BWAS",
		IntentID:      "intent-tx-1",
	}
}

func (s *ClientSuite) TestGetElectronicSignature() {
	s.http.RegisterJSONResponse("POST /signatures", http.StatusCreated,
		`{"signatureId":"sig-1","status":"SIGNED","signatureValue":"abc=="}`)

	before := time.Now().UTC()
	rec, err := s.client.GetElectronicSignature(context.Background(), s.request())
	s.Require().NoError(err)

	s.Equal("sig-1", rec.SignatureID)
	s.Equal("SIGNED", rec.SignatureStatus)
	s.Equal("abc==", rec.SignatureValue)
	s.Equal("tx-1", rec.TransactionID)
	s.Equal("user-1", rec.UUID)
	s.Equal("intent-tx-1", rec.IntentID)
	s.False(rec.SignatureDate.Before(before))

	sent := s.http.LastRequest()
	s.Require().NotNil(sent)
	s.Equal("http://essar.test/signatures", sent.URL)
	var body SignatureRequest
	s.Require().NoError(json.Unmarshal(sent.Body, &body))
	s.Equal(SignatureRequest{
		UUID:          "user-1",
		TransactionID: "tx-1",
		UserName:      "Jane",
		Tin:           "987654321",
		FormType:      "W9",
		AppName:       "BWAS",
		IntentID:      "intent-tx-1",
	}, body)
}

func (s *ClientSuite) TestEachCallIssuesNewRequest() {
	s.http.RegisterJSONResponse("POST /signatures", http.StatusOK, `{"signatureId":"sig-1"}`)
	_, err := s.client.GetElectronicSignature(context.Background(), s.request())
	s.Require().NoError(err)
	_, err = s.client.GetElectronicSignature(context.Background(), s.request())
	s.Require().NoError(err)
	s.Len(s.http.Requests(), 2)
}

func (s *ClientSuite) TestFailures() {
	tests := []struct {
		name   string
		resp   testutil.MockResponse
		ctx    func() (context.Context, context.CancelFunc)
		assert func(t *testing.T, err error)
	}{
		{
			name: "non 2xx",
			resp: testutil.MockResponse{StatusCode: http.StatusServiceUnavailable, Body: []byte(`{"message":"down"}`)},
			assert: func(t *testing.T, err error) {
				assert.True(t, ierr.IsExternalService(err))
				assert.Equal(t, http.StatusBadGateway, ierr.HTTPStatusFromErr(err))
			},
		},
		{
			name: "transport failure",
			resp: testutil.MockResponse{Err: errors.New("connection refused")},
			assert: func(t *testing.T, err error) {
				assert.True(t, ierr.IsExternalService(err))
			},
		},
		{
			name: "unparsable payload",
			resp: testutil.MockResponse{StatusCode: http.StatusOK, Body: []byte(`<html>`)},
			assert: func(t *testing.T, err error) {
				assert.True(t, ierr.IsExternalService(err))
			},
		},
		{
			name: "missing signature id",
			resp: testutil.MockResponse{StatusCode: http.StatusOK, Body: []byte(`{"status":"FAILED"}`)},
			assert: func(t *testing.T, err error) {
				assert.True(t, ierr.IsExternalService(err))
			},
		},
		{
			name: "timeout",
			resp: testutil.MockResponse{StatusCode: http.StatusOK, Body: []byte(`{"signatureId":"sig-1"}`), Delay: time.Second},
			assert: func(t *testing.T, err error) {
				assert.True(t, ierr.IsTimeout(err))
				assert.Equal(t, http.StatusGatewayTimeout, ierr.HTTPStatusFromErr(err))
			},
		},
		{
			name: "caller canceled",
			resp: testutil.MockResponse{StatusCode: http.StatusOK, Body: []byte(`{"signatureId":"sig-1"}`)},
			ctx: func() (context.Context, context.CancelFunc) {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx, cancel
			},
			assert: func(t *testing.T, err error) {
				assert.True(t, ierr.IsCanceled(err))
			},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.http.Clear()
			s.http.RegisterResponse("POST /signatures", tt.resp)

			ctx, cancel := context.WithCancel(context.Background())
			if tt.ctx != nil {
				ctx, cancel = tt.ctx()
			}
			defer cancel()

			rec, err := s.client.GetElectronicSignature(ctx, s.request())
			require.Error(s.T(), err)
			s.Nil(rec)
			tt.assert(s.T(), err)
		})
	}
}

func (s *ClientSuite) TestIncompleteRequest() {
	_, err := s.client.GetElectronicSignature(context.Background(), &signature.Request{TransactionID: "tx-1"})
	s.True(ierr.IsValidation(err))
	s.Empty(s.http.Requests())
}
