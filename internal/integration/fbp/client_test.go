package fbp

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/ivesbwas/bwas/internal/config"
	"github.com/ivesbwas/bwas/internal/domain/document"
	ierr "github.com/ivesbwas/bwas/internal/errors"
	"github.com/ivesbwas/bwas/internal/logger"
	"github.com/ivesbwas/bwas/internal/testutil"
	"github.com/ivesbwas/bwas/internal/types"
	"github.com/stretchr/testify/suite"
)

const documentJSON = `{
	"transactionId": "tx-1",
	"tin": "123456789",
	"tinType": "INDIVIDUAL",
	"documentType": "W9",
	"documentStatus": "RECEIVED",
	"authorizationStatus": "PENDING",
	"createdDate": "2024-03-01T10:00:00.000Z",
	"updatedDate": "2024-03-01T10:00:00.000Z",
	"documentContent": "JVBERi0=",
	"metadata": "{\"source\":\"upload\"}"
}`

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
	cfg.Document.BaseURL = "http://fbp.test"
	cfg.Document.Timeout = 50 * time.Millisecond
	s.http = testutil.NewMockHTTPClient()
	s.client = NewClient(cfg, s.http, logger.NewNopLogger())
}

func (s *ClientSuite) TestGetDocument() {
	s.http.RegisterJSONResponse("GET /documents/tx-1", http.StatusOK, documentJSON)

	doc, err := s.client.GetDocument(context.Background(), "tx-1")
	s.Require().NoError(err)
	s.Equal("tx-1", doc.TransactionID)
	s.Equal(types.TinTypeIndividual, doc.TinType)
	s.Equal(types.AuthorizationStatusPending, doc.AuthorizationStatus)
	s.Equal("JVBERi0=", doc.DocumentContent)
	s.Equal(`{"source":"upload"}`, doc.Metadata)
	s.True(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC).Equal(doc.CreatedDate))
	s.Equal("http://fbp.test/documents/tx-1", s.http.LastRequest().URL)
}

func (s *ClientSuite) TestGetDocumentNotFoundIsDistinct() {
	s.http.RegisterJSONResponse("GET /documents/tx-404", http.StatusNotFound, `{"message":"no such document"}`)
	_, err := s.client.GetDocument(context.Background(), "tx-404")
	s.True(ierr.IsNotFound(err))
	s.Equal(http.StatusNotFound, ierr.HTTPStatusFromErr(err))

	s.http.RegisterJSONResponse("GET /documents/tx-500", http.StatusInternalServerError, `{}`)
	_, err = s.client.GetDocument(context.Background(), "tx-500")
	s.False(ierr.IsNotFound(err))
	s.True(ierr.IsExternalService(err))
}

func (s *ClientSuite) TestGetDocumentBadDate() {
	s.http.RegisterJSONResponse("GET /documents/tx-1", http.StatusOK,
		`{"transactionId":"tx-1","createdDate":"yesterday"}`)
	_, err := s.client.GetDocument(context.Background(), "tx-1")
	s.True(ierr.IsExternalService(err))
}

func (s *ClientSuite) TestGetDocuments() {
	s.http.RegisterJSONResponse("GET /documents?tin=123456789", http.StatusOK,
		`{"documents":[`+documentJSON+`,{"transactionId":"tx-2","tin":"123456789","authorizationStatus":"APPROVED","createdDate":"2024-03-02T10:00:00+00:00"}]}`)

	docs, err := s.client.GetDocuments(context.Background(), "123456789")
	s.Require().NoError(err)
	s.Require().Len(docs, 2)
	s.Equal("tx-2", docs[1].TransactionID)
	s.Equal(types.AuthorizationStatusApproved, docs[1].AuthorizationStatus)
}

func (s *ClientSuite) TestGetDocumentsRejectsBadTin() {
	_, err := s.client.GetDocuments(context.Background(), "12345")
	s.True(ierr.IsValidation(err))
	s.Empty(s.http.Requests())
}

func (s *ClientSuite) TestAuthorizeApprove() {
	approved := `{"transactionId":"tx-1","tin":"123456789","authorizationStatus":"APPROVED","signatureId":"sig-1","createdDate":"2024-03-01T10:00:00.000Z","updatedDate":"2024-03-01T11:00:00.000Z"}`
	s.http.RegisterJSONResponse("POST /documents/tx-1/authorize", http.StatusOK, approved)

	doc, err := s.client.Authorize(context.Background(), &document.AuthorizeRequest{
		Action:        types.AuthorizationActionApprove,
		TransactionID: "tx-1",
		Tin:           "987654321",
		SignatureID:   "sig-1",
	})
	s.Require().NoError(err)
	s.Equal(types.AuthorizationStatusApproved, doc.AuthorizationStatus)
	s.Equal("sig-1", doc.SignatureID)

	var body map[string]any
	s.Require().NoError(json.Unmarshal(s.http.LastRequest().Body, &body))
	s.Equal(map[string]any{"action": "APPROVE", "tin": "987654321", "signatureId": "sig-1"}, body)
}

func (s *ClientSuite) TestAuthorizeRejectOmitsSignature() {
	s.http.RegisterJSONResponse("POST /documents/tx-1/authorize", http.StatusOK,
		`{"transactionId":"tx-1","authorizationStatus":"REJECTED"}`)

	_, err := s.client.Authorize(context.Background(), &document.AuthorizeRequest{
		Action:        types.AuthorizationActionReject,
		TransactionID: "tx-1",
		Tin:           "987654321",
	})
	s.Require().NoError(err)

	var body map[string]any
	s.Require().NoError(json.Unmarshal(s.http.LastRequest().Body, &body))
	s.NotContains(body, "signatureId")
	s.Equal("REJECT", body["action"])
}

func (s *ClientSuite) TestAuthorizeApproveWithoutSignature() {
	_, err := s.client.Authorize(context.Background(), &document.AuthorizeRequest{
		Action:        types.AuthorizationActionApprove,
		TransactionID: "tx-1",
		Tin:           "987654321",
	})
	s.True(ierr.IsValidation(err))
	s.Empty(s.http.Requests())
}

func (s *ClientSuite) TestAuthorizeUpstreamFailure() {
	s.http.RegisterJSONResponse("POST /documents/tx-1/authorize", http.StatusConflict, `{"error":"already decided"}`)
	_, err := s.client.Authorize(context.Background(), &document.AuthorizeRequest{
		Action:        types.AuthorizationActionReject,
		TransactionID: "tx-1",
		Tin:           "987654321",
	})
	s.True(ierr.IsExternalService(err))
}

func (s *ClientSuite) TestAuthorizeTimeout() {
	s.http.RegisterResponse("POST /documents/tx-1/authorize", testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body:       []byte(`{}`),
		Delay:      time.Second,
	})
	_, err := s.client.Authorize(context.Background(), &document.AuthorizeRequest{
		Action:        types.AuthorizationActionReject,
		TransactionID: "tx-1",
		Tin:           "987654321",
	})
	s.True(ierr.IsTimeout(err))
}
