package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ivesbwas/bwas/internal/api/dto"
	v1 "github.com/ivesbwas/bwas/internal/api/v1"
	ierr "github.com/ivesbwas/bwas/internal/errors"
	"github.com/ivesbwas/bwas/internal/sentry"
	"github.com/ivesbwas/bwas/internal/service"
	"github.com/ivesbwas/bwas/internal/testutil"
	"github.com/ivesbwas/bwas/internal/types"
	"github.com/stretchr/testify/suite"
)

type RouterSuite struct {
	testutil.BaseServiceTestSuite
	router *gin.Engine
}

func TestRouter(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	gin.SetMode(gin.TestMode)

	params := service.NewServiceParams(
		s.GetLogger(),
		s.GetConfig(),
		s.GetStores().AuthorizationRepo,
		s.GetGateways().Signature,
		s.GetGateways().Document,
		s.GetPublisher(),
	)
	handlers := Handlers{
		Health: v1.NewHealthHandler(s.GetLogger()),
		Authorization: v1.NewAuthorizationHandler(
			service.NewAuthorizationService(params),
			service.NewReconciliationService(params),
			s.GetLogger(),
		),
	}
	s.router = NewRouter(handlers, s.GetLogger(), sentry.NewSentryService(s.GetConfig(), s.GetLogger()))
}

func (s *RouterSuite) do(method, target string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *RouterSuite) decodeError(w *httptest.ResponseRecorder) ierr.ErrorResponse {
	var resp ierr.ErrorResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (s *RouterSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", nil)
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"status":"ok"}`, w.Body.String())
	s.NotEmpty(w.Header().Get(types.HeaderRequestID))
}

func (s *RouterSuite) TestListDocuments() {
	doc := s.NewPendingDocument("tx-1", "123456789")
	s.GetStores().AuthorizationRepo.Seed(doc)

	w := s.do(http.MethodGet, "/v1/authorizations?tin=123456789&page=0", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var resp []dto.AuthorizationDocumentResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Require().Len(resp, 1)
	s.Equal("tx-1", resp[0].TransactionID)
	s.Equal(types.FormatDateTime(doc.CreatedDate), resp[0].CreatedDate)
	s.Equal(types.AuthorizationStatusPending, resp[0].AuthorizationStatus)
}

func (s *RouterSuite) TestListDocumentsEmptyPage() {
	w := s.do(http.MethodGet, "/v1/authorizations?tin=123456789&page=4", nil)
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`[]`, w.Body.String())
}

func (s *RouterSuite) TestListDocumentsBadTin() {
	w := s.do(http.MethodGet, "/v1/authorizations?tin=12345", nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.False(s.decodeError(w).Success)
	s.Equal(0, s.GetStores().AuthorizationRepo.ListCalls())
}

func (s *RouterSuite) TestListDocumentsBadPage() {
	w := s.do(http.MethodGet, "/v1/authorizations?tin=123456789&page=abc", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RouterSuite) TestGetDocument() {
	s.GetStores().AuthorizationRepo.Seed(s.NewPendingDocument("tx-1", "123456789"))

	w := s.do(http.MethodGet, "/v1/authorizations/tx-1?tin=123456789&tinType=INDIVIDUAL", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var resp dto.AuthorizationDocumentResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("tx-1", resp.TransactionID)
	s.Equal(types.TinTypeIndividual, resp.TinType)
}

func (s *RouterSuite) TestGetDocumentNotFound() {
	w := s.do(http.MethodGet, "/v1/authorizations/missing-tx?tin=123456789", nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("missing-tx", s.decodeError(w).Error.Details["transaction_id"])
}

func (s *RouterSuite) TestAuthorizeWithQuery() {
	s.GetStores().AuthorizationRepo.Seed(s.NewPendingDocument("tx-1", "123456789"))
	s.GetGateways().Signature.IssueID("sig-1")

	q := url.Values{
		"action":      {"APPROVE"},
		"documentTin": {"123456789"},
		"tinType":     {"INDIVIDUAL"},
		"userId":      {"user-1"},
		"userTin":     {"987654321"},
	}
	w := s.do(http.MethodPost, "/v1/authorizations/tx-1/authorize?"+q.Encode(), nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp dto.AuthorizationDocumentResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(types.AuthorizationStatusApproved, resp.AuthorizationStatus)

	calls := s.GetGateways().Document.AuthorizeCalls()
	s.Require().Len(calls, 1)
	s.Equal("sig-1", calls[0].SignatureID)
}

func (s *RouterSuite) TestAuthorizeWithJSONBody() {
	s.GetStores().AuthorizationRepo.Seed(s.NewPendingDocument("tx-1", "123456789"))

	body, err := json.Marshal(dto.AuthorizeRequest{
		Action:      types.AuthorizationActionReject,
		DocumentTin: "123456789",
		UserID:      "user-1",
		UserTin:     "987654321",
	})
	s.Require().NoError(err)

	w := s.do(http.MethodPost, "/v1/authorizations/tx-1/authorize", body)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp dto.AuthorizationDocumentResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(types.AuthorizationStatusRejected, resp.AuthorizationStatus)
	s.Empty(s.GetGateways().Signature.Requests())
}

func (s *RouterSuite) TestAuthorizeTwiceConflicts() {
	s.GetStores().AuthorizationRepo.Seed(s.NewPendingDocument("tx-1", "123456789"))
	target := "/v1/authorizations/tx-1/authorize?action=REJECT&documentTin=123456789&userId=user-1&userTin=987654321"

	s.Equal(http.StatusOK, s.do(http.MethodPost, target, nil).Code)

	w := s.do(http.MethodPost, target, nil)
	s.Equal(http.StatusConflict, w.Code)
	s.Equal("REJECTED", s.decodeError(w).Error.Details["authorization_status"])
}

func (s *RouterSuite) TestAuthorizeUpstreamFailure() {
	s.GetStores().AuthorizationRepo.Seed(s.NewPendingDocument("tx-1", "123456789"))
	s.GetGateways().Signature.Fail(ierr.NewError("signature service returned 503").
		WithHint("Signature service request failed").
		Mark(ierr.ErrExternalService))

	w := s.do(http.MethodPost, "/v1/authorizations/tx-1/authorize?action=APPROVE&documentTin=123456789&userId=user-1&userTin=987654321", nil)
	s.Equal(http.StatusBadGateway, w.Code)
	s.Equal("Signature service request failed", s.decodeError(w).Error.Display)
}

func (s *RouterSuite) TestAuthorizeMalformedBody() {
	w := s.do(http.MethodPost, "/v1/authorizations/tx-1/authorize", []byte(`{"action":`))
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RouterSuite) TestReconcile() {
	s.GetStores().AuthorizationRepo.Seed(s.NewPendingDocument("tx-1", "123456789"))

	w := s.do(http.MethodGet, "/v1/authorizations/reconcile?tin=123456789", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var resp dto.ReconciliationResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.False(resp.InSync)
	s.Require().Len(resp.Drift, 1)
	s.Equal(dto.DriftMissingRemote, resp.Drift[0].Kind)
}
