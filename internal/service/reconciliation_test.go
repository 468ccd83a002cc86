package service

import (
	"testing"

	"github.com/ivesbwas/bwas/internal/api/dto"
	"github.com/ivesbwas/bwas/internal/domain/document"
	ierr "github.com/ivesbwas/bwas/internal/errors"
	"github.com/ivesbwas/bwas/internal/testutil"
	"github.com/ivesbwas/bwas/internal/types"
	"github.com/stretchr/testify/suite"
)

type ReconciliationServiceSuite struct {
	testutil.BaseServiceTestSuite
	service ReconciliationService
}

func TestReconciliationService(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceSuite))
}

func (s *ReconciliationServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewReconciliationService(NewServiceParams(
		s.GetLogger(),
		s.GetConfig(),
		s.GetStores().AuthorizationRepo,
		s.GetGateways().Signature,
		s.GetGateways().Document,
		s.GetPublisher(),
	))
}

func remoteDocument(transactionID, tin string, status types.AuthorizationStatus) *document.ExternalDocument {
	return &document.ExternalDocument{
		TransactionID:       transactionID,
		Tin:                 tin,
		TinType:             types.TinTypeIndividual,
		AuthorizationStatus: status,
	}
}

func (s *ReconciliationServiceSuite) TestReconcileReportsDrift() {
	approved := s.NewPendingDocument("tx-2", documentTin)
	approved.AuthorizationStatus = types.AuthorizationStatusApproved
	s.GetStores().AuthorizationRepo.Seed(
		s.NewPendingDocument("tx-1", documentTin),
		approved,
		s.NewPendingDocument("tx-9", otherTin),
	)
	s.GetGateways().Document.Put(
		remoteDocument("tx-1", documentTin, types.AuthorizationStatusApproved),
		remoteDocument("tx-3", documentTin, types.AuthorizationStatusPending),
		remoteDocument("tx-8", otherTin, types.AuthorizationStatusPending),
	)

	resp, err := s.service.Reconcile(s.GetContext(), documentTin)
	s.Require().NoError(err)

	s.Equal(documentTin, resp.Tin)
	s.Equal(2, resp.LocalCount)
	s.Equal(2, resp.RemoteCount)
	s.False(resp.InSync)
	s.Equal([]dto.DriftEntry{
		{
			TransactionID: "tx-1",
			Kind:          dto.DriftStatusMismatch,
			LocalStatus:   types.AuthorizationStatusPending,
			RemoteStatus:  types.AuthorizationStatusApproved,
		},
		{
			TransactionID: "tx-2",
			Kind:          dto.DriftMissingRemote,
			LocalStatus:   types.AuthorizationStatusApproved,
		},
		{
			TransactionID: "tx-3",
			Kind:          dto.DriftMissingLocal,
			RemoteStatus:  types.AuthorizationStatusPending,
		},
	}, resp.Drift)
	s.NotEmpty(resp.CheckedAt)

	// read only
	s.Equal(0, s.GetStores().AuthorizationRepo.SaveCalls())
	s.Empty(s.GetGateways().Document.AuthorizeCalls())
}

func (s *ReconciliationServiceSuite) TestReconcileInSync() {
	s.GetStores().AuthorizationRepo.Seed(s.NewPendingDocument("tx-1", documentTin))
	s.GetGateways().Document.Put(remoteDocument("tx-1", documentTin, types.AuthorizationStatusPending))

	resp, err := s.service.Reconcile(s.GetContext(), documentTin)
	s.Require().NoError(err)
	s.True(resp.InSync)
	s.Empty(resp.Drift)
}

func (s *ReconciliationServiceSuite) TestReconcileReadsEveryLocalPage() {
	pageSize := s.GetConfig().Authorization.PageSize
	for i := 0; i < pageSize+3; i++ {
		s.GetStores().AuthorizationRepo.Seed(s.NewPendingDocument(types.GenerateTransactionID(), documentTin))
	}

	resp, err := s.service.Reconcile(s.GetContext(), documentTin)
	s.Require().NoError(err)
	s.Equal(pageSize+3, resp.LocalCount)
	s.Len(resp.Drift, pageSize+3)
}

func (s *ReconciliationServiceSuite) TestReconcileRemoteFailure() {
	s.GetGateways().Document.Fail(ierr.NewError("document service returned 503").
		WithHint("Document service request failed").
		Mark(ierr.ErrExternalService))

	resp, err := s.service.Reconcile(s.GetContext(), documentTin)
	s.Error(err)
	s.True(ierr.IsExternalService(err))
	s.Nil(resp)
}

func (s *ReconciliationServiceSuite) TestReconcileValidatesTin() {
	_, err := s.service.Reconcile(s.GetContext(), "12345")
	s.Error(err)
	s.True(ierr.IsValidation(err))
	s.Equal(0, s.GetStores().AuthorizationRepo.ListCalls())
}
