package service

import (
	"context"
	"time"

	"github.com/ivesbwas/bwas/internal/api/dto"
	"github.com/ivesbwas/bwas/internal/domain/authorization"
	"github.com/ivesbwas/bwas/internal/domain/document"
	"github.com/ivesbwas/bwas/internal/domain/signature"
	ierr "github.com/ivesbwas/bwas/internal/errors"
	"github.com/ivesbwas/bwas/internal/types"
)

// AuthorizationService coordinates the local store, the signature service
// and the document service for authorization decisions
type AuthorizationService interface {
	// GetDocuments returns one page of documents for tin, newest first
	GetDocuments(ctx context.Context, tin string, page int) ([]*authorization.AuthorizationDocument, error)
	// GetDocument returns the document only when it belongs to tin (and
	// tinType, when given)
	GetDocument(ctx context.Context, transactionID, tin string, tinType types.TinType) (*authorization.AuthorizationDocument, error)
	// Authorize approves or rejects a pending document
	Authorize(ctx context.Context, req *dto.AuthorizeRequest) (*authorization.AuthorizationDocument, error)
}

type authorizationService struct {
	ServiceParams
	now func() time.Time
}

func NewAuthorizationService(params ServiceParams) AuthorizationService {
	return &authorizationService{
		ServiceParams: params,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *authorizationService) GetDocuments(ctx context.Context, tin string, page int) ([]*authorization.AuthorizationDocument, error) {
	if err := types.ValidateTin("tin", tin); err != nil {
		return nil, err
	}
	if page < 0 {
		return nil, ierr.NewError("page must not be negative").
			WithHint("Page must be zero or greater").
			WithReportableDetails(map[string]any{
				"page": page,
			}).
			Mark(ierr.ErrValidation)
	}

	return s.AuthorizationRepo.ListByTin(ctx, tin, page)
}

func (s *authorizationService) GetDocument(ctx context.Context, transactionID, tin string, tinType types.TinType) (*authorization.AuthorizationDocument, error) {
	if transactionID == "" {
		return nil, ierr.NewError("transaction id is required").
			WithHint("Transaction ID is required").
			Mark(ierr.ErrValidation)
	}
	if err := types.ValidateTin("tin", tin); err != nil {
		return nil, err
	}
	if tinType != "" {
		if err := tinType.Validate(); err != nil {
			return nil, err
		}
	}

	doc, err := s.AuthorizationRepo.Get(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	// a document held for another taxpayer is reported the same as a missing one
	if doc != nil && (doc.Tin != tin || (tinType != "" && doc.TinType != tinType)) {
		s.Logger.Debugw("document does not belong to requested tin",
			"transaction_id", transactionID,
			"tin", types.MaskTin(tin),
			"tin_type", tinType)
		doc = nil
	}

	if doc == nil {
		return nil, ierr.NewError("document not found").
			WithHintf("Document %s was not found", transactionID).
			WithReportableDetails(map[string]any{
				"transaction_id": transactionID,
			}).
			Mark(ierr.ErrNotFound)
	}
	return doc, nil
}

func (s *authorizationService) Authorize(ctx context.Context, req *dto.AuthorizeRequest) (*authorization.AuthorizationDocument, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	doc, err := s.GetDocument(ctx, req.TransactionID, req.DocumentTin, req.TinType)
	if err != nil {
		return nil, err
	}

	if err := req.Action.Validate(); err != nil {
		return nil, err
	}
	if !doc.IsPending() {
		return nil, ierr.NewError("document already decided").
			WithHintf("Document %s has already been %s", doc.TransactionID, doc.AuthorizationStatus).
			WithReportableDetails(map[string]any{
				"transaction_id":       doc.TransactionID,
				"authorization_status": doc.AuthorizationStatus,
			}).
			Mark(ierr.ErrInvalidState)
	}

	log := s.Logger.With(
		"transaction_id", doc.TransactionID,
		"action", req.Action,
		"user_id", req.UserID,
	)
	log.Infow("authorizing document", "tin", types.MaskTin(doc.Tin))

	var sig *signature.SignatureRecord
	if req.Action.RequiresSignature() {
		sig, err = s.sign(ctx, doc, req)
		if err != nil {
			log.Warnw("signature request failed", "error", err)
			return nil, err
		}
		log.Debugw("signature obtained", "signature_id", sig.SignatureID)
	}

	committed, err := s.commit(ctx, doc, req, sig)
	if err != nil {
		log.Warnw("document service rejected the decision", "error", err)
		return nil, err
	}

	saved, err := s.persist(ctx, doc, req.Action, committed)
	if err != nil {
		return nil, err
	}

	s.announce(ctx, saved, req, sig)

	log.Infow("document authorized", "authorization_status", saved.AuthorizationStatus)
	return saved, nil
}

// sign obtains the electronic signature required for an approval
func (s *authorizationService) sign(ctx context.Context, doc *authorization.AuthorizationDocument, req *dto.AuthorizeRequest) (*signature.SignatureRecord, error) {
	intentID := req.IntentID
	if intentID == "" {
		intentID = types.DeriveIntentID(doc.TransactionID)
	}

	sig, err := s.SignatureGateway.GetElectronicSignature(ctx, &signature.Request{
		UUID:          req.UserID,
		TransactionID: doc.TransactionID,
		UserName:      req.SignerName(),
		Tin:           req.UserTin,
		FormType:      doc.DocumentType,
		AppName:       s.Config.Authorization.AppName,
		IntentID:      intentID,
	})
	if err != nil {
		return nil, err
	}
	if sig == nil || sig.SignatureID == "" {
		return nil, ierr.NewError("signature service returned no signature").
			WithHint("Signature service returned no signature").
			WithReportableDetails(map[string]any{
				"transaction_id": doc.TransactionID,
			}).
			Mark(ierr.ErrExternalService)
	}
	return sig, nil
}

// commit records the decision with the document service. sig is nil for
// rejections.
func (s *authorizationService) commit(ctx context.Context, doc *authorization.AuthorizationDocument, req *dto.AuthorizeRequest, sig *signature.SignatureRecord) (*document.ExternalDocument, error) {
	authReq := &document.AuthorizeRequest{
		Action:        req.Action,
		TransactionID: doc.TransactionID,
		Tin:           req.UserTin,
	}
	if sig != nil {
		authReq.SignatureID = sig.SignatureID
	}

	committed, err := s.DocumentGateway.Authorize(ctx, authReq)
	if err != nil {
		return nil, err
	}
	if committed == nil {
		return nil, ierr.NewError("document service returned no document").
			WithHint("Document service returned an empty response").
			Mark(ierr.ErrExternalService)
	}

	expected := req.Action.ResultingStatus()
	if committed.AuthorizationStatus != "" && committed.AuthorizationStatus != expected {
		return nil, ierr.NewError("document service reported a different decision").
			WithHintf("Document service reported %s instead of %s", committed.AuthorizationStatus, expected).
			WithReportableDetails(map[string]any{
				"transaction_id":       doc.TransactionID,
				"expected_status":      expected,
				"authorization_status": committed.AuthorizationStatus,
			}).
			Mark(ierr.ErrExternalService)
	}
	return committed, nil
}

// persist records the committed decision locally. Nothing is written once
// the caller has gone away.
func (s *authorizationService) persist(ctx context.Context, doc *authorization.AuthorizationDocument, action types.AuthorizationAction, committed *document.ExternalDocument) (*authorization.AuthorizationDocument, error) {
	if err := ierr.FromContext(ctx, "authorization"); err != nil {
		s.Logger.Warnw("request ended after external commit, decision not recorded locally",
			"transaction_id", doc.TransactionID,
			"action", action,
			"error", err)
		return nil, err
	}

	next := doc.Copy()
	next.AuthorizationStatus = action.ResultingStatus()
	next.UpdatedDate = types.LaterOf(s.now(), doc.CreatedDate)
	if committed.DocumentStatus != "" {
		next.DocumentStatus = committed.DocumentStatus
	}

	saved, err := s.AuthorizationRepo.Save(ctx, next)
	if err != nil {
		s.Logger.Errorw("external commit succeeded but local persist failed",
			"transaction_id", doc.TransactionID,
			"action", action,
			"error", err)
		return nil, ierr.WithError(err).
			WithHint("Failed to record the authorization decision").
			WithReportableDetails(map[string]any{
				"transaction_id": doc.TransactionID,
			}).
			Mark(ierr.ErrDatabase)
	}
	return saved, nil
}

func (s *authorizationService) announce(ctx context.Context, doc *authorization.AuthorizationDocument, req *dto.AuthorizeRequest, sig *signature.SignatureRecord) {
	if s.DecisionPublisher == nil {
		return
	}

	signatureID := ""
	if sig != nil {
		signatureID = sig.SignatureID
	}

	event := authorization.NewDecisionEvent(doc, req.Action, req.UserID, signatureID)
	if err := s.DecisionPublisher.Publish(ctx, event); err != nil {
		s.Logger.Errorw("failed to publish decision event",
			"transaction_id", doc.TransactionID,
			"event_name", event.EventName,
			"error", err)
	}
}
