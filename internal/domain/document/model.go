package document

import (
	"time"

	"github.com/ivesbwas/bwas/internal/domain/authorization"
	ierr "github.com/ivesbwas/bwas/internal/errors"
	"github.com/ivesbwas/bwas/internal/types"
)

// ExternalDocument is a document as the document-of-record service sees it
type ExternalDocument struct {
	TransactionID       string
	Tin                 string
	TinType             types.TinType
	Status              string
	DocumentType        string
	DocumentStatus      string
	AuthorizationStatus types.AuthorizationStatus
	SignatureID         string
	CreatedDate         time.Time
	UpdatedDate         time.Time
	DocumentContent     string
	Metadata            string
}

// ToAuthorizationDocument translates the remote document to the local shape
func (d *ExternalDocument) ToAuthorizationDocument() *authorization.AuthorizationDocument {
	if d == nil {
		return nil
	}
	return &authorization.AuthorizationDocument{
		TransactionID:       d.TransactionID,
		Tin:                 d.Tin,
		TinType:             d.TinType,
		Status:              d.Status,
		DocumentType:        d.DocumentType,
		DocumentStatus:      d.DocumentStatus,
		AuthorizationStatus: d.AuthorizationStatus,
		CreatedDate:         d.CreatedDate,
		UpdatedDate:         d.UpdatedDate,
	}
}

// AuthorizeRequest commits a decision to the document service
type AuthorizeRequest struct {
	Action        types.AuthorizationAction
	TransactionID string
	// Tin of the authorizer
	Tin         string
	SignatureID string
}

func (r *AuthorizeRequest) Validate() error {
	if err := r.Action.Validate(); err != nil {
		return err
	}
	if r.TransactionID == "" {
		return ierr.NewError("transaction id is required").
			WithHint("Transaction ID is required").
			Mark(ierr.ErrValidation)
	}
	if err := types.ValidateTin("tin", r.Tin); err != nil {
		return err
	}
	if r.Action.RequiresSignature() && r.SignatureID == "" {
		return ierr.NewError("signature id is required for approval").
			WithHint("An electronic signature is required to approve a document").
			WithReportableDetails(map[string]any{
				"transaction_id": r.TransactionID,
			}).
			Mark(ierr.ErrValidation)
	}
	if !r.Action.RequiresSignature() && r.SignatureID != "" {
		return ierr.NewError("signature id must be empty for rejection").
			WithHint("A rejection must not carry a signature").
			Mark(ierr.ErrValidation)
	}
	return nil
}
