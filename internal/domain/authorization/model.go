package authorization

import (
	"time"

	ierr "github.com/ivesbwas/bwas/internal/errors"
	"github.com/ivesbwas/bwas/internal/types"
)

// AuthorizationDocument is the local system-of-record entry for a document
// awaiting (or holding) an authorization decision.
type AuthorizationDocument struct {
	TransactionID       string
	Tin                 string
	TinType             types.TinType
	Status              string
	DocumentType        string
	DocumentStatus      string
	AuthorizationStatus types.AuthorizationStatus
	CreatedDate         time.Time
	UpdatedDate         time.Time
}

// Copy returns a request-scoped copy of the document
func (d *AuthorizationDocument) Copy() *AuthorizationDocument {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

// IsPending reports whether the document can still be decided
func (d *AuthorizationDocument) IsPending() bool {
	return d.AuthorizationStatus == types.AuthorizationStatusPending
}

// Validate checks the stored shape of the document
func (d *AuthorizationDocument) Validate() error {
	if d.TransactionID == "" {
		return ierr.NewError("transaction id is required").
			WithHint("Transaction ID is required").
			Mark(ierr.ErrValidation)
	}
	if err := types.ValidateTin("tin", d.Tin); err != nil {
		return err
	}
	if err := d.TinType.Validate(); err != nil {
		return err
	}
	if d.DocumentType != "" && !types.IsValidDocumentType(d.DocumentType) {
		return ierr.NewError("invalid document type").
			WithHint("Document type must be 2-10 uppercase letters or digits").
			WithReportableDetails(map[string]any{
				"document_type": d.DocumentType,
			}).
			Mark(ierr.ErrValidation)
	}
	if err := d.AuthorizationStatus.Validate(); err != nil {
		return err
	}
	if !d.UpdatedDate.IsZero() && d.UpdatedDate.Before(d.CreatedDate) {
		return ierr.NewError("updated date before created date").
			WithHint("Updated date cannot be before created date").
			Mark(ierr.ErrValidation)
	}
	return nil
}
