package fbp

import (
	"github.com/ivesbwas/bwas/internal/domain/document"
	ierr "github.com/ivesbwas/bwas/internal/errors"
	"github.com/ivesbwas/bwas/internal/types"
)

// DocumentPayload is a document as served by the document service
type DocumentPayload struct {
	TransactionID       string `json:"transactionId"`
	Tin                 string `json:"tin"`
	TinType             string `json:"tinType,omitempty"`
	Status              string `json:"status,omitempty"`
	DocumentType        string `json:"documentType"`
	DocumentStatus      string `json:"documentStatus"`
	AuthorizationStatus string `json:"authorizationStatus"`
	SignatureID         string `json:"signatureId,omitempty"`
	CreatedDate         string `json:"createdDate"`
	UpdatedDate         string `json:"updatedDate"`
	DocumentContent     string `json:"documentContent,omitempty"`
	Metadata            string `json:"metadata,omitempty"`
}

// DocumentsResponse is the envelope of GET /documents
type DocumentsResponse struct {
	Documents []DocumentPayload `json:"documents"`
}

// AuthorizeBody is the body of POST /documents/{id}/authorize
type AuthorizeBody struct {
	Action string `json:"action"`
	// Tin of the authorizer
	Tin         string `json:"tin"`
	SignatureID string `json:"signatureId,omitempty"`
}

// ToDomain converts the payload into an ExternalDocument
func (p *DocumentPayload) ToDomain() (*document.ExternalDocument, error) {
	created, err := types.ParseDateTime(p.CreatedDate)
	if err != nil {
		return nil, invalidDate("createdDate", p.CreatedDate, err)
	}
	updated, err := types.ParseDateTime(p.UpdatedDate)
	if err != nil {
		return nil, invalidDate("updatedDate", p.UpdatedDate, err)
	}

	return &document.ExternalDocument{
		TransactionID:       p.TransactionID,
		Tin:                 p.Tin,
		TinType:             types.TinType(p.TinType),
		Status:              p.Status,
		DocumentType:        p.DocumentType,
		DocumentStatus:      p.DocumentStatus,
		AuthorizationStatus: types.AuthorizationStatus(p.AuthorizationStatus),
		SignatureID:         p.SignatureID,
		CreatedDate:         created,
		UpdatedDate:         updated,
		DocumentContent:     p.DocumentContent,
		Metadata:            p.Metadata,
	}, nil
}

func invalidDate(field, value string, err error) error {
	return ierr.WithError(err).
		WithHint("Document service returned an unreadable date").
		WithReportableDetails(map[string]any{
			"field": field,
			"value": value,
		}).
		Mark(ierr.ErrExternalService)
}
