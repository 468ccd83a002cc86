package dto

import (
	"github.com/ivesbwas/bwas/internal/domain/authorization"
	"github.com/ivesbwas/bwas/internal/types"
	"github.com/ivesbwas/bwas/internal/validator"
	"github.com/samber/lo"
)

// ListAuthorizationsRequest is the query of GET /authorizations
type ListAuthorizationsRequest struct {
	Tin  string `form:"tin"`
	Page int    `form:"page"`
}

// GetAuthorizationRequest is the query of GET /authorizations/:transaction_id
type GetAuthorizationRequest struct {
	Tin     string        `form:"tin"`
	TinType types.TinType `form:"tinType"`
}

// AuthorizeRequest carries an approve or reject decision for one document.
// It binds from the query string or from a JSON body with the same names.
type AuthorizeRequest struct {
	Action        types.AuthorizationAction `json:"action" form:"action" validate:"required"`
	TransactionID string                    `json:"transactionId" form:"transactionId" validate:"required"`
	DocumentTin   string                    `json:"documentTin" form:"documentTin" validate:"required,tin"`
	TinType       types.TinType             `json:"tinType" form:"tinType" validate:"omitempty,oneof=INDIVIDUAL BUSINESS"`
	UserID        string                    `json:"userId" form:"userId" validate:"required"`
	UserTin       string                    `json:"userTin" form:"userTin" validate:"required,tin"`
	UserName      string                    `json:"userName,omitempty" form:"userName"`
	IntentID      string                    `json:"intentId,omitempty" form:"intentId"`
}

// Validate checks the request shape. The action itself is checked once the
// document has been resolved.
func (r *AuthorizeRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// SignerName is the name recorded on the signature, the user id when no
// name was given
func (r *AuthorizeRequest) SignerName() string {
	return lo.Ternary(r.UserName != "", r.UserName, r.UserID)
}

// AuthorizationDocumentResponse is the wire shape of a document
type AuthorizationDocumentResponse struct {
	TransactionID       string                    `json:"transactionId"`
	Tin                 string                    `json:"tin"`
	TinType             types.TinType             `json:"tinType"`
	Status              string                    `json:"status"`
	CreatedDate         string                    `json:"createdDate"`
	UpdatedDate         string                    `json:"updatedDate"`
	DocumentType        string                    `json:"documentType"`
	DocumentStatus      string                    `json:"documentStatus"`
	AuthorizationStatus types.AuthorizationStatus `json:"authorizationStatus"`
}

func NewAuthorizationDocumentResponse(d *authorization.AuthorizationDocument) *AuthorizationDocumentResponse {
	if d == nil {
		return nil
	}
	return &AuthorizationDocumentResponse{
		TransactionID:       d.TransactionID,
		Tin:                 d.Tin,
		TinType:             d.TinType,
		Status:              d.Status,
		CreatedDate:         types.FormatDateTime(d.CreatedDate),
		UpdatedDate:         types.FormatDateTime(d.UpdatedDate),
		DocumentType:        d.DocumentType,
		DocumentStatus:      d.DocumentStatus,
		AuthorizationStatus: d.AuthorizationStatus,
	}
}

func NewAuthorizationDocumentListResponse(docs []*authorization.AuthorizationDocument) []*AuthorizationDocumentResponse {
	return lo.Map(docs, func(d *authorization.AuthorizationDocument, _ int) *AuthorizationDocumentResponse {
		return NewAuthorizationDocumentResponse(d)
	})
}
