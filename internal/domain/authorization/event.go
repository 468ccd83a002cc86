package authorization

import (
	"time"

	"github.com/ivesbwas/bwas/internal/types"
)

const (
	EventAuthorizationApproved = "authorization.approved"
	EventAuthorizationRejected = "authorization.rejected"
)

// DecisionEvent announces a committed authorization decision
type DecisionEvent struct {
	ID                  string                    `json:"id"`
	EventName           string                    `json:"event_name"`
	TransactionID       string                    `json:"transaction_id"`
	Tin                 string                    `json:"tin"`
	TinType             types.TinType             `json:"tin_type"`
	DocumentType        string                    `json:"document_type"`
	Action              types.AuthorizationAction `json:"action"`
	AuthorizationStatus types.AuthorizationStatus `json:"authorization_status"`
	UserID              string                    `json:"user_id"`
	SignatureID         string                    `json:"signature_id,omitempty"`
	DecidedAt           time.Time                 `json:"decided_at"`
}

// NewDecisionEvent builds the event for a persisted decision
func NewDecisionEvent(doc *AuthorizationDocument, action types.AuthorizationAction, userID, signatureID string) *DecisionEvent {
	name := EventAuthorizationRejected
	if action == types.AuthorizationActionApprove {
		name = EventAuthorizationApproved
	}
	return &DecisionEvent{
		ID:                  types.GenerateUUIDWithPrefix(types.UUID_PREFIX_EVENT),
		EventName:           name,
		TransactionID:       doc.TransactionID,
		Tin:                 doc.Tin,
		TinType:             doc.TinType,
		DocumentType:        doc.DocumentType,
		Action:              action,
		AuthorizationStatus: doc.AuthorizationStatus,
		UserID:              userID,
		SignatureID:         signatureID,
		DecidedAt:           doc.UpdatedDate,
	}
}
