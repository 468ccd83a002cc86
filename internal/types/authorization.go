package types

import (
	ierr "github.com/ivesbwas/bwas/internal/errors"
	"github.com/samber/lo"
)

// TinType identifies what kind of taxpayer a TIN belongs to
type TinType string

const (
	TinTypeIndividual TinType = "INDIVIDUAL"
	TinTypeBusiness   TinType = "BUSINESS"
)

func (t TinType) String() string {
	return string(t)
}

func (t TinType) Validate() error {
	allowed := []TinType{TinTypeIndividual, TinTypeBusiness}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid tin type").
			WithHintf("TIN type must be one of %s or %s", TinTypeIndividual, TinTypeBusiness).
			WithReportableDetails(map[string]any{
				"tin_type": t,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// AuthorizationStatus is the decision state of a document.
// PENDING is the only non-terminal value.
type AuthorizationStatus string

const (
	AuthorizationStatusPending  AuthorizationStatus = "PENDING"
	AuthorizationStatusApproved AuthorizationStatus = "APPROVED"
	AuthorizationStatusRejected AuthorizationStatus = "REJECTED"
)

func (s AuthorizationStatus) String() string {
	return string(s)
}

// IsTerminal reports whether a decision has already been recorded
func (s AuthorizationStatus) IsTerminal() bool {
	return s == AuthorizationStatusApproved || s == AuthorizationStatusRejected
}

func (s AuthorizationStatus) Validate() error {
	allowed := []AuthorizationStatus{
		AuthorizationStatusPending,
		AuthorizationStatusApproved,
		AuthorizationStatusRejected,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid authorization status").
			WithHint("Invalid authorization status").
			WithReportableDetails(map[string]any{
				"authorization_status": s,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// AuthorizationAction is the decision a user submits for a pending document
type AuthorizationAction string

const (
	AuthorizationActionApprove AuthorizationAction = "APPROVE"
	AuthorizationActionReject  AuthorizationAction = "REJECT"
)

func (a AuthorizationAction) String() string {
	return string(a)
}

func (a AuthorizationAction) Validate() error {
	allowed := []AuthorizationAction{AuthorizationActionApprove, AuthorizationActionReject}
	if !lo.Contains(allowed, a) {
		return ierr.NewError("invalid authorization action").
			WithHintf("Action must be one of %s or %s", AuthorizationActionApprove, AuthorizationActionReject).
			WithReportableDetails(map[string]any{
				"action": a,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// RequiresSignature reports whether the action needs an electronic signature
func (a AuthorizationAction) RequiresSignature() bool {
	return a == AuthorizationActionApprove
}

// ResultingStatus is the authorization status a document ends in once the
// action has been committed.
func (a AuthorizationAction) ResultingStatus() AuthorizationStatus {
	switch a {
	case AuthorizationActionApprove:
		return AuthorizationStatusApproved
	case AuthorizationActionReject:
		return AuthorizationStatusRejected
	default:
		return ""
	}
}
