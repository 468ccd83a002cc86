package dto

import (
	"github.com/ivesbwas/bwas/internal/types"
)

// DriftKind names how a document differs between the local store and the
// document service
type DriftKind string

const (
	DriftMissingLocal   DriftKind = "missing_local"
	DriftMissingRemote  DriftKind = "missing_remote"
	DriftStatusMismatch DriftKind = "status_mismatch"
)

// ReconcileRequest is the query of GET /authorizations/reconcile
type ReconcileRequest struct {
	Tin string `form:"tin"`
}

type DriftEntry struct {
	TransactionID string                    `json:"transactionId"`
	Kind          DriftKind                 `json:"kind"`
	LocalStatus   types.AuthorizationStatus `json:"localStatus,omitempty"`
	RemoteStatus  types.AuthorizationStatus `json:"remoteStatus,omitempty"`
}

// ReconciliationResponse reports drift for one TIN
type ReconciliationResponse struct {
	Tin         string       `json:"tin"`
	LocalCount  int          `json:"localCount"`
	RemoteCount int          `json:"remoteCount"`
	InSync      bool         `json:"inSync"`
	Drift       []DriftEntry `json:"drift"`
	CheckedAt   string       `json:"checkedAt"`
}
