package signature

import (
	"time"
)

// Request identifies who is signing what
type Request struct {
	UUID          string
	TransactionID string
	UserName      string
	Tin           string
	FormType      string
	AppName       string
	IntentID      string
}

// SignatureRecord is the proof of electronic signature issued by the
// signature service. It is handed to the document service and never persisted.
type SignatureRecord struct {
	SignatureID     string
	UUID            string
	TransactionID   string
	UserName        string
	Tin             string
	FormType        string
	AppName         string
	IntentID        string
	SignatureDate   time.Time
	SignatureStatus string
	SignatureValue  string
}
