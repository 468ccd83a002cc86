package types

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex evt_01HZX3K2N8Q6R7S9T0V1W2X3Y4
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

// GenerateTransactionID returns a new document transaction id.
// Transaction ids are random v4 UUIDs, matching what the document service issues.
func GenerateTransactionID() string {
	return uuid.NewString()
}

// DeriveIntentID builds the intent-to-sign reference for a transaction when
// the caller does not supply one.
func DeriveIntentID(transactionID string) string {
	return fmt.Sprintf("%s-%s", UUID_PREFIX_INTENT, transactionID)
}

const (
	UUID_PREFIX_EVENT  = "evt"
	UUID_PREFIX_INTENT = "intent"
)
