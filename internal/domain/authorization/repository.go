package authorization

import (
	"context"
)

// Repository is the authorization store
type Repository interface {
	// ListByTin returns one page of documents for tin, newest CreatedDate
	// first. Pages are 0-based; a page past the end is empty.
	ListByTin(ctx context.Context, tin string, page int) ([]*AuthorizationDocument, error)

	// Get returns the document or nil, nil when it does not exist
	Get(ctx context.Context, transactionID string) (*AuthorizationDocument, error)

	// Save upserts by TransactionID and returns the persisted document.
	// CreatedDate of an existing row is preserved.
	Save(ctx context.Context, doc *AuthorizationDocument) (*AuthorizationDocument, error)

	// Delete removes a document, deleting a missing document is not an error
	Delete(ctx context.Context, transactionID string) error
}
