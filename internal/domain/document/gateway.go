package document

import (
	"context"
)

// Gateway talks to the document-of-record service.
// GetDocument reports a missing document with ierr.ErrNotFound and every
// other failure with ierr.ErrExternalService.
type Gateway interface {
	GetDocument(ctx context.Context, transactionID string) (*ExternalDocument, error)
	GetDocuments(ctx context.Context, tin string) ([]*ExternalDocument, error)
	Authorize(ctx context.Context, req *AuthorizeRequest) (*ExternalDocument, error)
}
