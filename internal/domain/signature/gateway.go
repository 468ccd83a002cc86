package signature

import (
	"context"
)

// Gateway issues electronic signatures. Every call issues a new signature.
type Gateway interface {
	GetElectronicSignature(ctx context.Context, req *Request) (*SignatureRecord, error)
}
