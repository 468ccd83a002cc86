package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ivesbwas/bwas/internal/domain/document"
	"github.com/ivesbwas/bwas/internal/domain/signature"
	ierr "github.com/ivesbwas/bwas/internal/errors"
	"github.com/ivesbwas/bwas/internal/types"
)

// FakeSignatureGateway implements signature.Gateway and records its calls
type FakeSignatureGateway struct {
	mu       sync.Mutex
	requests []*signature.Request
	nextID   string
	err      error
	block    bool
}

var (
	_ signature.Gateway = (*FakeSignatureGateway)(nil)
	_ document.Gateway  = (*FakeDocumentGateway)(nil)
)

// NewFakeSignatureGateway issues sig-1, sig-2, ... unless configured otherwise
func NewFakeSignatureGateway() *FakeSignatureGateway {
	return &FakeSignatureGateway{}
}

// IssueID makes the next signatures carry id
func (g *FakeSignatureGateway) IssueID(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID = id
}

// Fail makes every following call return err
func (g *FakeSignatureGateway) Fail(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.err = err
}

// Block makes calls wait until their context is done
func (g *FakeSignatureGateway) Block() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.block = true
}

func (g *FakeSignatureGateway) GetElectronicSignature(ctx context.Context, req *signature.Request) (*signature.SignatureRecord, error) {
	g.mu.Lock()
	copied := *req
	g.requests = append(g.requests, &copied)
	n := len(g.requests)
	id, err, block := g.nextID, g.err, g.block
	g.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ierr.FromContext(ctx, "signature request")
	}
	if err != nil {
		return nil, err
	}
	if id == "" {
		id = fmt.Sprintf("sig-%d", n)
	}
	return &signature.SignatureRecord{
		SignatureID:     id,
		UUID:            req.UUID,
		TransactionID:   req.TransactionID,
		UserName:        req.UserName,
		Tin:             req.Tin,
		FormType:        req.FormType,
		AppName:         req.AppName,
		IntentID:        req.IntentID,
		SignatureDate:   time.Now().UTC(),
		SignatureStatus: "SIGNED",
	}, nil
}

// Requests returns the recorded requests
func (g *FakeSignatureGateway) Requests() []*signature.Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*signature.Request, len(g.requests))
	copy(out, g.requests)
	return out
}

// FakeDocumentGateway implements document.Gateway over a map of remote
// documents and records authorize calls
type FakeDocumentGateway struct {
	mu         sync.Mutex
	documents  map[string]*document.ExternalDocument
	authorized []*document.AuthorizeRequest
	err        error
	statusFn   func(req *document.AuthorizeRequest) types.AuthorizationStatus
	afterCall  func()
}

// NewFakeDocumentGateway creates an empty fake document service
func NewFakeDocumentGateway() *FakeDocumentGateway {
	return &FakeDocumentGateway{documents: map[string]*document.ExternalDocument{}}
}

// Put stores a remote document
func (g *FakeDocumentGateway) Put(docs ...*document.ExternalDocument) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, d := range docs {
		c := *d
		g.documents[d.TransactionID] = &c
	}
}

// Fail makes every following call return err
func (g *FakeDocumentGateway) Fail(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.err = err
}

// RespondWithStatus overrides the authorization status Authorize reports
func (g *FakeDocumentGateway) RespondWithStatus(fn func(req *document.AuthorizeRequest) types.AuthorizationStatus) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statusFn = fn
}

// AfterAuthorize runs fn once Authorize has committed, before it returns
func (g *FakeDocumentGateway) AfterAuthorize(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.afterCall = fn
}

func (g *FakeDocumentGateway) GetDocument(ctx context.Context, transactionID string) (*document.ExternalDocument, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	d, ok := g.documents[transactionID]
	if !ok {
		return nil, ierr.NewError("document not found").
			WithHint("Document was not found").
			Mark(ierr.ErrNotFound)
	}
	c := *d
	return &c, nil
}

func (g *FakeDocumentGateway) GetDocuments(ctx context.Context, tin string) ([]*document.ExternalDocument, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	out := make([]*document.ExternalDocument, 0)
	for _, d := range g.documents {
		if d.Tin == tin {
			c := *d
			out = append(out, &c)
		}
	}
	return out, nil
}

func (g *FakeDocumentGateway) Authorize(ctx context.Context, req *document.AuthorizeRequest) (*document.ExternalDocument, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	copied := *req
	g.authorized = append(g.authorized, &copied)
	err, statusFn, after := g.err, g.statusFn, g.afterCall
	g.mu.Unlock()

	if err != nil {
		return nil, err
	}

	status := req.Action.ResultingStatus()
	if statusFn != nil {
		status = statusFn(req)
	}

	resp := &document.ExternalDocument{
		TransactionID:       req.TransactionID,
		SignatureID:         req.SignatureID,
		AuthorizationStatus: status,
		UpdatedDate:         time.Now().UTC(),
	}
	if after != nil {
		after()
	}
	return resp, nil
}

// AuthorizeCalls returns the recorded authorize requests
func (g *FakeDocumentGateway) AuthorizeCalls() []*document.AuthorizeRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*document.AuthorizeRequest, len(g.authorized))
	copy(out, g.authorized)
	return out
}
