package fbp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ivesbwas/bwas/internal/config"
	"github.com/ivesbwas/bwas/internal/domain/document"
	ierr "github.com/ivesbwas/bwas/internal/errors"
	"github.com/ivesbwas/bwas/internal/httpclient"
	"github.com/ivesbwas/bwas/internal/integration/base"
	"github.com/ivesbwas/bwas/internal/logger"
	"github.com/ivesbwas/bwas/internal/types"
	"github.com/samber/lo"
)

const serviceName = "document service"

// Client talks to the document-of-record service
type Client struct {
	caller *base.Caller
	logger *logger.Logger
}

var _ document.Gateway = (*Client)(nil)

// NewClient creates a new document service client
func NewClient(cfg *config.Configuration, httpClient httpclient.Client, logger *logger.Logger) *Client {
	return &Client{
		caller: base.NewCaller(serviceName, cfg.Document, httpClient, logger),
		logger: logger,
	}
}

// GetDocument fetches one document. A 404 is reported as ierr.ErrNotFound.
func (c *Client) GetDocument(ctx context.Context, transactionID string) (*document.ExternalDocument, error) {
	if transactionID == "" {
		return nil, ierr.NewError("transaction id is required").
			WithHint("Transaction ID is required").
			Mark(ierr.ErrValidation)
	}

	var payload DocumentPayload
	endpoint := fmt.Sprintf("/documents/%s", url.PathEscape(transactionID))
	if err := c.caller.Do(ctx, http.MethodGet, endpoint, nil, &payload); err != nil {
		if base.IsStatus(err, http.StatusNotFound) {
			return nil, ierr.NewError("document not found").
				WithHintf("Document %s was not found", transactionID).
				WithReportableDetails(map[string]any{
					"transaction_id": transactionID,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, err
	}

	return payload.ToDomain()
}

// GetDocuments lists the documents the service holds for tin
func (c *Client) GetDocuments(ctx context.Context, tin string) ([]*document.ExternalDocument, error) {
	if err := types.ValidateTin("tin", tin); err != nil {
		return nil, err
	}

	var resp DocumentsResponse
	endpoint := "/documents?" + url.Values{"tin": []string{tin}}.Encode()
	if err := c.caller.Do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}

	docs := make([]*document.ExternalDocument, 0, len(resp.Documents))
	for i := range resp.Documents {
		doc, err := resp.Documents[i].ToDomain()
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	c.logger.Debugw("listed documents from document service",
		"tin", types.MaskTin(tin),
		"count", len(docs))
	return docs, nil
}

// Authorize commits a decision. Approvals must carry a signature id,
// rejections must not.
func (c *Client) Authorize(ctx context.Context, req *document.AuthorizeRequest) (*document.ExternalDocument, error) {
	if req == nil {
		return nil, ierr.NewError("authorize request is required").
			WithHint("Authorize request is required").
			Mark(ierr.ErrValidation)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c.logger.Infow("committing authorization decision",
		"transaction_id", req.TransactionID,
		"action", req.Action,
		"tin", types.MaskTin(req.Tin))

	body := &AuthorizeBody{
		Action:      req.Action.String(),
		Tin:         req.Tin,
		SignatureID: lo.Ternary(req.Action.RequiresSignature(), req.SignatureID, ""),
	}

	var payload DocumentPayload
	endpoint := fmt.Sprintf("/documents/%s/authorize", url.PathEscape(req.TransactionID))
	if err := c.caller.Do(ctx, http.MethodPost, endpoint, body, &payload); err != nil {
		c.logger.Errorw("failed to commit authorization decision",
			"transaction_id", req.TransactionID,
			"action", req.Action,
			"error", err)
		return nil, err
	}

	return payload.ToDomain()
}
