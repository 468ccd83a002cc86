package essar

import (
	"context"
	"net/http"
	"time"

	"github.com/ivesbwas/bwas/internal/config"
	"github.com/ivesbwas/bwas/internal/domain/signature"
	ierr "github.com/ivesbwas/bwas/internal/errors"
	"github.com/ivesbwas/bwas/internal/httpclient"
	"github.com/ivesbwas/bwas/internal/integration/base"
	"github.com/ivesbwas/bwas/internal/logger"
	"github.com/ivesbwas/bwas/internal/types"
)

const serviceName = "signature service"

// Client issues electronic signatures through the signature service
type Client struct {
	caller *base.Caller
	logger *logger.Logger
}

var _ signature.Gateway = (*Client)(nil)

// NewClient creates a new signature service client
func NewClient(cfg *config.Configuration, httpClient httpclient.Client, logger *logger.Logger) *Client {
	return &Client{
		caller: base.NewCaller(serviceName, cfg.Signature, httpClient, logger),
		logger: logger,
	}
}

// GetElectronicSignature requests a new signature for req. The returned
// record echoes the request identity with the issued signature id.
func (c *Client) GetElectronicSignature(ctx context.Context, req *signature.Request) (*signature.SignatureRecord, error) {
	if req == nil || req.TransactionID == "" || req.UUID == "" {
		return nil, ierr.NewError("signature request is incomplete").
			WithHint("Signer and transaction are required to request a signature").
			Mark(ierr.ErrValidation)
	}

	c.logger.Infow("requesting electronic signature",
		"transaction_id", req.TransactionID,
		"tin", types.MaskTin(req.Tin),
		"form_type", req.FormType,
		"intent_id", req.IntentID)

	var resp SignatureResponse
	err := c.caller.Do(ctx, http.MethodPost, "/signatures", &SignatureRequest{
		UUID:          req.UUID,
		TransactionID: req.TransactionID,
		UserName:      req.UserName,
		Tin:           req.Tin,
		FormType:      req.FormType,
		AppName:       req.AppName,
		IntentID:      req.IntentID,
	}, &resp)
	if err != nil {
		c.logger.Errorw("failed to obtain electronic signature",
			"transaction_id", req.TransactionID,
			"error", err)
		return nil, err
	}

	if resp.SignatureID == "" {
		c.logger.Errorw("signature service returned no signature id",
			"transaction_id", req.TransactionID,
			"status", resp.Status)
		return nil, ierr.NewError("signature response missing signature id").
			WithHint("Signature service did not issue a signature").
			WithReportableDetails(map[string]any{
				"service": serviceName,
				"status":  resp.Status,
			}).
			Mark(ierr.ErrExternalService)
	}

	c.logger.Infow("obtained electronic signature",
		"transaction_id", req.TransactionID,
		"signature_id", resp.SignatureID)

	return &signature.SignatureRecord{
		SignatureID:     resp.SignatureID,
		UUID:            req.UUID,
		TransactionID:   req.TransactionID,
		UserName:        req.UserName,
		Tin:             req.Tin,
		FormType:        req.FormType,
		AppName:         req.AppName,
		IntentID:        req.IntentID,
		SignatureDate:   time.Now().UTC(),
		SignatureStatus: resp.Status,
		SignatureValue:  resp.SignatureValue,
	}, nil
}
