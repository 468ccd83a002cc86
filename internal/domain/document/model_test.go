package document

import (
	"testing"
	"time"

	ierr "github.com/ivesbwas/bwas/internal/errors"
	"github.com/ivesbwas/bwas/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestAuthorizeRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     AuthorizeRequest
		wantErr bool
	}{
		{
			name: "approve with signature",
			req:  AuthorizeRequest{Action: types.AuthorizationActionApprove, TransactionID: "tx-1", Tin: "123456789", SignatureID: "sig-1"},
		},
		{
			name:    "approve without signature",
			req:     AuthorizeRequest{Action: types.AuthorizationActionApprove, TransactionID: "tx-1", Tin: "123456789"},
			wantErr: true,
		},
		{
			name: "reject without signature",
			req:  AuthorizeRequest{Action: types.AuthorizationActionReject, TransactionID: "tx-1", Tin: "123456789"},
		},
		{
			name:    "reject with signature",
			req:     AuthorizeRequest{Action: types.AuthorizationActionReject, TransactionID: "tx-1", Tin: "123456789", SignatureID: "sig-1"},
			wantErr: true,
		},
		{
			name:    "unknown action",
			req:     AuthorizeRequest{Action: "ESCALATE", TransactionID: "tx-1", Tin: "123456789"},
			wantErr: true,
		},
		{
			name:    "bad authorizer tin",
			req:     AuthorizeRequest{Action: types.AuthorizationActionReject, TransactionID: "tx-1", Tin: "12"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.True(t, ierr.IsValidation(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestToAuthorizationDocument(t *testing.T) {
	now := time.Now().UTC()
	ext := &ExternalDocument{
		TransactionID:       "tx-1",
		Tin:                 "123456789",
		TinType:             types.TinTypeBusiness,
		DocumentType:        "W8BEN",
		AuthorizationStatus: types.AuthorizationStatusApproved,
		SignatureID:         "sig-1",
		CreatedDate:         now,
		UpdatedDate:         now,
		DocumentContent:     "<pdf>",
	}

	doc := ext.ToAuthorizationDocument()
	assert.Equal(t, "tx-1", doc.TransactionID)
	assert.Equal(t, types.TinTypeBusiness, doc.TinType)
	assert.Equal(t, types.AuthorizationStatusApproved, doc.AuthorizationStatus)
	assert.Equal(t, now, doc.CreatedDate)

	var nilDoc *ExternalDocument
	assert.Nil(t, nilDoc.ToAuthorizationDocument())
}
