package validator

import (
	"testing"

	ierr "github.com/ivesbwas/bwas/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Tin          string `json:"tin" validate:"required,tin"`
	DocumentType string `json:"documentType" validate:"omitempty,document_type"`
}

func TestValidateRequest(t *testing.T) {
	NewValidator()

	tests := []struct {
		name    string
		req     sample
		wantErr bool
	}{
		{name: "valid", req: sample{Tin: "123456789", DocumentType: "W9"}},
		{name: "valid without document type", req: sample{Tin: "123456789"}},
		{name: "short tin", req: sample{Tin: "12345"}, wantErr: true},
		{name: "missing tin", req: sample{}, wantErr: true},
		{name: "lowercase document type", req: sample{Tin: "123456789", DocumentType: "w9"}, wantErr: true},
		{name: "document type too long", req: sample{Tin: "123456789", DocumentType: "ABCDEFGHIJK"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(tt.req)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, ierr.IsValidation(err))
		})
	}
}
