package types

import (
	"regexp"
	"strings"

	ierr "github.com/ivesbwas/bwas/internal/errors"
)

var (
	tinPattern          = regexp.MustCompile(`^\d{9}$`)
	documentTypePattern = regexp.MustCompile(`^[A-Z0-9]{2,10}$`)
)

// IsValidTin reports whether tin is a 9 digit taxpayer identification number
func IsValidTin(tin string) bool {
	if strings.TrimSpace(tin) == "" {
		return false
	}
	return tinPattern.MatchString(tin)
}

// IsValidDocumentType reports whether documentType is a 2-10 character
// uppercase alphanumeric code
func IsValidDocumentType(documentType string) bool {
	if strings.TrimSpace(documentType) == "" {
		return false
	}
	return documentTypePattern.MatchString(documentType)
}

// ValidateTin returns a validation error naming field when tin is malformed
func ValidateTin(field, tin string) error {
	if IsValidTin(tin) {
		return nil
	}
	return ierr.NewError("invalid tin").
		WithHintf("%s must be a 9 digit number", field).
		WithReportableDetails(map[string]any{
			"field": field,
		}).
		Mark(ierr.ErrValidation)
}

// MaskTin keeps the last four digits of a TIN for logging
func MaskTin(tin string) string {
	if len(tin) <= 4 {
		return strings.Repeat("*", len(tin))
	}
	return strings.Repeat("*", len(tin)-4) + tin[len(tin)-4:]
}
