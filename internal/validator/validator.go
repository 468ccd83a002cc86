package validator

import (
	"github.com/go-playground/validator/v10"
	ierr "github.com/ivesbwas/bwas/internal/errors"
	"github.com/ivesbwas/bwas/internal/types"
)

var validate *validator.Validate

// NewValidator builds the shared validator and registers the domain tags:
// tin (9 digits) and document_type (2-10 uppercase alphanumerics).
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("tin", func(fl validator.FieldLevel) bool {
		return types.IsValidTin(fl.Field().String())
	})
	_ = v.RegisterValidation("document_type", func(fl validator.FieldLevel) bool {
		return types.IsValidDocumentType(fl.Field().String())
	})
	validate = v
	return validate
}

func GetValidator() *validator.Validate {
	return validate
}

func ValidateRequest(req interface{}) error {
	if validate == nil {
		return ierr.NewError("validator not initialized").
			WithHint("Validator must be initialized before using it").
			Mark(ierr.ErrSystem)
	}

	if err := validate.Struct(req); err != nil {
		details := make(map[string]any)
		var validateErrs validator.ValidationErrors
		if ierr.As(err, &validateErrs) {
			for _, err := range validateErrs {
				details[err.Field()] = describe(err)
			}
		}
		return ierr.WithError(err).
			WithHint("Request validation failed").
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "tin":
		return "must be a 9 digit number"
	case "document_type":
		return "must be 2-10 uppercase letters or digits"
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return fe.Error()
	}
}
