package participant

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is safe for concurrent use and caches struct metadata.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON names so errors match the request payload.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the fields of a new participant.
func Validate(f Fields) error {
	return toValidationError(validate.Struct(f))
}

// ValidatePatch checks that every field present in the patch is non-empty
// and that no required field was set to null.
func ValidatePatch(p Patch) error {
	err := toValidationError(validate.Struct(p))
	if len(p.nulled) == 0 {
		return err
	}
	var verr *ValidationError
	if err != nil && !errors.As(err, &verr) {
		return err
	}
	if verr == nil {
		verr = &ValidationError{}
	}
	for _, name := range p.nulled {
		verr.Fields = append(verr.Fields, FieldError{Field: name, Rule: "required"})
	}
	return verr
}

func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Rule: fe.Tag()})
	}
	return out
}
