// Package validation holds the input contract of every mutation. Each method
// takes the raw key-value input of one operation and returns either a typed,
// normalized value or a *domain.Error of kind validation that lists every
// failed field.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/Harshitk-cp/facturador/internal/domain"
	"github.com/go-playground/validator/v10"
)

// Input is raw operation input. Absent and empty values are equivalent.
type Input map[string]string

// Get returns the trimmed value for key.
func (in Input) Get(key string) string {
	return strings.TrimSpace(in[key])
}

// Raw returns the value for key untouched. Used for secrets.
func (in Input) Raw(key string) string {
	return in[key]
}

const bcryptMaxBytes = 72

var amountPattern = regexp.MustCompile(`^\d{1,13}(\.\d{1,2})?$`)

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report input keys, not Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= bcryptMaxBytes
	})
	_ = v.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		return amountPattern.MatchString(fl.Field().String())
	})

	return &Validator{validate: v}
}

// check runs struct validation and folds any failures, plus extra, into a
// single validation error.
func (v *Validator) check(s any, extra ...domain.FieldError) error {
	var fields []domain.FieldError

	err := v.validate.Struct(s)
	if err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return domain.PersistenceFailure(err)
		}
		for _, fe := range verrs {
			fields = append(fields, domain.FieldError{Field: fieldPath(fe), Message: message(fe)})
		}
	}
	fields = append(fields, extra...)

	if len(fields) == 0 {
		return nil
	}
	return domain.ValidationFailed(fields)
}

// fieldPath strips the root struct name from the namespace so nested item
// errors read as items[0].quantity.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	f := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return f + " is required"
	case "email":
		return f + " must be a valid email address"
	case "min":
		if fe.Kind() == reflect.Slice {
			return f + " must contain at least " + fe.Param() + " item(s)"
		}
		return f + " must be at least " + fe.Param() + " characters"
	case "max":
		return f + " must be at most " + fe.Param() + " characters"
	case "bcryptlen":
		return f + " must be at most 72 bytes"
	case "oneof":
		return f + " must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "uuid":
		return f + " must be a valid id"
	case "datetime":
		return f + " must be a date in YYYY-MM-DD format"
	case "amount":
		return f + " must be a non-negative amount with at most two decimals"
	case "gte":
		return f + " must be at least " + fe.Param()
	case "lte":
		return f + " must be at most " + fe.Param()
	default:
		return f + " is invalid"
	}
}
