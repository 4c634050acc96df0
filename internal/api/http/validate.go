package http

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/mind-engage/quizsystem/internal/errors"
	"github.com/mind-engage/quizsystem/internal/httpx"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("password", validPassword); err != nil {
		panic(err)
	}
	return v
}

// validPassword wants 6 to 72 bytes with an uppercase letter and one of
// !@#$%^&*. bcrypt ignores anything past 72 bytes.
func validPassword(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) < 6 || len(s) > 72 {
		return false
	}
	return strings.ContainsAny(s, "!@#$%^&*") && strings.IndexFunc(s, unicode.IsUpper) >= 0
}

func validateRequest(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.Internal(err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return errors.New(errors.CodeValidationFailed,
		errors.WithMessagef("invalid fields: %s", strings.Join(fields, ", ")))
}

// decode reads a JSON body into dst and validates it.
func decode(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := httpx.DecodeJSON(r, dst); err != nil {
		return err
	}
	return validateRequest(dst)
}
