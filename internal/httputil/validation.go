package httputil

import (
	"errors"
	"net/http"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation"
)

// FieldErrors flattens ozzo validation errors into a stable, field-sorted list.
// The second result is false when err carries no validation errors.
func FieldErrors(err error) ([]FieldError, bool) {
	var verrs validation.Errors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return nil, false
	}

	fields := make([]string, 0, len(verrs))
	for field := range verrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	out := make([]FieldError, 0, len(fields))
	for _, field := range fields {
		fe := verrs[field]
		if fe == nil {
			continue
		}
		// nested errors (e.g. social.github) are flattened with a dotted path
		var nested validation.Errors
		if errors.As(fe, &nested) {
			sub, _ := FieldErrors(nested)
			for _, s := range sub {
				out = append(out, FieldError{Msg: s.Msg, Field: field + "." + s.Field})
			}
			continue
		}
		out = append(out, FieldError{Msg: fe.Error(), Field: field})
	}
	return out, len(out) > 0
}

// RespondValidation writes a 400 with field-level messages. It reports false,
// writing nothing, when err is not a validation failure.
func RespondValidation(w http.ResponseWriter, err error) bool {
	errs, ok := FieldErrors(err)
	if !ok {
		return false
	}
	RespondErrors(w, errs, http.StatusBadRequest)
	return true
}
