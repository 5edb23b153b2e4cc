package views

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// checkPayload validates a write payload before any network call. Returns
// per-field messages keyed by struct field name; nil means the payload is
// good to send.
func checkPayload(v *validator.Validate, payload any) map[string]string {
	err := v.Struct(payload)
	if err == nil {
		return nil
	}

	fieldErrs := make(map[string]string)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fieldErrs["form"] = err.Error()
		return fieldErrs
	}

	for _, fe := range verrs {
		if _, seen := fieldErrs[fe.Field()]; !seen {
			fieldErrs[fe.Field()] = fmt.Sprintf("failed on '%s' validation", fe.Tag())
		}
	}
	return fieldErrs
}

// parseAmount reads a money input; empty counts as zero
func parseAmount(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}
