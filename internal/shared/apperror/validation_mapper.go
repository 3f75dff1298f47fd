package apperror

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	caser := cases.Title(language.English)
	return caser.String(s)
}

// MapValidationError turns the first validator error into an AppError with a
// human-readable field name (e.g. "Start Date is required").
func MapValidationError(err error) error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		e := errs[0]
		humanReadableField := formatFieldName(e.Field())

		switch e.Tag() {
		case "required":
			return RequiredField(humanReadableField)
		default:
			return InvalidField(humanReadableField)
		}
	}

	return New(
		CodeInvalidInput,
		"Invalid input",
		http.StatusBadRequest,
	)
}
