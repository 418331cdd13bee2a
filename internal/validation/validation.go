// Package validation checks request payloads and normalizes user-supplied
// text before it is stored.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"devconnect/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// Accepted layouts for date fields, most specific first.
var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// messages maps "<json field>.<tag>" to the message returned to clients.
var messages = map[string]string{
	"name.required":         "Name is required",
	"email.required":        "Please include a valid email",
	"email.email":           "Please include a valid email",
	"password.required":     "Password is required",
	"password.min":          "Please enter a password with 6 or more characters",
	"password.max":          "Password must not exceed 72 characters",
	"text.required":         "Text is required",
	"status.required":       "Status is required",
	"skills.required":       "Skills is required",
	"title.required":        "Title is required",
	"company.required":      "Company is required",
	"school.required":       "School is required",
	"degree.required":       "Degree is required",
	"fieldofstudy.required": "Field of study is required",
	"from.required":         "From date is required",
	"from.date":             "From date is invalid",
	"to.date":               "To date is invalid",
	"website.url":           "Website must be a valid URL",
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})
	return v
}

// Struct validates s against its `validate` tags. Failures come back as a
// VALIDATION_ERROR AppError listing every rejected field.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return models.NewValidationError("Invalid request")
	}

	fields := make([]models.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, models.FieldError{
			Param: fe.Field(),
			Msg:   messageFor(fe),
		})
	}
	return models.NewFieldValidationError(fields)
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

// ParseDate accepts an RFC 3339 timestamp or a plain YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// SplitSkills turns "js, node ,html" into ["js", "node", "html"]. Empty
// entries are dropped.
func SplitSkills(s string) []string {
	parts := strings.Split(s, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			skills = append(skills, p)
		}
	}
	return skills
}
