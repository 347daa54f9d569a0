package types

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"resumeparser/internal/errors"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		validate.RegisterStructValidation(validateJobSpecSource, UserAdditionalContext{})
	})
	return validate
}

// validateJobSpecSource enforces that exactly one job-spec carrier is set.
func validateJobSpecSource(sl validator.StructLevel) {
	c := sl.Current().Interface().(UserAdditionalContext)
	hasText := strings.TrimSpace(c.JobSpecText) != ""
	hasFile := strings.TrimSpace(c.JobSpecFileURL) != ""
	switch {
	case hasText && hasFile:
		sl.ReportError(c.JobSpecFileURL, "jobSpecFileUrl", "JobSpecFileURL", "excluded_with", "jobSpecText")
	case !hasText && !hasFile:
		sl.ReportError(c.JobSpecText, "jobSpecText", "JobSpecText", "required_without", "jobSpecFileUrl")
	}
}

// Validate checks the tailoring controls.
func (c UserAdditionalContext) Validate() error {
	if err := getValidator().Struct(c); err != nil {
		return toAppError(errors.ErrCodeInvalidJobContext, "invalid tailoring context", err)
	}
	return nil
}

// Validate checks the job specification shape.
func (j ParsedJobSpec) Validate() error {
	if err := getValidator().Struct(j); err != nil {
		return toAppError(errors.ErrCodeInvalidRequest, "invalid job specification", err)
	}
	return nil
}

func toAppError(code, message string, err error) error {
	appErr := errors.NewValidationError(code, message, err)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s:%s", fe.Field(), fe.Tag()))
		}
		appErr.WithContext("fields", fields)
	}
	return appErr
}
