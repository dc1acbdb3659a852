package util

import (
	"fmt"

	"github.com/hieptuanle/baby-tracker/internal/gestation"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ValidateDate checks the YYYY-MM-DD format.
func ValidateDate(dateStr string) error {
	if dateStr == "" {
		return fmt.Errorf("date is empty")
	}
	_, err := gestation.ParseDate(dateStr)
	return err
}

// isoDate is the "isodate" binding rule. Empty strings pass so the rule
// composes with omitempty-style optional fields.
func isoDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == "" || ValidateDate(s) == nil
}

// RegisterValidators installs the custom rules on gin's validator engine.
// Safe to call more than once.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("isodate", isoDate); err != nil {
		return fmt.Errorf("register isodate: %w", err)
	}
	return nil
}
