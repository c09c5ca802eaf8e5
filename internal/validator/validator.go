// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/currency"

	"ledgerd/internal/models"
	"ledgerd/internal/recurrence"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn registers the custom validators on v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("iso4217", validateISO4217)
	_ = v.RegisterValidation("transaction_type", validateTransactionType)
	_ = v.RegisterValidation("frequency_kind", validateFrequencyKind)
	_ = v.RegisterValidation("civil_date", validateCivilDate)
}

// validateISO4217 accepts upper-case three letter codes known to x/text.
// ParseISO alone is case-insensitive, so the case is checked first.
func validateISO4217(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	_, err := currency.ParseISO(code)
	return err == nil
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch models.TransactionType(fl.Field().String()) {
	case models.TransactionTypeIncome, models.TransactionTypeExpense:
		return true
	}
	return false
}

func validateFrequencyKind(fl validator.FieldLevel) bool {
	return recurrence.Kind(fl.Field().String()).Valid()
}

func validateCivilDate(fl validator.FieldLevel) bool {
	_, err := recurrence.ParseDate(fl.Field().String())
	return err == nil
}
