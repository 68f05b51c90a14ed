package middleware

import (
	"fmt"

	"github.com/SscSPs/couple_finance_app/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators installs the domain enum validators on gin's binding
// engine so request DTOs can use them in `binding` tags.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
	}
	return registerDomainValidators(v)
}

func registerDomainValidators(v *validator.Validate) error {
	validators := map[string]validator.Func{
		"transaction_type": func(fl validator.FieldLevel) bool {
			return domain.TransactionType(fl.Field().String()).IsValid()
		},
		"split_kind": func(fl validator.FieldLevel) bool {
			return domain.SplitKind(fl.Field().String()).IsValid()
		},
		"account_type": func(fl validator.FieldLevel) bool {
			return domain.FinancialAccountType(fl.Field().String()).IsValid()
		},
		"privacy_level": func(fl validator.FieldLevel) bool {
			return domain.PrivacyLevel(fl.Field().String()).IsValid()
		},
	}
	for tag, fn := range validators {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %s validator: %w", tag, err)
		}
	}
	return nil
}
