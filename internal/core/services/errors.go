package services

import (
	"fmt"

	"github.com/SscSPs/couple_finance_app/internal/apperrors"
)

var errNoAuthorizer = fmt.Errorf("%w: no group authorizer configured", apperrors.ErrForbidden)

func validationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{apperrors.ErrValidation}, args...)...)
}

var errAssistantUnavailable = fmt.Errorf("%w: language model is not configured", apperrors.ErrInternal)
