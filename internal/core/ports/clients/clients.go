// Package clients declares the outbound collaborators the services depend on.
package clients

import (
	"context"

	"github.com/SscSPs/couple_finance_app/internal/core/domain"
)

// CompletionClient sends a single prompt to a language model and returns
// the text of its answer.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string, temperature float64) (string, error)
}

// StatementRenderer turns a settlement statement into a printable document.
type StatementRenderer interface {
	RenderStatement(statement domain.SettlementStatement) ([]byte, error)
}
