package analyze

import (
	"context"

	"github.com/civicpulse/insight/internal/domain"
)

// Completer is the completion provider consumed by the analyzer.
type Completer = domain.Completer

// SummaryCache memoizes discussion summaries by input fingerprint.
type SummaryCache interface {
	Get(ctx context.Context, input string) (string, bool)
	Put(ctx context.Context, input, value string)
}
