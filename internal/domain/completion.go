package domain

import "context"

// Completer is the shared text-completion contract between layers.
// Implementations wrap an external model API; callers must treat every
// call as a blocking network operation that can fail.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// HealthChecker verifies completion provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
