package chroma

import (
	"context"
	"errors"
	"net"

	"github.com/quizforge/quizforge/internal/infrastructure/resilience"
)

// classifyStoreError marks transport-level failures as retryable. HTTP
// error statuses from the server are final: retrying a rejected write
// wastes the backoff budget.
func classifyStoreError(err error) resilience.Classification {
	if err == nil {
		return resilience.Classification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.Classification{}
	}
	if resilience.IsCircuitOpen(err) {
		return resilience.Classification{Retryable: true, CountsAsFailure: true}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.Classification{Retryable: true, CountsAsFailure: true}
	}

	return resilience.Classification{CountsAsFailure: true}
}
