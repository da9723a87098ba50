package httpadapter

import (
	"context"
	"errors"
	"net/http"

	"github.com/quizforge/quizforge/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoProvider):
		return http.StatusServiceUnavailable
	case domain.IsKind(err, domain.ErrProviderUnreachable):
		return http.StatusBadGateway
	case domain.IsKind(err, domain.ErrModelNotFound):
		return http.StatusBadGateway
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
