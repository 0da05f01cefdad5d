package repositories

import (
	"context"

	"github.com/zatekoja/lickingclean/internal/domain/entities"
)

// ProviderRepository defines the interface for provider data operations
type ProviderRepository interface {
	// GetByID retrieves a provider by ID. An empty result is a NOT_FOUND AppError.
	GetByID(ctx context.Context, id int64) (*entities.Provider, error)
}
