package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/zatekoja/lickingclean/internal/domain/entities"
	"github.com/zatekoja/lickingclean/internal/domain/repositories"
	"github.com/zatekoja/lickingclean/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/lickingclean/pkg/errors"
)

const providersTable = "providers"

// ProviderAdapter implements the ProviderRepository interface
type ProviderAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewProviderAdapter creates a new provider adapter
func NewProviderAdapter(client *postgres.Client) repositories.ProviderRepository {
	return &ProviderAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByID retrieves a single provider row by ID
func (a *ProviderAdapter) GetByID(ctx context.Context, id int64) (*entities.Provider, error) {
	query, args, err := a.db.Select("id", "name", "bio", "rating", "created_at").
		From(providersTable).
		Where(goqu.Ex{"id": id}).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	provider := &entities.Provider{}
	var bio sql.NullString
	var createdAt sql.NullTime

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&provider.ID,
		&provider.Name,
		&bio,
		&provider.Rating,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("provider with id %d not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get provider", err)
	}

	provider.Bio = bio.String
	if createdAt.Valid {
		provider.CreatedAt = &createdAt.Time
	}

	return provider, nil
}
