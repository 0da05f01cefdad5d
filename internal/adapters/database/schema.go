package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/lickingclean/internal/domain/entities"
	"github.com/zatekoja/lickingclean/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/lickingclean/pkg/errors"
)

// Schema creates the two tables the site reads and writes
const Schema = `
CREATE TABLE IF NOT EXISTS providers (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT        NOT NULL,
	bio         TEXT        NOT NULL DEFAULT '',
	rating      SMALLINT    NOT NULL DEFAULT 5 CHECK (rating BETWEEN 1 AND 5),
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS bookings (
	id          BIGSERIAL PRIMARY KEY,
	provider_id BIGINT      NOT NULL REFERENCES providers(id),
	timestamp   TEXT        NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_bookings_provider_id ON bookings(provider_id);
`

// Migrate applies Schema
func Migrate(ctx context.Context, client *postgres.Client) error {
	if _, err := client.DB().ExecContext(ctx, Schema); err != nil {
		return apperrors.NewInternalError("failed to apply schema", err)
	}
	return nil
}

// UpsertProvider inserts or replaces a provider row keyed by ID
func UpsertProvider(ctx context.Context, client *postgres.Client, provider *entities.Provider) error {
	query, args, err := goqu.New("postgres", client.DB()).
		Insert(providersTable).
		Rows(goqu.Record{
			"id":     provider.ID,
			"name":   provider.Name,
			"bio":    provider.Bio,
			"rating": provider.Rating,
		}).
		OnConflict(goqu.DoUpdate("id", goqu.Record{
			"name":   goqu.I("excluded.name"),
			"bio":    goqu.I("excluded.bio"),
			"rating": goqu.I("excluded.rating"),
		})).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build upsert query", err)
	}

	if _, err := client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to upsert provider", err)
	}
	return nil
}
