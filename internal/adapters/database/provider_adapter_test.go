package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/lickingclean/internal/adapters/database"
	"github.com/zatekoja/lickingclean/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/lickingclean/pkg/errors"
)

func setupMockDB(t *testing.T) (*postgres.Client, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return postgres.NewFromDB(db), mock
}

func TestProviderAdapter_GetByID(t *testing.T) {
	t.Run("returns the provider row", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewProviderAdapter(client)
		createdAt := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)

		mock.ExpectQuery(`SELECT "id", "name", "bio", "rating", "created_at" FROM "providers" WHERE \("id" = 1\) LIMIT 1`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "bio", "rating", "created_at"}).
				AddRow(1, "Ana Lopez", "Deep cleaning specialist", 4, createdAt))

		provider, err := adapter.GetByID(context.Background(), 1)

		require.NoError(t, err)
		assert.Equal(t, int64(1), provider.ID)
		assert.Equal(t, "Ana Lopez", provider.Name)
		assert.Equal(t, "Deep cleaning specialist", provider.Bio)
		assert.Equal(t, 4, provider.Rating)
		require.NotNil(t, provider.CreatedAt)
		assert.True(t, createdAt.Equal(*provider.CreatedAt))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("tolerates null bio and created_at", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewProviderAdapter(client)

		mock.ExpectQuery(`FROM "providers"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "bio", "rating", "created_at"}).
				AddRow(1, "Ana Lopez", nil, 5, nil))

		provider, err := adapter.GetByID(context.Background(), 1)

		require.NoError(t, err)
		assert.Empty(t, provider.Bio)
		assert.Nil(t, provider.CreatedAt)
	})

	t.Run("empty result is not found", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewProviderAdapter(client)

		mock.ExpectQuery(`FROM "providers"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "bio", "rating", "created_at"}))

		provider, err := adapter.GetByID(context.Background(), 1)

		assert.Nil(t, provider)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	})

	t.Run("query failure is internal", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewProviderAdapter(client)

		mock.ExpectQuery(`FROM "providers"`).WillReturnError(errors.New("relation \"providers\" does not exist"))

		provider, err := adapter.GetByID(context.Background(), 1)

		assert.Nil(t, provider)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
		assert.Contains(t, err.Error(), "does not exist")
	})
}
