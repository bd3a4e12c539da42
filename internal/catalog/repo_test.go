package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cinespark/cinespark-backend/pkg/db/models"
	"github.com/cinespark/cinespark-backend/pkg/enums"
	"github.com/cinespark/cinespark-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:catalog_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS content_items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  genre TEXT NOT NULL,
  type TEXT NOT NULL,
  release_year INTEGER NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  image_url TEXT NOT NULL DEFAULT '',
  price_per_day INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedItem(t *testing.T, db *gorm.DB, title, genre string, contentType enums.ContentType, year int, createdAt time.Time) *models.ContentItem {
	t.Helper()
	item := &models.ContentItem{
		Title:       title,
		Genre:       genre,
		Type:        contentType,
		ReleaseYear: year,
		Description: fmt.Sprintf("Sinopsis de %s", title),
		PricePerDay: 5000,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func TestRepositoryListFilters(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	seedItem(t, db, "La Tormenta", "Drama", enums.ContentTypeFilm, 2020, base)
	seedItem(t, db, "Invasión Lunar", "Sci-Fi", enums.ContentTypeFilm, 2023, base.Add(time.Hour))
	seedItem(t, db, "Reino Perdido", "Fantasy", enums.ContentTypeGame, 2023, base.Add(2*time.Hour))

	items, _, err := repo.List(ctx, ListInput{Filters: ListFilters{Query: "lunar"}})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Invasión Lunar", items[0].Title)

	items, _, err = repo.List(ctx, ListInput{Filters: ListFilters{Query: "sinopsis"}})
	require.NoError(t, err)
	assert.Len(t, items, 3, "query should match descriptions too")

	items, _, err = repo.List(ctx, ListInput{Filters: ListFilters{Genre: "Drama"}})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "La Tormenta", items[0].Title)

	items, _, err = repo.List(ctx, ListInput{Filters: ListFilters{Year: 2023}})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, _, err = repo.List(ctx, ListInput{Filters: ListFilters{Type: string(enums.ContentTypeGame)}})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Reino Perdido", items[0].Title)
}

func TestRepositoryListPaginates(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		seedItem(t, db, fmt.Sprintf("Título %d", i), "Drama", enums.ContentTypeFilm, 2020, base.Add(time.Duration(i)*time.Hour))
	}

	firstPage, cursor, err := repo.List(ctx, ListInput{Pagination: pagination.Params{Limit: 2}})
	require.NoError(t, err)
	require.Len(t, firstPage, 2)
	require.NotEmpty(t, cursor)
	assert.Equal(t, "Título 4", firstPage[0].Title, "newest first")

	secondPage, _, err := repo.List(ctx, ListInput{Pagination: pagination.Params{Limit: 2, Cursor: cursor}})
	require.NoError(t, err)
	require.Len(t, secondPage, 2)
	assert.Equal(t, "Título 2", secondPage[0].Title)
}

func TestRepositoryCRUD(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	item := seedItem(t, db, "Circuito", "Acción", enums.ContentTypeFilm, 2022, time.Now().UTC())

	loaded, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.Title, loaded.Title)

	loaded.Title = "Circuito Cerrado"
	_, err = repo.Update(ctx, loaded)
	require.NoError(t, err)

	reloaded, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Circuito Cerrado", reloaded.Title)

	require.NoError(t, repo.Delete(ctx, item.ID))
	_, err = repo.FindByID(ctx, item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, item.ID), gorm.ErrRecordNotFound)
}
