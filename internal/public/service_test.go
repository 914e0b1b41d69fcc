package public

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tabegoro/tabegoro-backend/internal/restaurants"
	"github.com/tabegoro/tabegoro-backend/pkg/db"
	pkgerrors "github.com/tabegoro/tabegoro-backend/pkg/errors"
)

func setupPublicTest(t *testing.T) (Service, restaurants.Service) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS restaurants (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  slug TEXT NOT NULL,
  description TEXT,
  category TEXT,
  image_url TEXT,
  cover_image_url TEXT,
  contacts TEXT,
  address TEXT,
  hours TEXT,
  price_range TEXT,
  attributes TEXT,
  media TEXT,
  menu_items TEXT,
  featured_dish TEXT,
  social_links TEXT,
  is_published INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_restaurants_slug ON restaurants (slug);`
	require.NoError(t, conn.Exec(schema).Error)

	client := db.NewWithConn(conn)
	svc, err := NewService(ServiceParams{DB: client})
	require.NoError(t, err)
	owners, err := restaurants.NewService(restaurants.ServiceParams{DB: client})
	require.NoError(t, err)

	return svc, owners
}

func TestPublicationGating(t *testing.T) {
	svc, owners := setupPublicTest(t)
	ctx := context.Background()
	owner := uuid.New()

	created, err := owners.Create(ctx, owner, restaurants.CreateRequest{Name: "Sushi Bar"})
	require.NoError(t, err)

	// unpublished: invisible by slug and absent from the list
	_, err = svc.GetBySlug(ctx, "sushi-bar")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	list, err := svc.ListPublished(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	// published: visible through both paths
	_, err = owners.SetPublished(ctx, owner, created.ID, true)
	require.NoError(t, err)

	dto, err := svc.GetBySlug(ctx, "sushi-bar")
	require.NoError(t, err)
	assert.Equal(t, created.ID, dto.ID)

	list, err = svc.ListPublished(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	// unpublished again: hidden again
	_, err = owners.SetPublished(ctx, owner, created.ID, false)
	require.NoError(t, err)

	_, err = svc.GetBySlug(ctx, "sushi-bar")
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestGetBySlugUnknownIsNotFound(t *testing.T) {
	svc, _ := setupPublicTest(t)

	for _, slug := range []string{"does-not-exist", "", "   "} {
		_, err := svc.GetBySlug(context.Background(), slug)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed, "slug %q", slug)
		assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	}
}
