package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  username TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  unique_id TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (lower(email));
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users (lower(username));
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_unique_id ON users (unique_id);`
	require.NoError(t, db.Exec(schema).Error)

	return db
}

func seedUser(t *testing.T, repo *Repository, email, username, uniqueID string) uuid.UUID {
	t.Helper()
	user, err := repo.Create(context.Background(), CreateUserDTO{
		Email:        email,
		Username:     username,
		PasswordHash: "hash",
		UniqueID:     uniqueID,
	})
	require.NoError(t, err)
	return user.ID
}

func TestRepositoryCreateAndFind(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	ctx := context.Background()

	id := seedUser(t, repo, "taro@example.jp", "taro", "#1010")

	byEmail, err := repo.FindByEmail(ctx, "TARO@EXAMPLE.JP")
	require.NoError(t, err)
	assert.Equal(t, id, byEmail.ID)

	byUsername, err := repo.FindByUsername(ctx, "taro")
	require.NoError(t, err)
	assert.Equal(t, id, byUsername.ID)

	byUsername, err = repo.FindByUsername(ctx, "TARO")
	require.NoError(t, err)
	assert.Equal(t, id, byUsername.ID, "username lookup ignores case")

	byID, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "#1010", byID.UniqueID)

	_, err = repo.FindByEmail(ctx, "nobody@example.jp")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryRejectsDuplicateEmail(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))

	seedUser(t, repo, "taro@example.jp", "taro", "#1010")

	_, err := repo.Create(context.Background(), CreateUserDTO{
		Email:        "Taro@Example.jp",
		Username:     "jiro",
		PasswordHash: "hash",
		UniqueID:     "#1011",
	})
	assert.Error(t, err)
}

func TestRepositoryRejectsDuplicateUsername(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))

	seedUser(t, repo, "taro@example.jp", "Taro", "#1010")

	_, err := repo.Create(context.Background(), CreateUserDTO{
		Email:        "jiro@example.jp",
		Username:     "taro",
		PasswordHash: "hash",
		UniqueID:     "#1011",
	})
	assert.Error(t, err, "usernames differing only by case must collide")
}

func TestRepositoryUpdateColumns(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	ctx := context.Background()

	id := seedUser(t, repo, "taro@example.jp", "taro", "#1010")

	require.NoError(t, repo.UpdateColumns(ctx, id, map[string]any{"username": "taro2"}))

	user, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "taro2", user.Username)
	assert.Equal(t, "taro@example.jp", user.Email)
}

func TestRepositoryMaxDisplayNumber(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	ctx := context.Background()

	max, err := repo.MaxDisplayNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1009), max, "empty table falls back to the seed")

	seedUser(t, repo, "a@example.jp", "a", "#1010")
	seedUser(t, repo, "b@example.jp", "b", "#1024")

	max, err = repo.MaxDisplayNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1024), max)
}

func TestRepositoryDelete(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	ctx := context.Background()

	id := seedUser(t, repo, "taro@example.jp", "taro", "#1010")
	require.NoError(t, repo.Delete(ctx, id))

	_, err := repo.FindByID(ctx, id)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
