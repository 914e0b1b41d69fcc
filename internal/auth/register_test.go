package auth

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tabegoro/tabegoro-backend/pkg/db"
	pkgerrors "github.com/tabegoro/tabegoro-backend/pkg/errors"
	"github.com/tabegoro/tabegoro-backend/pkg/security"
)

func setupRegisterTest(t *testing.T) (RegisterService, *gorm.DB) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
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
	require.NoError(t, conn.Exec(schema).Error)

	svc, err := NewRegisterService(RegisterServiceParams{
		DB:             db.NewWithConn(conn),
		PasswordConfig: testPasswordConfig(),
		JWTConfig:      testJWTConfig(),
	})
	require.NoError(t, err)

	return svc, conn
}

func TestRegisterAssignsSequentialMemberNumbers(t *testing.T) {
	svc, _ := setupRegisterTest(t)
	ctx := context.Background()

	for i, want := range []string{"#1010", "#1011", "#1012"} {
		resp, err := svc.Register(ctx, RegisterRequest{
			Email:    fmt.Sprintf("user%d@example.jp", i),
			Username: fmt.Sprintf("user%d", i),
			Password: "482915",
		})
		require.NoError(t, err)
		assert.Equal(t, want, resp.User.UniqueID)
		assert.NotEmpty(t, resp.Token)
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, conn := setupRegisterTest(t)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "taro@example.jp",
		Username: "taro",
		Password: "482915",
	})
	require.NoError(t, err)

	var hash string
	require.NoError(t, conn.Table("users").Where("id = ?", resp.User.ID.String()).Pluck("password_hash", &hash).Error)
	assert.NotEqual(t, "482915", hash)
	ok, err := security.VerifyPassword("482915", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegisterNormalizesEmail(t *testing.T) {
	svc, _ := setupRegisterTest(t)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "  TARO@Example.JP ",
		Username: "taro",
		Password: "482915",
	})
	require.NoError(t, err)
	assert.Equal(t, "taro@example.jp", resp.User.Email)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, _ := setupRegisterTest(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Email: "taro@example.jp", Username: "taro", Password: "482915"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Email: "TARO@example.jp", Username: "other", Password: "482915"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestRegisterDuplicateUsernameConflicts(t *testing.T) {
	svc, _ := setupRegisterTest(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Email: "taro@example.jp", Username: "taro", Password: "482915"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Email: "jiro@example.jp", Username: "taro", Password: "482915"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestRegisterUsernameConflictIgnoresCase(t *testing.T) {
	svc, _ := setupRegisterTest(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Email: "alice@example.jp", Username: "Alice", Password: "482915"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Email: "alice2@example.jp", Username: "alice", Password: "482915"})
	require.Error(t, err, "usernames differing only by case must conflict")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestRegisterRetriesWhenMemberNumberClaimed(t *testing.T) {
	svc, conn := setupRegisterTest(t)

	// claim the allocated number between the read and the insert, the way a
	// concurrent registration would
	claimed := false
	err := conn.Callback().Create().Before("gorm:create").Register("claim_member_number", func(tx *gorm.DB) {
		if claimed {
			return
		}
		claimed = true
		insertErr := tx.Session(&gorm.Session{NewDB: true}).Exec(
			"INSERT INTO users (id, email, username, password_hash, unique_id) VALUES (?, ?, ?, ?, ?)",
			uuid.NewString(), "rival@example.jp", "rival", "hash", "#1010",
		).Error
		require.NoError(t, insertErr)
	})
	require.NoError(t, err)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "taro@example.jp",
		Username: "taro",
		Password: "482915",
	})
	require.NoError(t, err, "a claimed member number must trigger a retry, not surface as an error")
	assert.True(t, claimed)
	assert.Equal(t, "#1010", resp.User.UniqueID, "the rolled-back claim frees the number for the retry")
}

func TestRegisterRejectsWeakPasswords(t *testing.T) {
	svc, _ := setupRegisterTest(t)
	ctx := context.Background()

	for _, password := range []string{"", "12345", "1234567", "abc123"} {
		_, err := svc.Register(ctx, RegisterRequest{Email: "taro@example.jp", Username: "taro", Password: password})
		require.Error(t, err, "password %q must be rejected", password)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	}
}
