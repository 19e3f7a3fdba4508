package memberships

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupMembershipTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS memberships (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  shop_id TEXT NOT NULL,
  created_at DATETIME,
  UNIQUE (user_id, shop_id)
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func TestIsMember(t *testing.T) {
	db := setupMembershipTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	shopID := uuid.New()

	ok, err := repo.IsMember(ctx, userID, shopID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, db.Exec(
		"INSERT INTO memberships (id, user_id, shop_id) VALUES (?, ?, ?)",
		uuid.NewString(), userID.String(), shopID.String(),
	).Error)

	ok, err = repo.IsMember(ctx, userID, shopID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemberShopIDs(t *testing.T) {
	db := setupMembershipTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	shopA := uuid.New()
	shopB := uuid.New()

	for _, shopID := range []uuid.UUID{shopA, shopB} {
		require.NoError(t, db.Exec(
			"INSERT INTO memberships (id, user_id, shop_id) VALUES (?, ?, ?)",
			uuid.NewString(), userID.String(), shopID.String(),
		).Error)
	}

	got, err := repo.MemberShopIDs(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.True(t, got[shopA])
	assert.True(t, got[shopB])

	empty, err := repo.MemberShopIDs(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRemoveMembership(t *testing.T) {
	db := setupMembershipTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	shopID := uuid.New()

	require.NoError(t, db.Exec(
		"INSERT INTO memberships (id, user_id, shop_id) VALUES (?, ?, ?)",
		uuid.NewString(), userID.String(), shopID.String(),
	).Error)

	require.NoError(t, repo.Remove(ctx, userID, shopID))

	ok, err := repo.IsMember(ctx, userID, shopID)
	require.NoError(t, err)
	assert.False(t, ok)
}
