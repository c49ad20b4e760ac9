package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	authModel "lembagaku_backend/internals/features/users/auth/model"
)

func newBlacklistDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "auth.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&authModel.TokenBlacklistModel{}))
	return db
}

func TestBlacklistTokenLifecycle(t *testing.T) {
	db := newBlacklistDB(t)

	require.NoError(t, BlacklistToken(db, "tok-logout", time.Hour))

	hit, err := IsTokenBlacklisted(db, "tok-logout")
	require.NoError(t, err)
	assert.True(t, hit)

	miss, err := IsTokenBlacklisted(db, "tok-lain")
	require.NoError(t, err)
	assert.False(t, miss)
}

func TestCleanupExpiredBlacklist_HardDelete(t *testing.T) {
	db := newBlacklistDB(t)

	// satu kadaluarsa, satu masih hidup
	require.NoError(t, db.Create(&authModel.TokenBlacklistModel{
		Token:     "tok-basi",
		ExpiredAt: time.Now().UTC().Add(-time.Minute),
	}).Error)
	require.NoError(t, BlacklistToken(db, "tok-hidup", time.Hour))

	n, err := CleanupExpiredBlacklist(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// baris kadaluarsa benar-benar hilang dari tabel, bukan soft delete
	var total int64
	require.NoError(t, db.Model(&authModel.TokenBlacklistModel{}).Count(&total).Error)
	assert.Equal(t, int64(1), total)

	hit, err := IsTokenBlacklisted(db, "tok-hidup")
	require.NoError(t, err)
	assert.True(t, hit)
}
