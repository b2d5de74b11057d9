package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"modam/internal/config"
	"modam/internal/database"
	"modam/internal/models"
)

func setupBootstrapDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestEnsureAdminAccountCreatesAccount(t *testing.T) {
	db := setupBootstrapDB(t)
	cfg := &config.Config{AdminPassword: "bootpass1"}

	require.NoError(t, ensureAdminAccount(cfg, db))

	var profile models.Profile
	require.NoError(t, db.First(&profile, "username = ?", models.AdminUsername).Error)
	assert.True(t, profile.IsAdmin)
	assert.Equal(t, models.AdminNickname, profile.Nickname)
	assert.Equal(t, models.RoleOwner, profile.Role)

	var user models.User
	require.NoError(t, db.First(&user, profile.UserID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword(
		[]byte(user.Password), []byte("bootpass1")))
}

func TestEnsureAdminAccountWithoutPasswordIsNoOp(t *testing.T) {
	db := setupBootstrapDB(t)

	require.NoError(t, ensureAdminAccount(&config.Config{}, db))

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Zero(t, users)
}

func TestEnsureAdminAccountPromotesExistingProfile(t *testing.T) {
	db := setupBootstrapDB(t)

	user := models.User{Email: "owner@example.com", Password: "hash"}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&models.Profile{
		UserID:   user.ID,
		Username: models.AdminUsername,
		Nickname: "원장님",
		Role:     models.RoleUser,
	}).Error)

	// Promotion needs no password: the account already exists.
	require.NoError(t, ensureAdminAccount(&config.Config{}, db))

	var profile models.Profile
	require.NoError(t, db.First(&profile, "user_id = ?", user.ID).Error)
	assert.True(t, profile.IsAdmin)
	assert.Equal(t, models.AdminNickname, profile.Nickname)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(1), users, "promotion must not create a second account")
}

func TestEnsureAdminAccountIsIdempotent(t *testing.T) {
	db := setupBootstrapDB(t)
	cfg := &config.Config{AdminPassword: "bootpass1"}

	require.NoError(t, ensureAdminAccount(cfg, db))
	require.NoError(t, ensureAdminAccount(cfg, db))

	var profiles int64
	require.NoError(t, db.Model(&models.Profile{}).
		Where("username = ?", models.AdminUsername).Count(&profiles).Error)
	assert.Equal(t, int64(1), profiles)
}
