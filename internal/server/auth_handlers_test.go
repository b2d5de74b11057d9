package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modam/internal/models"
)

func TestSignupCreatesAccountAndProfileTogether(t *testing.T) {
	ts := newTestServer(t)

	token := ts.signup(t, "user@modam.kr", "firstuser")
	assert.NotEmpty(t, token)

	var userCount, profileCount int64
	require.NoError(t, ts.db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, ts.db.Model(&models.Profile{}).Count(&profileCount).Error)
	assert.Equal(t, int64(1), userCount)
	assert.Equal(t, int64(1), profileCount)
}

func TestSignupDuplicateEmailConflicts(t *testing.T) {
	ts := newTestServer(t)
	ts.signup(t, "user@modam.kr", "firstuser")

	resp := ts.request(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email":    "user@modam.kr",
		"password": "modampass1",
		"username": "seconduser",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// The failed signup must not leave a half-created account behind.
	var profileCount int64
	require.NoError(t, ts.db.Model(&models.Profile{}).Count(&profileCount).Error)
	assert.Equal(t, int64(1), profileCount)
}

func TestSignupValidation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"Bad Email", map[string]string{"email": "nope", "password": "modampass1", "username": "gooduser"}},
		{"Weak Password", map[string]string{"email": "a@b.kr", "password": "short", "username": "gooduser"}},
		{"Bad Username", map[string]string{"email": "a@b.kr", "password": "modampass1", "username": "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.request(t, http.MethodPost, "/api/auth/signup", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestAdminUsernameGetsAdminFlag(t *testing.T) {
	ts := newTestServer(t)
	ts.signup(t, "admin@modam.kr", models.AdminUsername)

	var profile models.Profile
	require.NoError(t, ts.db.First(&profile, "username = ?", models.AdminUsername).Error)
	assert.True(t, profile.IsAdmin)
	assert.Equal(t, models.AdminNickname, profile.Nickname)
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)
	ts.signup(t, "user@modam.kr", "firstuser")

	resp := ts.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "user@modam.kr",
		"password": "modampass1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["token"])
	assert.NotNil(t, body["profile"])

	resp = ts.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "user@modam.kr",
		"password": "wrongpass1",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGuestSession(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.request(t, http.MethodPost, "/api/auth/guest", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	assert.Equal(t, true, body["guest"])
	assert.Equal(t, models.AnonymousNickname, body["nickname"])

	// A guest token recovers as a guest session with no profile.
	resp = ts.request(t, http.MethodGet, "/api/auth/session", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	session := decodeBody(t, resp)
	assert.Equal(t, true, session["authenticated"])
	assert.Equal(t, true, session["guest"])
	assert.Nil(t, session["profile"])

	// But it cannot use account-only routes.
	resp = ts.request(t, http.MethodGet, "/api/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSessionRecovery(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup(t, "user@modam.kr", "firstuser")

	resp := ts.request(t, http.MethodGet, "/api/auth/session", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	session := decodeBody(t, resp)
	assert.Equal(t, true, session["authenticated"])
	assert.Equal(t, false, session["guest"])
	require.NotNil(t, session["profile"])
}

func TestSessionRecoveryWithMissingProfileStillSucceeds(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup(t, "user@modam.kr", "firstuser")

	// Simulate the profile row being unreadable: recovery degrades to a
	// null profile instead of failing the session.
	require.NoError(t, ts.db.Exec("DELETE FROM profiles").Error)

	resp := ts.request(t, http.MethodGet, "/api/auth/session", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	session := decodeBody(t, resp)
	assert.Equal(t, true, session["authenticated"])
	assert.Nil(t, session["profile"])
}

func TestSessionWithoutTokenIsAnonymous(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.request(t, http.MethodGet, "/api/auth/session", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	session := decodeBody(t, resp)
	assert.Equal(t, false, session["authenticated"])
}

func TestSignoutAlwaysSucceeds(t *testing.T) {
	ts := newTestServer(t)

	// Without any token.
	resp := ts.request(t, http.MethodPost, "/api/auth/signout", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// With a garbage token.
	resp = ts.request(t, http.MethodPost, "/api/auth/signout", "not-a-jwt", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// With a real token, which is revoked afterwards.
	token := ts.signup(t, "user@modam.kr", "firstuser")
	resp = ts.request(t, http.MethodPost, "/api/auth/signout", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ts.request(t, http.MethodGet, "/api/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGetMyProfile(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup(t, "user@modam.kr", "firstuser")

	resp := ts.request(t, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	profile, ok := body["profile"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "firstuser", profile["username"])

	resp = ts.request(t, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
