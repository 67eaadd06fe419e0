package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := ParseRole("site_manager")
	require.NoError(t, err)
	assert.Equal(t, RoleSiteManager, r)

	r, err = ParseRole("global_manager")
	require.NoError(t, err)
	assert.Equal(t, RoleGlobalManager, r)

	_, err = ParseRole("admin")
	assert.Error(t, err)
}

func TestRolePermissions(t *testing.T) {
	assert.True(t, RoleGlobalManager.CanManageSites())
	assert.False(t, RoleSiteManager.CanManageSites())

	assert.True(t, RoleGlobalManager.CanSetStatus())
	assert.True(t, RoleSiteManager.CanSetStatus())
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func testStore(t *testing.T) *Store {
	t.Helper()
	hashKey := make([]byte, 32)
	blockKey := make([]byte, 32)
	return NewStore(nil, hashKey, blockKey)
}

func TestSessionRoundTrip(t *testing.T) {
	store := testStore(t)
	sess := Session{UserID: uuid.New(), Username: "marie", Role: RoleGlobalManager}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	require.NoError(t, store.SetSession(rec, req, sess))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookies[0])

	got, ok := store.GetSession(next)
	require.True(t, ok)
	assert.Equal(t, sess, got)
}

func TestGetSessionRejectsGarbage(t *testing.T) {
	store := testStore(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := store.GetSession(req)
	assert.False(t, ok)

	req.AddCookie(&http.Cookie{Name: "sitebook_session", Value: "tampered"})
	_, ok = store.GetSession(req)
	assert.False(t, ok)
}

func TestRequireAuth(t *testing.T) {
	store := testStore(t)
	sess := Session{UserID: uuid.New(), Username: "marie"}

	var seen Session
	handler := store.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	// no cookie
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// valid cookie
	loginRec := httptest.NewRecorder()
	require.NoError(t, store.SetSession(loginRec, httptest.NewRequest(http.MethodPost, "/login", nil), sess))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(loginRec.Result().Cookies()[0])

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sess, seen)
}

func TestRequireRole(t *testing.T) {
	store := testStore(t)

	handler := store.RequireRole(Role.CanManageSites)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	requestAs := func(sess Session) *httptest.ResponseRecorder {
		loginRec := httptest.NewRecorder()
		require.NoError(t, store.SetSession(loginRec, httptest.NewRequest(http.MethodPost, "/login", nil), sess))
		req := httptest.NewRequest(http.MethodPost, "/sites", nil)
		req.AddCookie(loginRec.Result().Cookies()[0])
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, requestAs(Session{UserID: uuid.New(), Role: RoleGlobalManager}).Code)
	assert.Equal(t, http.StatusForbidden, requestAs(Session{UserID: uuid.New(), Role: RoleSiteManager}).Code)
	assert.Equal(t, http.StatusForbidden, requestAs(Session{UserID: uuid.New()}).Code)
}
