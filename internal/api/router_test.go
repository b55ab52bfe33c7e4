package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spiceroute/spiceroute-be/internal/config"
	"github.com/spiceroute/spiceroute-be/internal/database"
	"github.com/spiceroute/spiceroute-be/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router http.Handler
	db     *sql.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedAdmin(db, "a@b.com", "secret1"))

	cfg := &config.Config{
		ServerPort:   8080,
		DatabasePath: "test", // non-empty: health reports a database
		JWTSecret:    "test-secret",
	}

	router := NewRouter(Deps{
		Config:   cfg,
		Accounts: services.NewAccountService(db),
		Posts:    services.NewPostService(db),
		Events:   services.NewEventService(db),
	})

	return &testServer{router: router, db: db}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var decoded map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	return rec, decoded
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	rec, body := s.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t)

	rec, body := srv.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"email": "a@b.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	user := body["user"].(map[string]any)
	assert.Equal(t, "a@b.com", user["email"])
	assert.Equal(t, "admin", user["role"])
	assert.NotEmpty(t, user["id"])
}

func TestLogin_Failures(t *testing.T) {
	srv := newTestServer(t)

	rec, body := srv.do(t, http.MethodPost, "/api/login", "", map[string]string{"email": "a@b.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, body["error"])

	// Wrong password and unknown account are the same 401.
	rec, _ = srv.do(t, http.MethodPost, "/api/login", "", map[string]string{"email": "a@b.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec, _ = srv.do(t, http.MethodPost, "/api/login", "", map[string]string{"email": "ghost@b.com", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Malformed JSON decodes to an empty payload, so it is a validation 400.
	// That holds even when the broken body carries valid credential fields
	// ahead of the syntax error: nothing of it may be kept.
	for _, body := range []string{
		"{not json",
		`{"email":"a@b.com","password":"secret1",zzz}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString(body))
		out := httptest.NewRecorder()
		srv.router.ServeHTTP(out, req)
		assert.Equal(t, http.StatusBadRequest, out.Code, "body %q", body)
	}
}

func TestLogin_CorruptSaltIsServerError(t *testing.T) {
	srv := newTestServer(t)

	_, err := srv.db.Exec("UPDATE accounts SET password_salt = ? WHERE email = ?",
		"not!!valid base64", "a@b.com")
	require.NoError(t, err)

	// The stored salt can no longer derive a hash. That is a server-side
	// fault and must not masquerade as a 401.
	rec, _ := srv.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"email": "a@b.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMe(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login(t, "a@b.com", "secret1")

	rec, body := srv.do(t, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	user := body["user"].(map[string]any)
	assert.Equal(t, "a@b.com", user["email"])
	assert.Equal(t, "admin", user["role"])

	rec, _ = srv.do(t, http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec, _ = srv.do(t, http.MethodGet, "/api/me", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEditorLifecycle(t *testing.T) {
	srv := newTestServer(t)
	adminToken := srv.login(t, "a@b.com", "secret1")

	// Initially empty.
	rec, body := srv.do(t, http.MethodGet, "/api/admin/editors", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, body["editors"])

	// Create.
	rec, body = srv.do(t, http.MethodPost, "/api/admin/editors", adminToken, map[string]string{
		"email": "new@b.com", "password": "abcdef",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	editor := body["editor"].(map[string]any)
	editorID := editor["id"].(string)
	assert.Equal(t, "new@b.com", editor["email"])
	assert.Equal(t, "editor", editor["role"])

	// Duplicate email conflicts.
	rec, _ = srv.do(t, http.MethodPost, "/api/admin/editors", adminToken, map[string]string{
		"email": "NEW@b.com", "password": "abcdef",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Listed now.
	rec, body = srv.do(t, http.MethodGet, "/api/admin/editors", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, body["editors"], 1)

	// Delete, then gone.
	rec, _ = srv.do(t, http.MethodDelete, "/api/admin/editors/"+editorID, adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, body = srv.do(t, http.MethodGet, "/api/admin/editors", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, body["editors"])

	// Deleting again is a 404.
	rec, _ = srv.do(t, http.MethodDelete, "/api/admin/editors/"+editorID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEditorValidation(t *testing.T) {
	srv := newTestServer(t)
	adminToken := srv.login(t, "a@b.com", "secret1")

	rec, _ := srv.do(t, http.MethodPost, "/api/admin/editors", adminToken, map[string]string{
		"email": "not-an-email", "password": "abcdef",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = srv.do(t, http.MethodPost, "/api/admin/editors", adminToken, map[string]string{
		"email": "ok@b.com", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	srv := newTestServer(t)
	adminToken := srv.login(t, "a@b.com", "secret1")

	rec, body := srv.do(t, http.MethodGet, "/api/me", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	adminID := body["user"].(map[string]any)["id"].(string)

	rec, _ = srv.do(t, http.MethodDelete, "/api/admin/editors/"+adminID, adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminRoutes_RequireAdminRole(t *testing.T) {
	srv := newTestServer(t)
	adminToken := srv.login(t, "a@b.com", "secret1")

	rec, _ := srv.do(t, http.MethodPost, "/api/admin/editors", adminToken, map[string]string{
		"email": "ed@b.com", "password": "abcdef",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	editorToken := srv.login(t, "ed@b.com", "abcdef")

	// Valid identity, wrong role.
	rec, _ = srv.do(t, http.MethodGet, "/api/admin/editors", editorToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Anonymous.
	rec, _ = srv.do(t, http.MethodGet, "/api/admin/editors", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDeletedEditorTokenStopsWorking(t *testing.T) {
	srv := newTestServer(t)
	adminToken := srv.login(t, "a@b.com", "secret1")

	rec, body := srv.do(t, http.MethodPost, "/api/admin/editors", adminToken, map[string]string{
		"email": "brief@b.com", "password": "abcdef",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	editorID := body["editor"].(map[string]any)["id"].(string)
	editorToken := srv.login(t, "brief@b.com", "abcdef")

	rec, _ = srv.do(t, http.MethodDelete, "/api/admin/editors/"+editorID, adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// The token has not expired, but its account row is gone.
	rec, _ = srv.do(t, http.MethodGet, "/api/me", editorToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPostLifecycle(t *testing.T) {
	srv := newTestServer(t)
	adminToken := srv.login(t, "a@b.com", "secret1")

	// Anonymous cannot create.
	rec, _ := srv.do(t, http.MethodPost, "/api/posts", "", map[string]any{
		"title": "Nope", "content": "x",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Create a draft and a published post.
	rec, body := srv.do(t, http.MethodPost, "/api/posts", adminToken, map[string]any{
		"slug": "our-tandoor", "title": "Our Tandoor", "content": "clay oven",
		"author": "Priya", "read_time": "3 min read", "published": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	post := body["post"].(map[string]any)
	assert.Equal(t, "our-tandoor", post["slug"])

	rec, _ = srv.do(t, http.MethodPost, "/api/posts", adminToken, map[string]any{
		"slug": "secret-menu", "title": "Secret Menu", "content": "draft", "published": false,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Missing fields and slug conflicts.
	rec, _ = srv.do(t, http.MethodPost, "/api/posts", adminToken, map[string]any{"content": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = srv.do(t, http.MethodPost, "/api/posts", adminToken, map[string]any{
		"slug": "our-tandoor", "title": "Dup", "content": "x",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Anonymous listing only sees the published post.
	rec, body = srv.do(t, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	posts := body["posts"].([]any)
	require.Len(t, posts, 1)
	assert.Equal(t, "our-tandoor", posts[0].(map[string]any)["slug"])

	// Authenticated listing sees both.
	rec, body = srv.do(t, http.MethodGet, "/api/posts", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["posts"], 2)

	// Draft fetch: 404 anonymously, 200 with a token.
	rec, _ = srv.do(t, http.MethodGet, "/api/posts/secret-menu", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec, _ = srv.do(t, http.MethodGet, "/api/posts/secret-menu", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Partial update keeps the slug and touches nothing else unasked.
	rec, body = srv.do(t, http.MethodPut, "/api/posts/our-tandoor", adminToken, map[string]any{
		"title": "Our Tandoor, Revisited",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	post = body["post"].(map[string]any)
	assert.Equal(t, "Our Tandoor, Revisited", post["title"])
	assert.Equal(t, "our-tandoor", post["slug"])
	assert.Equal(t, "clay oven", post["content"])

	// Delete, then 404.
	rec, _ = srv.do(t, http.MethodDelete, "/api/posts/our-tandoor", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = srv.do(t, http.MethodDelete, "/api/posts/our-tandoor", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuditTrail(t *testing.T) {
	srv := newTestServer(t)
	adminToken := srv.login(t, "a@b.com", "secret1")

	rec, _ := srv.do(t, http.MethodPost, "/api/posts", adminToken, map[string]any{
		"slug": "audited", "title": "Audited", "content": "x",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := srv.do(t, http.MethodGet, "/api/admin/events", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	events := body["events"].([]any)
	require.NotEmpty(t, events)
	event := events[0].(map[string]any)
	assert.Equal(t, "post.create", event["type"])
	assert.Equal(t, "a@b.com", event["actor"])
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	rec, body := srv.do(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["database"])
}

func TestAPIUnknownPathIs404JSON(t *testing.T) {
	srv := newTestServer(t)

	rec, body := srv.do(t, http.MethodGet, "/api/does-not-exist", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", body["error"])
}

func TestSPAFallback(t *testing.T) {
	parent := t.TempDir()
	staticDir := filepath.Join(parent, "public")
	require.NoError(t, os.Mkdir(staticDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "logo.svg"), []byte("<svg/>"), 0o644))
	// A file that must never be reachable through the handler.
	require.NoError(t, os.WriteFile(filepath.Join(parent, "secret.env"), []byte("JWT_SECRET=leak"), 0o644))

	handler := NewSPAHandler(staticDir)

	// Existing asset served directly.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/logo.svg", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<svg/>", rec.Body.String())

	// Client-side route falls back to index.html.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blog/some-post", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<html>app</html>", rec.Body.String())

	// Traversal attempts stay contained inside the static dir: the request
	// resolves to the fallback document, never the file one level up.
	for _, path := range []string{"/../secret.env", "/%2e%2e/secret.env", "/assets/../../secret.env"} {
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, "path %q", path)
		assert.Equal(t, "<html>app</html>", rec.Body.String(), "path %q", path)
	}

	// Only GET and HEAD are accepted outside the API.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/blog/some-post", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	// No static dir configured: plain 404.
	rec = httptest.NewRecorder()
	NewSPAHandler("").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/anything", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
