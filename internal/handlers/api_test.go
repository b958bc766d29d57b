package handlers_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filesmanager/internal/db"
	"filesmanager/internal/handlers"
	"filesmanager/internal/middleware"
	"filesmanager/internal/repo"
	"filesmanager/internal/services"
	"filesmanager/internal/session"
	"filesmanager/internal/storage"
)

type alwaysAlive struct{}

func (alwaysAlive) Alive(context.Context) bool { return true }

// newTestApp wires the full route table against in-memory stores and
// an embedded Redis.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	users := repo.NewMemoryUserStore()
	files := repo.NewMemoryFileStore()
	sessions := session.NewStore(rdb)
	access := services.NewAccessController(users, sessions)
	registry := services.NewFileRegistry(files, storage.NewMemoryContentStore())

	log := zerolog.Nop()
	authHandler := handlers.NewAuthHandler(access, log)
	fileHandler := handlers.NewFileHandler(registry, access, log)
	appHandler := handlers.NewAppHandler(db.RedisProbe{Client: rdb}, alwaysAlive{}, users, files, log)

	app := fiber.New()
	app.Get("/status", appHandler.Status)
	app.Get("/stats", appHandler.Stats)
	app.Post("/users", authHandler.CreateUser)
	app.Get("/connect", authHandler.Connect)

	auth := middleware.RequireSession(access)
	app.Get("/disconnect", auth, authHandler.Disconnect)
	app.Get("/users/me", auth, authHandler.Me)
	app.Post("/files", auth, fileHandler.Create)
	app.Get("/files/:id", auth, fileHandler.Show)
	app.Get("/files", auth, fileHandler.Index)
	app.Put("/files/:id/publish", auth, fileHandler.Publish)
	app.Put("/files/:id/unpublish", auth, fileHandler.Unpublish)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, buf)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(middleware.HeaderToken, token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

func basicAuth(email, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+password))
}

func connect(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/connect", nil)
	req.Header.Set(fiber.HeaderAuthorization, basicAuth(email, password))
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()
	require.NotEmpty(t, body.Token)
	return body.Token
}

func signup(t *testing.T, app *fiber.App, email, password string) {
	t.Helper()
	resp, _ := doJSON(t, app, http.MethodPost, "/users", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestConnectUnknownUser(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/connect", nil)
	req.Header.Set(fiber.HeaderAuthorization, basicAuth("a@b.com", "secret"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()
	assert.Equal(t, "Unauthorized", body["error"])
}

func TestConnectMalformedHeader(t *testing.T) {
	app := newTestApp(t)

	for _, header := range []string{"", "Bearer abc", "Basic !!!not-base64!!!", basicAuth("no-separator", "")[:10]} {
		req := httptest.NewRequest(http.MethodGet, "/connect", nil)
		if header != "" {
			req.Header.Set(fiber.HeaderAuthorization, header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "header %q", header)
	}
}

func TestSignupValidation(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/users", "", map[string]string{"password": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing email", body["error"])

	resp, body = doJSON(t, app, http.MethodPost, "/users", "", map[string]string{"email": "a@b.com"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing password", body["error"])

	signup(t, app, "a@b.com", "secret")
	resp, body = doJSON(t, app, http.MethodPost, "/users", "", map[string]string{
		"email": "a@b.com", "password": "other",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Already exist", body["error"])
}

func TestDisconnectAndSessionLifecycle(t *testing.T) {
	app := newTestApp(t)
	signup(t, app, "a@b.com", "secret")
	token := connect(t, app, "a@b.com", "secret")

	resp, body := doJSON(t, app, http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "a@b.com", body["email"])

	resp, _ = doJSON(t, app, http.MethodGet, "/disconnect", token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// The token no longer resolves.
	resp, body = doJSON(t, app, http.MethodGet, "/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Unauthorized", body["error"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)

	for _, target := range []struct{ method, path string }{
		{http.MethodGet, "/disconnect"},
		{http.MethodGet, "/users/me"},
		{http.MethodPost, "/files"},
		{http.MethodGet, "/files"},
		{http.MethodGet, "/files/000000000000000000000000"},
		{http.MethodPut, "/files/000000000000000000000000/publish"},
		{http.MethodPut, "/files/000000000000000000000000/unpublish"},
	} {
		resp, body := doJSON(t, app, target.method, target.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", target.method, target.path)
		assert.Equal(t, "Unauthorized", body["error"])
	}
}

func TestCreateFolderThenChildFile(t *testing.T) {
	app := newTestApp(t)
	signup(t, app, "a@b.com", "secret")
	token := connect(t, app, "a@b.com", "secret")

	resp, folder := doJSON(t, app, http.MethodPost, "/files", token, map[string]any{
		"name": "docs", "type": "folder",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "0", folder["parentId"])
	assert.Equal(t, "folder", folder["type"])
	folderID := folder["id"].(string)

	resp, file := doJSON(t, app, http.MethodPost, "/files", token, map[string]any{
		"name": "hello.txt", "type": "file", "parentId": folderID, "data": "aGVsbG8=",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, folderID, file["parentId"])
	assert.Equal(t, "hello.txt", file["name"])

	req := httptest.NewRequest(http.MethodGet, "/files?parentId="+folderID, nil)
	req.Header.Set(middleware.HeaderToken, token)
	listResp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var listed []map[string]any
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&listed))
	listResp.Body.Close()
	require.Len(t, listed, 1)
	assert.Equal(t, "hello.txt", listed[0]["name"])
}

func TestCreateFileValidationStatus(t *testing.T) {
	app := newTestApp(t)
	signup(t, app, "a@b.com", "secret")
	token := connect(t, app, "a@b.com", "secret")

	cases := []struct {
		body map[string]any
		want string
	}{
		{map[string]any{"type": "file", "data": "aGVsbG8="}, "Missing name"},
		{map[string]any{"name": "x", "type": "archive"}, "Missing type"},
		{map[string]any{"name": "x", "type": "file"}, "Missing data"},
		{map[string]any{"name": "x", "type": "folder", "parentId": "000000000000000000000000"}, "Parent not found"},
	}
	for _, tc := range cases {
		resp, body := doJSON(t, app, http.MethodPost, "/files", token, tc.body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, tc.want, body["error"])
	}
}

func TestPublishPersistsAcrossLookups(t *testing.T) {
	app := newTestApp(t)
	signup(t, app, "a@b.com", "secret")
	token := connect(t, app, "a@b.com", "secret")

	_, folder := doJSON(t, app, http.MethodPost, "/files", token, map[string]any{
		"name": "docs", "type": "folder",
	})
	id := folder["id"].(string)

	resp, updated := doJSON(t, app, http.MethodPut, "/files/"+id+"/publish", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, updated["isPublic"])

	resp, fresh := doJSON(t, app, http.MethodGet, "/files/"+id, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, fresh["isPublic"])

	resp, updated = doJSON(t, app, http.MethodPut, "/files/"+id+"/unpublish", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, updated["isPublic"])
}

func TestNonOwnerSeesNotFound(t *testing.T) {
	app := newTestApp(t)
	signup(t, app, "owner@b.com", "secret")
	signup(t, app, "other@b.com", "secret")
	ownerToken := connect(t, app, "owner@b.com", "secret")
	otherToken := connect(t, app, "other@b.com", "secret")

	_, folder := doJSON(t, app, http.MethodPost, "/files", ownerToken, map[string]any{
		"name": "private", "type": "folder",
	})
	id := folder["id"].(string)

	// Reads on a private file and writes on any non-owned file all
	// report absence, never a permission denial.
	resp, body := doJSON(t, app, http.MethodGet, "/files/"+id, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not found", body["error"])

	resp, _ = doJSON(t, app, http.MethodPut, "/files/"+id+"/publish", otherToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Once public, non-owners may read but still not toggle.
	resp, _ = doJSON(t, app, http.MethodPut, "/files/"+id+"/publish", ownerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/files/"+id, otherToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPut, "/files/"+id+"/unpublish", otherToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStatusAndStats(t *testing.T) {
	app := newTestApp(t)
	signup(t, app, "a@b.com", "secret")
	token := connect(t, app, "a@b.com", "secret")
	_, _ = doJSON(t, app, http.MethodPost, "/files", token, map[string]any{
		"name": "docs", "type": "folder",
	})

	resp, status := doJSON(t, app, http.MethodGet, "/status", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, status["redis"])
	assert.Equal(t, true, status["db"])

	resp, stats := doJSON(t, app, http.MethodGet, "/stats", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, stats["users"])
	assert.EqualValues(t, 1, stats["files"])
}
