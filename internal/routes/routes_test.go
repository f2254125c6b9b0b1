package routes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ringshq/rings/internal/app"
	"github.com/ringshq/rings/internal/config"
	"github.com/ringshq/rings/internal/routes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{0x01}, 64)...)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		AppName:       "Rings",
		AppEnv:        "development",
		Port:          "0",
		CORSOrigin:    "http://localhost:5173",
		DBDriver:      "sqlite",
		DBConnection:  filepath.Join(t.TempDir(), "test.db"),
		SessionSecret: "test-secret",
		SessionExpiry: time.Hour,
		StorageDriver: "local",
		UploadPath:    t.TempDir(),
	}

	a, err := app.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	server := httptest.NewServer(routes.SetupRoutes(a))
	t.Cleanup(server.Close)
	return server
}

// newClient returns a client with its own cookie jar, i.e. one browser.
func newClient(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func doJSONList(t *testing.T, client *http.Client, url string) (*http.Response, []map[string]any) {
	t.Helper()

	resp, err := client.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var decoded []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func register(t *testing.T, client *http.Client, baseURL, username string) string {
	t.Helper()

	resp, body := doJSON(t, client, http.MethodPost, baseURL+"/api/auth/register", map[string]string{
		"username": username,
		"password": "password1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, username, body["username"])
	return body["id"].(string)
}

func createRing(t *testing.T, client *http.Client, baseURL, name string) string {
	t.Helper()

	resp, body := doJSON(t, client, http.MethodPost, baseURL+"/api/rings", map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return body["id"].(string)
}

// createPost submits the multipart form the client app sends: messageText
// plus an optional image part.
func createPost(t *testing.T, client *http.Client, baseURL, ringID, text string, imageName string, imageData []byte) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("messageText", text))

	if imageName != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, imageName))
		header.Set("Content-Type", "image/jpeg")
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(imageData)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/rings/"+ringID+"/posts", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func errorCode(t *testing.T, body map[string]any) string {
	t.Helper()

	envelope, ok := body["error"].(map[string]any)
	require.True(t, ok, "expected an error envelope, got %v", body)
	return envelope["code"].(string)
}

func TestHealth(t *testing.T) {
	server := newTestServer(t)
	client := newClient(t)

	resp, body := doJSON(t, client, http.MethodGet, server.URL+"/api/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "connected", body["database"])
}

func TestAuthLifecycle(t *testing.T) {
	server := newTestServer(t)
	client := newClient(t)

	// Not logged in yet.
	resp, body := doJSON(t, client, http.MethodGet, server.URL+"/api/auth/me", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, body))

	userID := register(t, client, server.URL, "alice")

	// The register response set the session cookie.
	resp, body = doJSON(t, client, http.MethodGet, server.URL+"/api/auth/me", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, userID, body["id"])
	assert.Equal(t, "alice", body["username"])

	resp, _ = doJSON(t, client, http.MethodPost, server.URL+"/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, client, http.MethodGet, server.URL+"/api/auth/me", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = doJSON(t, client, http.MethodPost, server.URL+"/api/auth/login", map[string]string{
		"username": "alice",
		"password": "password1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, userID, body["id"])
	assert.NotEmpty(t, body["lastLoginAt"])
}

func TestRegisterConflictsAndBadCredentials(t *testing.T) {
	server := newTestServer(t)
	client := newClient(t)

	register(t, client, server.URL, "alice")

	resp, body := doJSON(t, newClient(t), http.MethodPost, server.URL+"/api/auth/register", map[string]string{
		"username": "alice",
		"password": "different2",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "USERNAME_EXISTS", errorCode(t, body))

	resp, body = doJSON(t, newClient(t), http.MethodPost, server.URL+"/api/auth/login", map[string]string{
		"username": "alice",
		"password": "wrongpass1",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, body))
}

// TestBookClubScenario walks the product's core loop: alice founds a Ring,
// bob finds it, joins, posts, and alice reads the post in her feed.
func TestBookClubScenario(t *testing.T) {
	server := newTestServer(t)
	alice := newClient(t)
	bob := newClient(t)

	register(t, alice, server.URL, "alice")
	register(t, bob, server.URL, "bob")

	ringID := createRing(t, alice, server.URL, "Book Club")

	// Bob is not a member: reading the posts is forbidden.
	resp, body := doJSON(t, bob, http.MethodGet, server.URL+"/api/rings/"+ringID+"/posts", nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, body))

	// But he can find the Ring by search.
	resp, results := doJSONList(t, bob, server.URL+"/api/rings/search?q=book")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, results, 1)
	assert.Equal(t, "Book Club", results[0]["name"])
	assert.Equal(t, false, results[0]["isMember"])
	assert.Equal(t, float64(1), results[0]["memberCount"])

	resp, body = doJSON(t, bob, http.MethodPost, server.URL+"/api/rings/"+ringID+"/join", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["isMember"])
	assert.Equal(t, float64(2), body["memberCount"])

	// Joining again is a conflict and the count stays put.
	resp, body = doJSON(t, bob, http.MethodPost, server.URL+"/api/rings/"+ringID+"/join", nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "ALREADY_MEMBER", errorCode(t, body))

	resp, body = doJSON(t, bob, http.MethodGet, server.URL+"/api/rings/"+ringID+"/members", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["memberCount"])

	resp, body = createPost(t, bob, server.URL, ringID, "Hello!", "", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Hello!", body["messageText"])
	assert.Equal(t, "bob", body["username"])
	assert.Nil(t, body["imageUrl"])

	// Alice reads bob's post in the Ring.
	resp, posts := doJSONList(t, alice, server.URL+"/api/rings/"+ringID+"/posts")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, posts, 1)
	assert.Equal(t, "Hello!", posts[0]["messageText"])
	assert.Equal(t, "bob", posts[0]["username"])
	assert.Nil(t, posts[0]["imageUrl"])

	// And in her news feed, with the Ring name attached.
	resp, feed := doJSONList(t, alice, server.URL+"/api/news-feed")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, feed, 1)
	assert.Equal(t, "Book Club", feed[0]["ringName"])
}

func TestPostOrderingAsymmetry(t *testing.T) {
	server := newTestServer(t)
	alice := newClient(t)

	register(t, alice, server.URL, "alice")
	ringID := createRing(t, alice, server.URL, "Book Club")

	for _, text := range []string{"first", "second", "third"} {
		resp, _ := createPost(t, alice, server.URL, ringID, text, "", nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		time.Sleep(5 * time.Millisecond)
	}

	// In-Ring listing reads like a chat log, oldest first.
	_, posts := doJSONList(t, alice, server.URL+"/api/rings/"+ringID+"/posts")
	require.Len(t, posts, 3)
	assert.Equal(t, "first", posts[0]["messageText"])
	assert.Equal(t, "third", posts[2]["messageText"])

	// The feed reads like news, newest first.
	_, feed := doJSONList(t, alice, server.URL+"/api/news-feed")
	require.Len(t, feed, 3)
	assert.Equal(t, "third", feed[0]["messageText"])
	assert.Equal(t, "first", feed[2]["messageText"])
}

func TestImageUploadRoundTrip(t *testing.T) {
	server := newTestServer(t)
	alice := newClient(t)

	register(t, alice, server.URL, "alice")
	ringID := createRing(t, alice, server.URL, "Book Club")

	resp, body := createPost(t, alice, server.URL, ringID, "look at this", "photo.jpg", jpegBytes)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	imageURL, ok := body["imageUrl"].(string)
	require.True(t, ok, "expected an image URL, got %v", body["imageUrl"])
	require.True(t, strings.HasPrefix(imageURL, "/uploads/"))

	// The uploaded bytes come back unchanged from the static file route.
	got, err := alice.Get(server.URL + imageURL)
	require.NoError(t, err)
	defer func() { _ = got.Body.Close() }()
	require.Equal(t, http.StatusOK, got.StatusCode)

	served, err := io.ReadAll(got.Body)
	require.NoError(t, err)
	assert.Equal(t, jpegBytes, served)
}

func TestRingIDValidationAndNotFound(t *testing.T) {
	server := newTestServer(t)
	alice := newClient(t)
	register(t, alice, server.URL, "alice")

	resp, body := doJSON(t, alice, http.MethodGet, server.URL+"/api/rings/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, body))

	// A well-formed id for a Ring that does not exist is a 404, membership
	// notwithstanding.
	resp, body = doJSON(t, alice, http.MethodGet, server.URL+"/api/rings/0d4f9f9e-1111-4222-8333-444455556666", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "RING_NOT_FOUND", errorCode(t, body))
}

func TestSearchQueryRequired(t *testing.T) {
	server := newTestServer(t)
	alice := newClient(t)
	register(t, alice, server.URL, "alice")

	resp, body := doJSON(t, alice, http.MethodGet, server.URL+"/api/rings/search", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, body))

	// No matches is an empty list, not an error.
	resp, results := doJSONList(t, alice, server.URL+"/api/rings/search?q=nothing")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, results)
}

func TestAddMemberOverHTTP(t *testing.T) {
	server := newTestServer(t)
	alice := newClient(t)
	bob := newClient(t)

	register(t, alice, server.URL, "alice")
	bobID := register(t, bob, server.URL, "bob")
	ringID := createRing(t, alice, server.URL, "Book Club")

	resp, body := doJSON(t, alice, http.MethodPost, server.URL+"/api/rings/"+ringID+"/members", map[string]string{"username": "bob"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, bobID, body["userId"])
	assert.Equal(t, "User 'bob' has been added to the Ring.", body["message"])

	// Bob can now read the Ring without joining himself.
	resp, _ = doJSON(t, bob, http.MethodGet, server.URL+"/api/rings/"+ringID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, alice, http.MethodPost, server.URL+"/api/rings/"+ringID+"/members", map[string]string{"username": "nobody"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "USER_NOT_FOUND", errorCode(t, body))
}

func TestRingListScopedToCaller(t *testing.T) {
	server := newTestServer(t)
	alice := newClient(t)
	bob := newClient(t)

	register(t, alice, server.URL, "alice")
	register(t, bob, server.URL, "bob")

	createRing(t, alice, server.URL, "Book Club")
	createRing(t, bob, server.URL, "Cooking")

	_, rings := doJSONList(t, alice, server.URL+"/api/rings")
	require.Len(t, rings, 1)
	assert.Equal(t, "Book Club", rings[0]["name"])

	// The search query parameter filters the caller's own Rings.
	_, rings = doJSONList(t, alice, server.URL+"/api/rings?search=cook")
	assert.Empty(t, rings)
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	server := newTestServer(t)
	client := newClient(t)

	for _, url := range []string{
		server.URL + "/api/rings",
		server.URL + "/api/news-feed",
		server.URL + "/api/auth/me",
	} {
		resp, body := doJSON(t, client, http.MethodGet, url, nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "UNAUTHORIZED", errorCode(t, body))
	}
}
