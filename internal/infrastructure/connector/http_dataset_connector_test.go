//go:build unit
// +build unit

package connector

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jotelha/jlhfw/internal/pkg/config"
	"github.com/jotelha/jlhfw/internal/pkg/testutil"
)

const testDatasetURI = "smb://test-share/1a1f9fad-8589-413e-9602-5bbd66bfe675"

func signedToken(t *testing.T, expiry time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "test-user",
		"exp": expiry.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/dataset/readme", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, testDatasetURI, body["uri"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"project": "test-project",
			"owners":  []any{map[string]any{"name": "Test User"}},
		})
	})
	mux.HandleFunc("/dataset/manifest", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"dtoolcore_version": "3.17.0",
			"hash_function":     "md5sum_hexdigest",
			"items": map[string]any{
				"eb58eb70ebcddf630feeea28834f5256c207edfd": map[string]any{
					"hash":          "2f7d9c3e0cfd47e8fcab0c12447b2bf0",
					"relpath":       "simple_text_file.txt",
					"size_in_bytes": 17,
					"utc_timestamp": 1606595093.53965,
				},
			},
		})
	})
	mux.HandleFunc("/dataset/item", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testDatasetURI, r.URL.Query().Get("uri"))
		assert.Equal(t, "eb58eb70ebcddf630feeea28834f5256c207edfd", r.URL.Query().Get("item_id"))
		_, _ = w.Write([]byte("Some test content"))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func setupConnector(t *testing.T, baseURL, token string) *httpDatasetConnector {
	t.Helper()

	settings := &config.DatasetServerSettings{
		BaseURL:        baseURL,
		Token:          token,
		TimeoutSeconds: 5,
	}
	conn, err := NewHTTPDatasetConnector(settings, testutil.SetupTestLogger(t))
	require.NoError(t, err)
	return conn.(*httpDatasetConnector)
}

func TestHTTPDatasetConnector_Readme(t *testing.T) {
	server := newTestServer(t)
	conn := setupConnector(t, server.URL, "")

	readme, err := conn.Readme(context.Background(), testDatasetURI)
	require.NoError(t, err)
	assert.Equal(t, "test-project", readme["project"])
}

func TestHTTPDatasetConnector_Manifest(t *testing.T) {
	server := newTestServer(t)
	conn := setupConnector(t, server.URL, "")

	manifest, err := conn.Manifest(context.Background(), testDatasetURI)
	require.NoError(t, err)
	require.NoError(t, manifest.Validate())

	item, ok := manifest.Items["eb58eb70ebcddf630feeea28834f5256c207edfd"]
	require.True(t, ok)
	assert.Equal(t, "simple_text_file.txt", item.Relpath)
	assert.Equal(t, int64(17), item.SizeInBytes)
}

func TestHTTPDatasetConnector_FetchItem(t *testing.T) {
	server := newTestServer(t)
	conn := setupConnector(t, server.URL, "")

	destPath := filepath.Join(t.TempDir(), "simple_text_file.txt")
	written, err := conn.FetchItem(context.Background(), testDatasetURI, "eb58eb70ebcddf630feeea28834f5256c207edfd", destPath)
	require.NoError(t, err)
	assert.Equal(t, int64(17), written)

	content, err := os.ReadFile(destPath)
	require.NoError(t, err)
	assert.Equal(t, "Some test content", string(content))
}

func TestHTTPDatasetConnector_SendsBearerToken(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))

	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	conn := setupConnector(t, server.URL, token)

	_, err := conn.Readme(context.Background(), testDatasetURI)
	require.NoError(t, err)
	assert.Equal(t, "Bearer "+token, gotAuth)
}

func TestHTTPDatasetConnector_RefusesExpiredToken(t *testing.T) {
	token := signedToken(t, time.Now().Add(-time.Hour))

	server := newTestServer(t)
	conn := setupConnector(t, server.URL, token)

	_, err := conn.Readme(context.Background(), testDatasetURI)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")

	_, err = conn.FetchItem(context.Background(), testDatasetURI, "some-item", filepath.Join(t.TempDir(), "out"))
	assert.Error(t, err)
}

func TestHTTPDatasetConnector_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "dataset not found", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	conn := setupConnector(t, server.URL, "")

	_, err := conn.Manifest(context.Background(), testDatasetURI)
	assert.Error(t, err)
}

func TestNewHTTPDatasetConnector_InvalidSettings(t *testing.T) {
	settings := &config.DatasetServerSettings{}
	_, err := NewHTTPDatasetConnector(settings, testutil.SetupTestLogger(t))
	assert.Error(t, err)
}
