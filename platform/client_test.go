package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soletta-dev/postpilot/config"
	"github.com/soletta-dev/postpilot/logger"
)

func TestMain(m *testing.M) {
	logger.InitDiscard()
	m.Run()
}

func testPlatformConfig(urls ...string) config.PlatformConfig {
	backends := make([]config.BackendConfig, len(urls))
	for i, u := range urls {
		backends[i] = config.BackendConfig{Name: string(rune('a' + i)), URL: u}
	}
	return config.PlatformConfig{
		Backends:              backends,
		RequestTimeoutSeconds: 5,
		MaxConcurrentRequests: 4,
		MinRequestInterval:    "1ms",
	}
}

func testCreds() *config.Credentials {
	return &config.Credentials{APIToken: "tok", UserID: "u-1"}
}

func newBackendServer(t *testing.T, ops []string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/capabilities", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{"operations": ops})
	})
	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "u-1", body["user_id"])
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"id": "post-1"},
		})
	})
	mux.HandleFunc("/posts/post-1/reply", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"id": "post-2"},
		})
	})
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ai research", r.URL.Query().Get("q"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{"posts": []map[string]string{
				{"id": "f-1", "text": "found", "author": "someone"},
			}},
		})
	})
	return httptest.NewServer(mux)
}

func TestProbeRegistersCapabilities(t *testing.T) {
	ts := newBackendServer(t, []string{"post", "reply", "search"})
	defer ts.Close()

	c := NewHTTPClient(testPlatformConfig(ts.URL), testCreds())
	c.Probe(context.Background())

	assert.True(t, c.Registry().Supports(OpPost))
	assert.True(t, c.Registry().Supports(OpSearch))
	assert.False(t, c.Registry().Supports(OpDelete))
}

func TestProbeToleratesDeadBackend(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()
	live := newBackendServer(t, []string{"post"})
	defer live.Close()

	c := NewHTTPClient(testPlatformConfig(dead.URL, live.URL), testCreds())
	c.Probe(context.Background())

	assert.True(t, c.Registry().Supports(OpPost))
}

func TestCreatePostAndReply(t *testing.T) {
	ts := newBackendServer(t, []string{"post", "reply"})
	defer ts.Close()

	c := NewHTTPClient(testPlatformConfig(ts.URL), testCreds())
	c.Probe(context.Background())

	id, err := c.CreatePost(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "post-1", id)

	replyID, err := c.CreateReply(context.Background(), "post-1", "again")
	require.NoError(t, err)
	assert.Equal(t, "post-2", replyID)
}

func TestUnsupportedOperationFailsFast(t *testing.T) {
	ts := newBackendServer(t, []string{"post"})
	defer ts.Close()

	c := NewHTTPClient(testPlatformConfig(ts.URL), testCreds())
	c.Probe(context.Background())

	_, err := c.Search(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not available")
}

func TestSearchDecodesPosts(t *testing.T) {
	ts := newBackendServer(t, []string{"search"})
	defer ts.Close()

	c := NewHTTPClient(testPlatformConfig(ts.URL), testCreds())
	c.Probe(context.Background())

	posts, err := c.Search(context.Background(), "ai research")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "f-1", posts[0].ID)
	assert.Equal(t, "someone", posts[0].Author)
}

func TestAPIFailureSurfacesMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/capabilities", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"operations": []string{"post"}})
	})
	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "rate limit exceeded",
		})
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	c := NewHTTPClient(testPlatformConfig(ts.URL), testCreds())
	c.Probe(context.Background())

	_, err := c.CreatePost(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit exceeded")
}
