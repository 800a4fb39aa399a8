package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dfryer1193/studio/api"
	"github.com/dfryer1193/studio/blog/application"
	"github.com/dfryer1193/studio/blog/persistence"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *application.Studio) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := persistence.NewPostRepository(persistence.WithPosts(persistence.DefaultSeedPosts()...))
	studio := application.NewStudio(repo, application.NewMarkdownRenderer("https://studio.example.com"))

	router := gin.New()
	NewApi(router, studio)
	return router, studio
}

func doRequest(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

func apiIDs(posts []api.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func TestGetPosts(t *testing.T) {
	router, _ := setupTestRouter(t)

	tests := []struct {
		name     string
		path     string
		expected []string
	}{
		{name: "All posts newest update first", path: "/posts/v1/", expected: []string{"2", "1", "3"}},
		{name: "Status override", path: "/posts/v1/?status=published", expected: []string{"1", "3"}},
		{name: "Search override", path: "/posts/v1/?q=markdown", expected: []string{"3"}},
		{name: "Published view", path: "/posts/v1/published", expected: []string{"1", "3"}},
		{name: "Draft view", path: "/posts/v1/drafts", expected: []string{"2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodGet, tt.path, nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.expected, apiIDs(decode[[]api.Post](t, w)))
		})
	}
}

func TestGetPosts_InvalidStatus(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/posts/v1/?status=deleted", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPost(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/posts/v1/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	post := decode[api.Post](t, w)
	assert.Equal(t, "Getting Started with Nuxt 4", post.Title)
	assert.Equal(t, []string{"nuxt", "vue", "web development"}, post.Tags)
	assert.NotNil(t, post.PublishedAt)

	w = doRequest(t, router, http.MethodGet, "/posts/v1/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreatePost(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/posts/v1/", api.CreatePostRequest{
		Title:   "Hello Studio",
		Content: "# Hello Studio\n\nFirst words.",
		Tags:    []string{"intro"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	created := decode[api.Post](t, w)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "hello-studio", created.Slug)
	assert.Equal(t, "draft", created.Status)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.Nil(t, created.PublishedAt)

	w = doRequest(t, router, http.MethodGet, "/posts/v1/", nil)
	posts := decode[[]api.Post](t, w)
	require.NotEmpty(t, posts)
	assert.Equal(t, created.ID, posts[0].ID)
}

func TestCreatePost_KeepsExplicitSlug(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/posts/v1/", api.CreatePostRequest{
		Title:  "Hello Studio",
		Slug:   "custom",
		Status: "published",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	created := decode[api.Post](t, w)
	assert.Equal(t, "custom", created.Slug)
	assert.Equal(t, "published", created.Status)
}

func TestCreatePost_InvalidStatus(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/posts/v1/", api.CreatePostRequest{Title: "x", Status: "deleted"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdatePost(t *testing.T) {
	router, _ := setupTestRouter(t)

	before := decode[api.Post](t, doRequest(t, router, http.MethodGet, "/posts/v1/2", nil))

	title := "Retitled"
	w := doRequest(t, router, http.MethodPatch, "/posts/v1/2", map[string]any{"title": title, "tags": []string{"vue"}})
	require.Equal(t, http.StatusOK, w.Code)

	after := decode[api.Post](t, w)
	assert.Equal(t, title, after.Title)
	assert.Equal(t, []string{"vue"}, after.Tags)
	assert.Equal(t, before.Content, after.Content)
	assert.Equal(t, before.Slug, after.Slug)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))

	w = doRequest(t, router, http.MethodPatch, "/posts/v1/missing", map[string]any{"title": title})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, router, http.MethodPatch, "/posts/v1/2", map[string]any{"status": "bogus"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeletePost(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doRequest(t, router, http.MethodDelete, "/posts/v1/2", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, router, http.MethodDelete, "/posts/v1/2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, router, http.MethodGet, "/posts/v1/", nil)
	assert.Equal(t, []string{"1", "3"}, apiIDs(decode[[]api.Post](t, w)))
}

func TestPublishUnpublish(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/posts/v1/2/publish", nil)
	require.Equal(t, http.StatusOK, w.Code)
	published := decode[api.Post](t, w)
	assert.Equal(t, "published", published.Status)
	require.NotNil(t, published.PublishedAt)

	w = doRequest(t, router, http.MethodPost, "/posts/v1/2/unpublish", nil)
	require.Equal(t, http.StatusOK, w.Code)
	unpublished := decode[api.Post](t, w)
	assert.Equal(t, "draft", unpublished.Status)
	assert.Nil(t, unpublished.PublishedAt)

	w = doRequest(t, router, http.MethodPost, "/posts/v1/missing/publish", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doRequest(t, router, http.MethodPost, "/posts/v1/missing/unpublish", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPreviewPost(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/posts/v1/3/preview", nil)
	require.Equal(t, http.StatusOK, w.Code)

	preview := decode[api.Preview](t, w)
	assert.Equal(t, "3", preview.ID)
	assert.Equal(t, "Markdown Editing", preview.Title)
	assert.Equal(t, "Tips for effective markdown writing", preview.Excerpt)
	assert.Contains(t, preview.HTML, "<h1")

	w = doRequest(t, router, http.MethodGet, "/posts/v1/missing/preview", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestViewState(t *testing.T) {
	router, studio := setupTestRouter(t)

	state := decode[api.ViewState](t, doRequest(t, router, http.MethodGet, "/studio/v1/state", nil))
	assert.Nil(t, state.SelectedID)
	assert.Equal(t, "all", *state.StatusFilter)
	assert.Equal(t, "", *state.SearchQuery)

	w := doRequest(t, router, http.MethodPut, "/studio/v1/state", map[string]any{
		"selected_id":   "3",
		"search_query":  "vue",
		"status_filter": "draft",
	})
	require.Equal(t, http.StatusOK, w.Code)
	state = decode[api.ViewState](t, w)
	require.NotNil(t, state.SelectedID)
	assert.Equal(t, "3", *state.SelectedID)
	assert.Equal(t, "vue", *state.SearchQuery)
	assert.Equal(t, "draft", *state.StatusFilter)

	// The stored view state drives the default filtered list.
	w = doRequest(t, router, http.MethodGet, "/posts/v1/", nil)
	assert.Equal(t, []string{"2"}, apiIDs(decode[[]api.Post](t, w)))

	w = doRequest(t, router, http.MethodPut, "/studio/v1/state", map[string]any{"selected_id": ""})
	require.Equal(t, http.StatusOK, w.Code)
	_, selected := studio.Selected()
	assert.False(t, selected)
	assert.Equal(t, "vue", studio.SearchQuery())
}

func TestViewState_Invalid(t *testing.T) {
	router, studio := setupTestRouter(t)

	w := doRequest(t, router, http.MethodPut, "/studio/v1/state", map[string]any{
		"search_query":  "kept out",
		"status_filter": "bogus",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "", studio.SearchQuery())

	w = doRequest(t, router, http.MethodPut, "/studio/v1/state", map[string]any{"selected_id": "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNewRouter(t *testing.T) {
	repo := persistence.NewPostRepository(persistence.WithPosts(persistence.DefaultSeedPosts()...))
	router := NewRouter(application.NewStudio(repo, application.NewMarkdownRenderer("")))

	w := doRequest(t, router, http.MethodGet, "/posts/v1/published", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"1", "3"}, apiIDs(decode[[]api.Post](t, w)))

	w = doRequest(t, router, http.MethodGet, "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
