package rest

import (
	"net/http"

	"github.com/dfryer1193/studio/api"
	"github.com/dfryer1193/studio/blog/application"
	"github.com/dfryer1193/studio/blog/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// GetPosts returns the filtered view. The status and q query parameters,
// when present, replace the studio's filter and search query for this
// request only.
func (h *handler) GetPosts(c *gin.Context) {
	filter := h.studio.StatusFilter()
	if raw, ok := c.GetQuery("status"); ok {
		parsed, err := domain.ParseStatusFilter(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.Error{Error: err.Error()})
			return
		}
		filter = parsed
	}

	query := h.studio.SearchQuery()
	if raw, ok := c.GetQuery("q"); ok {
		query = raw
	}

	posts := h.studio.Posts(c.Request.Context())
	c.JSON(http.StatusOK, toAPIPosts(application.FilterPosts(posts, filter, query)))
}

func (h *handler) GetPublishedPosts(c *gin.Context) {
	c.JSON(http.StatusOK, toAPIPosts(h.studio.PublishedPosts(c.Request.Context())))
}

func (h *handler) GetDraftPosts(c *gin.Context) {
	c.JSON(http.StatusOK, toAPIPosts(h.studio.DraftPosts(c.Request.Context())))
}

func (h *handler) GetPost(c *gin.Context) {
	postID := c.Param("postId")

	post, ok := h.studio.GetPost(c.Request.Context(), postID)
	if !ok {
		notFound(c, postID)
		return
	}
	c.JSON(http.StatusOK, toAPIPost(post))
}

// CreatePost stores a new post. A missing slug is derived from the title and
// a missing status defaults to draft.
func (h *handler) CreatePost(c *gin.Context) {
	req := &api.CreatePostRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, api.Error{Error: err.Error()})
		return
	}

	in := domain.PostInput{
		Title:    req.Title,
		Slug:     req.Slug,
		Content:  req.Content,
		Excerpt:  req.Excerpt,
		Status:   domain.Status(req.Status),
		Category: req.Category,
		Tags:     req.Tags,
	}
	if in.Slug == "" {
		in.Slug = domain.Slugify(in.Title)
	}
	if in.Status == "" {
		in.Status = domain.StatusDraft
	}

	post := h.studio.CreatePost(c.Request.Context(), in)
	c.JSON(http.StatusCreated, toAPIPost(post))
}

func (h *handler) UpdatePost(c *gin.Context) {
	postID := c.Param("postId")

	req := &api.UpdatePostRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, api.Error{Error: err.Error()})
		return
	}

	patch := domain.PostPatch{
		Title:    req.Title,
		Slug:     req.Slug,
		Content:  req.Content,
		Excerpt:  req.Excerpt,
		Category: req.Category,
		Tags:     req.Tags,
	}
	if req.Status != nil {
		status := domain.Status(*req.Status)
		patch.Status = &status
	}

	if !h.studio.UpdatePost(c.Request.Context(), postID, patch) {
		notFound(c, postID)
		return
	}
	h.respondWithPost(c, postID)
}

func (h *handler) DeletePost(c *gin.Context) {
	postID := c.Param("postId")

	if !h.studio.DeletePost(c.Request.Context(), postID) {
		notFound(c, postID)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) PublishPost(c *gin.Context) {
	postID := c.Param("postId")

	if !h.studio.PublishPost(c.Request.Context(), postID) {
		notFound(c, postID)
		return
	}
	h.respondWithPost(c, postID)
}

func (h *handler) UnpublishPost(c *gin.Context) {
	postID := c.Param("postId")

	if !h.studio.UnpublishPost(c.Request.Context(), postID) {
		notFound(c, postID)
		return
	}
	h.respondWithPost(c, postID)
}

func (h *handler) PreviewPost(c *gin.Context) {
	postID := c.Param("postId")

	result, ok, err := h.studio.Preview(c.Request.Context(), postID)
	if err != nil {
		log.Error().Err(err).Str("postID", postID).Msg("Failed to render preview")
		c.JSON(http.StatusInternalServerError, api.Error{Error: "failed to render preview"})
		return
	}
	if !ok {
		notFound(c, postID)
		return
	}

	c.JSON(http.StatusOK, api.Preview{
		ID:      postID,
		Title:   result.Title,
		Excerpt: result.Excerpt,
		HTML:    string(result.HTML),
	})
}

// respondWithPost writes the current state of a post that was just changed.
// A concurrent delete between the change and the read yields 404.
func (h *handler) respondWithPost(c *gin.Context, postID string) {
	post, ok := h.studio.GetPost(c.Request.Context(), postID)
	if !ok {
		notFound(c, postID)
		return
	}
	c.JSON(http.StatusOK, toAPIPost(post))
}

func notFound(c *gin.Context, postID string) {
	c.JSON(http.StatusNotFound, api.Error{Error: "post not found: " + postID})
}

func toAPIPost(p domain.Post) api.Post {
	return api.Post{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Content:     p.Content,
		Excerpt:     p.Excerpt,
		Status:      string(p.Status),
		Category:    p.Category,
		Tags:        p.Tags,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		PublishedAt: p.PublishedAt,
	}
}

func toAPIPosts(posts []domain.Post) []api.Post {
	out := make([]api.Post, 0, len(posts))
	for _, p := range posts {
		out = append(out, toAPIPost(p))
	}
	return out
}
