package rest

import (
	"github.com/dfryer1193/studio/blog/application"
	"github.com/dfryer1193/studio/internal/middleware"
	"github.com/gin-gonic/gin"
)

// NewApi registers the studio routes on router.
func NewApi(router *gin.Engine, studio *application.Studio) {
	h := &handler{studio: studio}

	postsV1 := router.Group("posts/v1")
	{
		postsV1.GET("/", h.GetPosts)
		postsV1.POST("/", h.CreatePost)
		postsV1.GET("/published", h.GetPublishedPosts)
		postsV1.GET("/drafts", h.GetDraftPosts)
		postsV1.GET("/:postId", h.GetPost)
		postsV1.PATCH("/:postId", h.UpdatePost)
		postsV1.DELETE("/:postId", h.DeletePost)
		postsV1.POST("/:postId/publish", h.PublishPost)
		postsV1.POST("/:postId/unpublish", h.UnpublishPost)
		postsV1.GET("/:postId/preview", h.PreviewPost)
	}

	studioV1 := router.Group("studio/v1")
	{
		studioV1.GET("/state", h.GetViewState)
		studioV1.PUT("/state", h.PutViewState)
	}
}

type handler struct {
	studio *application.Studio
}

// NewRouter builds the gin engine with logging and panic recovery and the
// studio routes registered.
func NewRouter(studio *application.Studio) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.LoggingMiddleware())
	router.Use(gin.CustomRecovery(middleware.HandlePanics()))
	NewApi(router, studio)
	return router
}
