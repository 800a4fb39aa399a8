package rest

import (
	"net/http"

	"github.com/dfryer1193/studio/api"
	"github.com/dfryer1193/studio/blog/domain"
	"github.com/gin-gonic/gin"
)

func (h *handler) GetViewState(c *gin.Context) {
	c.JSON(http.StatusOK, h.viewState())
}

// PutViewState updates the selection, search query and status filter. The
// filter is validated before anything is applied.
func (h *handler) PutViewState(c *gin.Context) {
	req := &api.ViewState{}
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, api.Error{Error: err.Error()})
		return
	}

	var filter domain.StatusFilter
	if req.StatusFilter != nil {
		parsed, err := domain.ParseStatusFilter(*req.StatusFilter)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.Error{Error: err.Error()})
			return
		}
		filter = parsed
	}

	var selected *domain.Post
	if req.SelectedID != nil && *req.SelectedID != "" {
		post, ok := h.studio.GetPost(c.Request.Context(), *req.SelectedID)
		if !ok {
			notFound(c, *req.SelectedID)
			return
		}
		selected = &post
	}

	if req.SelectedID != nil {
		h.studio.SetSelected(selected)
	}
	if req.SearchQuery != nil {
		h.studio.SetSearchQuery(*req.SearchQuery)
	}
	if req.StatusFilter != nil {
		h.studio.SetStatusFilter(filter)
	}

	c.JSON(http.StatusOK, h.viewState())
}

func (h *handler) viewState() api.ViewState {
	query := h.studio.SearchQuery()
	filter := string(h.studio.StatusFilter())
	state := api.ViewState{
		SearchQuery:  &query,
		StatusFilter: &filter,
	}
	if post, ok := h.studio.Selected(); ok {
		state.SelectedID = &post.ID
	}
	return state
}
