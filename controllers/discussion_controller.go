package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/discuss/services"
	"github.com/cppla/discuss/utils"
)

// DiscussionController serves the top-level threads.
type DiscussionController struct {
	discussions *services.DiscussionService
}

// NewDiscussionController creates a new DiscussionController instance.
func NewDiscussionController(discussions *services.DiscussionService) *DiscussionController {
	return &DiscussionController{discussions: discussions}
}

// CreateDiscussion opens a new thread owned by the caller.
func (d *DiscussionController) CreateDiscussion(ctx *gin.Context) {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	discussion, err := d.discussions.CreateDiscussion(ctx.Request.Context(), req.Title, req.Content, user)
	if err != nil {
		renderError(ctx, err)
		return
	}
	utils.Created(ctx, gin.H{"discussion": discussion})
}

// ListDiscussions returns visible discussions, newest first.
func (d *DiscussionController) ListDiscussions(ctx *gin.Context) {
	items, err := d.discussions.ListDiscussions(ctx.Request.Context())
	if err != nil {
		renderError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": items, "total": len(items)})
}

// GetDiscussion returns one discussion.
func (d *DiscussionController) GetDiscussion(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	discussion, found, err := d.discussions.GetDiscussion(ctx.Request.Context(), id)
	if err != nil {
		renderError(ctx, err)
		return
	}
	if !found {
		utils.Error(ctx, http.StatusNotFound, 40402, "discussion not found")
		return
	}
	utils.Success(ctx, gin.H{"discussion": discussion})
}
