package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/discuss/models"
	"github.com/cppla/discuss/services"
	"github.com/cppla/discuss/utils"
)

// ContentController serves answers, comments and votes.
type ContentController struct {
	content *services.ContentService
}

// NewContentController creates a new ContentController instance.
func NewContentController(content *services.ContentService) *ContentController {
	return &ContentController{content: content}
}

// CreateAnswer posts an answer to the discussion in the path.
func (c *ContentController) CreateAnswer(ctx *gin.Context) {
	discussionID, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var req contentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	answer, err := c.content.CreateAnswer(ctx.Request.Context(), discussionID, req.Content, user)
	if err != nil {
		renderError(ctx, err)
		return
	}
	utils.Created(ctx, gin.H{"answer": answer})
}

// ListAnswers returns the answers of a discussion with their vote counts.
func (c *ContentController) ListAnswers(ctx *gin.Context) {
	discussionID, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	items, err := c.content.ListAnswersForDiscussion(ctx.Request.Context(), discussionID)
	if err != nil {
		renderError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": items, "total": len(items)})
}

// GetAnswer returns the first answer of a discussion.
func (c *ContentController) GetAnswer(ctx *gin.Context) {
	discussionID, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	answer, found, err := c.content.GetAnswer(ctx.Request.Context(), discussionID)
	if err != nil {
		renderError(ctx, err)
		return
	}
	if !found {
		utils.Error(ctx, http.StatusNotFound, 40403, "answer not found")
		return
	}
	utils.Success(ctx, gin.H{"answer": answer})
}

// GetAnswerByID returns one answer by its own id.
func (c *ContentController) GetAnswerByID(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	answer, found, err := c.content.GetAnswerByID(ctx.Request.Context(), id)
	if err != nil {
		renderError(ctx, err)
		return
	}
	if !found {
		utils.Error(ctx, http.StatusNotFound, 40403, "answer not found")
		return
	}
	utils.Success(ctx, gin.H{"answer": answer})
}

// VoteAnswer records one vote and returns the new tally.
func (c *ContentController) VoteAnswer(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	votes, err := c.content.VoteAnswer(ctx.Request.Context(), id)
	if err != nil {
		renderError(ctx, err)
		return
	}
	utils.Created(ctx, gin.H{"answerid": id, "votes": votes})
}

// CreateComment posts a comment on an answer of a discussion.
func (c *ContentController) CreateComment(ctx *gin.Context) {
	discussionID, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	answerID, ok := parseID(ctx, "answerId")
	if !ok {
		return
	}
	var req contentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	comment, err := c.content.CreateComment(ctx.Request.Context(), discussionID, answerID, req.Content, user)
	if err != nil {
		renderError(ctx, err)
		return
	}
	utils.Created(ctx, gin.H{"comment": comment})
}

// ListCommentsForAnswerInDiscussion returns the comments of one answer,
// scoped to the discussion in the path.
func (c *ContentController) ListCommentsForAnswerInDiscussion(ctx *gin.Context) {
	discussionID, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	answerID, ok := parseID(ctx, "answerId")
	if !ok {
		return
	}
	items, err := c.content.GetComment(ctx.Request.Context(), discussionID, answerID)
	if err != nil {
		renderError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": items, "total": len(items)})
}

// ListCommentsForDiscussion returns every visible comment in a discussion.
func (c *ContentController) ListCommentsForDiscussion(ctx *gin.Context) {
	discussionID, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	items, err := c.content.ListCommentsForDiscussion(ctx.Request.Context(), discussionID)
	if err != nil {
		renderError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": items, "total": len(items)})
}

// ListCommentsForAnswer returns the comments of an answer.
func (c *ContentController) ListCommentsForAnswer(ctx *gin.Context) {
	answerID, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	items, err := c.content.ListCommentsForAnswer(ctx.Request.Context(), answerID)
	if err != nil {
		renderError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": items, "total": len(items)})
}

// VoteComment records one vote and returns the new tally.
func (c *ContentController) VoteComment(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	votes, err := c.content.VoteComment(ctx.Request.Context(), id)
	if err != nil {
		renderError(ctx, err)
		return
	}
	utils.Created(ctx, gin.H{"commentid": id, "votes": votes})
}

// GetVoteCount returns the tally for /votes/:kind/:id.
func (c *ContentController) GetVoteCount(ctx *gin.Context) {
	kind, err := models.ParseVoteKind(ctx.Param("kind"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40002, err.Error())
		return
	}
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	votes, err := c.content.GetVoteCount(ctx.Request.Context(), id, kind)
	if err != nil {
		renderError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"kind": kind, "id": id, "votes": votes})
}
