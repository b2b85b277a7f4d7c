package api

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"nidhi-backend-go/internal/core"
	"nidhi-backend-go/internal/models"
)

// ForumHandler handles the per-campaign comment/reply forum endpoints.
type ForumHandler struct {
	forumService core.ForumService
}

// NewForumHandler creates a new ForumHandler.
func NewForumHandler(fs core.ForumService) *ForumHandler {
	return &ForumHandler{forumService: fs}
}

func mapForumErrorToStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrCommentNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: core.ErrCommentNotFound.Error()})
	case errors.Is(err, core.ErrEmptyText):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: core.ErrEmptyText.Error()})
	default:
		log.Printf("Internal Server Error in ForumHandler: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred"})
	}
}

// authorFromContext pulls the authenticated author identity for forum writes.
func authorFromContext(c *gin.Context) (authorID, authorName string, ok bool) {
	authorID, ok = authenticatedUserID(c)
	if !ok {
		return "", "", false
	}
	rawName, _ := c.Get("userDisplayName")
	authorName, _ = rawName.(string)
	return authorID, authorName, true
}

// PostComment handles POST /api/campaigns/:campaignId/comments.
func (h *ForumHandler) PostComment(c *gin.Context) {
	authorID, authorName, ok := authorFromContext(c)
	if !ok {
		return
	}
	campaignID, ok := campaignIDParam(c)
	if !ok {
		return
	}

	var req models.PostCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Comment text is required"})
		return
	}

	comment, err := h.forumService.PostComment(c.Request.Context(), campaignID, authorID, authorName, req.Text)
	if err != nil {
		mapForumErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// PostReply handles POST /api/campaigns/:campaignId/comments/:commentId/replies.
func (h *ForumHandler) PostReply(c *gin.Context) {
	authorID, authorName, ok := authorFromContext(c)
	if !ok {
		return
	}
	campaignID, ok := campaignIDParam(c)
	if !ok {
		return
	}
	commentID := c.Param("commentId")
	if commentID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Comment ID is required in path"})
		return
	}

	var req models.PostReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Reply text is required"})
		return
	}

	reply, err := h.forumService.PostReply(c.Request.Context(), campaignID, commentID, authorID, authorName, req.Text)
	if err != nil {
		mapForumErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, reply)
}

// ListComments handles GET /api/campaigns/:campaignId/comments.
func (h *ForumHandler) ListComments(c *gin.Context) {
	campaignID, ok := campaignIDParam(c)
	if !ok {
		return
	}
	comments, err := h.forumService.ListComments(c.Request.Context(), campaignID)
	if err != nil {
		mapForumErrorToStatus(c, err)
		return
	}
	if comments == nil {
		comments = []*models.Comment{}
	}
	c.JSON(http.StatusOK, comments)
}

// StreamComments handles GET /api/campaigns/:campaignId/comments/stream,
// pushing the full comment list as a server-sent event on every change.
func (h *ForumHandler) StreamComments(c *gin.Context) {
	campaignID, ok := campaignIDParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	updates, err := h.forumService.WatchComments(ctx, campaignID)
	if err != nil {
		mapForumErrorToStatus(c, err)
		return
	}

	c.Stream(func(w io.Writer) bool {
		select {
		case comments, open := <-updates:
			if !open {
				return false
			}
			c.SSEvent("comments", comments)
			return true
		case <-ctx.Done():
			return false
		}
	})
}
