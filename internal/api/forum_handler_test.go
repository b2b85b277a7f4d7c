package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nidhi-backend-go/internal/core"
	"nidhi-backend-go/internal/models"
)

// stubForumService returns canned comments and errors.
type stubForumService struct {
	comment  *models.Comment
	reply    *models.Reply
	comments []*models.Comment
	err      error

	lastAuthorID   string
	lastAuthorName string
	lastText       string
}

func (s *stubForumService) PostComment(_ context.Context, _ int64, authorID, authorName, text string) (*models.Comment, error) {
	s.lastAuthorID = authorID
	s.lastAuthorName = authorName
	s.lastText = text
	return s.comment, s.err
}

func (s *stubForumService) PostReply(_ context.Context, _ int64, _, authorID, authorName, text string) (*models.Reply, error) {
	s.lastAuthorID = authorID
	s.lastAuthorName = authorName
	s.lastText = text
	return s.reply, s.err
}

func (s *stubForumService) ListComments(_ context.Context, _ int64) ([]*models.Comment, error) {
	return s.comments, s.err
}

func (s *stubForumService) WatchComments(ctx context.Context, _ int64) (<-chan []*models.Comment, error) {
	ch := make(chan []*models.Comment)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

func newForumRouter(svc core.ForumService, auth gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if auth != nil {
		router.Use(auth)
	}
	handler := NewForumHandler(svc)
	router.GET("/api/campaigns/:campaignId/comments", handler.ListComments)
	router.POST("/api/campaigns/:campaignId/comments", handler.PostComment)
	router.POST("/api/campaigns/:campaignId/comments/:commentId/replies", handler.PostReply)
	return router
}

func TestForumHandler_PostComment(t *testing.T) {
	t.Run("posts with the authenticated identity", func(t *testing.T) {
		svc := &stubForumService{comment: &models.Comment{ID: "comment-1", Text: "hello"}}
		router := newForumRouter(svc, fakeAuth("uid-1", "Asha"))

		rec := postJSON(t, router, "/api/campaigns/1/comments", gin.H{"text": "hello"})
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "uid-1", svc.lastAuthorID)
		assert.Equal(t, "Asha", svc.lastAuthorName)
		assert.Equal(t, "hello", svc.lastText)
	})

	t.Run("unauthenticated is a 401", func(t *testing.T) {
		rec := postJSON(t, newForumRouter(&stubForumService{}, nil), "/api/campaigns/1/comments", gin.H{"text": "hello"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing text is a 400", func(t *testing.T) {
		router := newForumRouter(&stubForumService{}, fakeAuth("uid-1", ""))
		rec := postJSON(t, router, "/api/campaigns/1/comments", gin.H{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("blank text is a 400", func(t *testing.T) {
		svc := &stubForumService{err: core.ErrEmptyText}
		router := newForumRouter(svc, fakeAuth("uid-1", ""))
		rec := postJSON(t, router, "/api/campaigns/1/comments", gin.H{"text": "   "})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestForumHandler_PostReply(t *testing.T) {
	t.Run("replies under the parent comment", func(t *testing.T) {
		svc := &stubForumService{reply: &models.Reply{Text: "child"}}
		router := newForumRouter(svc, fakeAuth("uid-2", "Ravi"))

		rec := postJSON(t, router, "/api/campaigns/1/comments/comment-1/replies", gin.H{"text": "child"})
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "Ravi", svc.lastAuthorName)
	})

	t.Run("unknown parent comment is a 404", func(t *testing.T) {
		svc := &stubForumService{err: core.ErrCommentNotFound}
		router := newForumRouter(svc, fakeAuth("uid-2", ""))

		rec := postJSON(t, router, "/api/campaigns/1/comments/no-such/replies", gin.H{"text": "child"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestForumHandler_ListComments(t *testing.T) {
	t.Run("nil list serializes as an empty array", func(t *testing.T) {
		rec := getPath(t, newForumRouter(&stubForumService{}, nil), "/api/campaigns/1/comments")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("returns comments with embedded replies", func(t *testing.T) {
		svc := &stubForumService{comments: []*models.Comment{
			{ID: "comment-1", Text: "parent", Replies: []models.Reply{{Text: "child"}}},
		}}
		rec := getPath(t, newForumRouter(svc, nil), "/api/campaigns/1/comments")
		require.Equal(t, http.StatusOK, rec.Code)

		var comments []*models.Comment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comments))
		require.Len(t, comments, 1)
		require.Len(t, comments[0].Replies, 1)
		assert.Equal(t, "child", comments[0].Replies[0].Text)
	})

	t.Run("bad campaign ID is a 400", func(t *testing.T) {
		rec := getPath(t, newForumRouter(&stubForumService{}, nil), "/api/campaigns/zero/comments")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
