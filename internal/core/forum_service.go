package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"nidhi-backend-go/internal/db"
	"nidhi-backend-go/internal/models"
)

// Custom errors for the ForumService.
var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrEmptyText       = errors.New("comment text cannot be empty")
)

// forumService implements the ForumService interface. Comments and replies
// are append-only: nothing in the forum is ever edited or deleted.
type forumService struct {
	commentRepo db.CommentRepository
}

// NewForumService creates a new ForumService instance.
func NewForumService(commentRepo db.CommentRepository) ForumService {
	return &forumService{commentRepo: commentRepo}
}

// PostComment adds a comment to the campaign's forum.
func (s *forumService) PostComment(ctx context.Context, campaignID int64, authorID, authorName, text string) (*models.Comment, error) {
	if s.commentRepo == nil {
		return nil, errors.New("forumService: CommentRepository not initialized")
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if authorName == "" {
		authorName = "Anonymous"
	}

	comment := &models.Comment{
		AuthorID:   authorID,
		AuthorName: authorName,
		Text:       text,
		CreatedAt:  time.Now().UTC(),
		Replies:    []models.Reply{},
	}

	id, err := s.commentRepo.Create(ctx, campaignID, comment)
	if err != nil {
		return nil, fmt.Errorf("failed to post comment on campaign %d: %w", campaignID, err)
	}
	comment.ID = id
	return comment, nil
}

// PostReply appends a reply to an existing comment.
func (s *forumService) PostReply(ctx context.Context, campaignID int64, commentID, authorID, authorName, text string) (*models.Reply, error) {
	if s.commentRepo == nil {
		return nil, errors.New("forumService: CommentRepository not initialized")
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if authorName == "" {
		authorName = "Anonymous"
	}

	reply := &models.Reply{
		AuthorID:   authorID,
		AuthorName: authorName,
		Text:       text,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.commentRepo.AddReply(ctx, campaignID, commentID, reply); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to post reply to comment %s: %w", commentID, err)
	}
	return reply, nil
}

// ListComments returns the campaign's comments, oldest first.
func (s *forumService) ListComments(ctx context.Context, campaignID int64) ([]*models.Comment, error) {
	comments, err := s.commentRepo.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments for campaign %d: %w", campaignID, err)
	}
	return comments, nil
}

// WatchComments streams comment snapshots until ctx is cancelled.
func (s *forumService) WatchComments(ctx context.Context, campaignID int64) (<-chan []*models.Comment, error) {
	return s.commentRepo.Watch(ctx, campaignID)
}
