package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"nidhi-backend-go/internal/models"
)

const commentsSubcollection = "comments"

// firestoreCommentRepository implements CommentRepository using the
// "comments" subcollection under each campaign document.
type firestoreCommentRepository struct {
	client *firestore.Client
}

// NewFirestoreCommentRepository creates a new instance of firestoreCommentRepository.
func NewFirestoreCommentRepository(client *firestore.Client) CommentRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for CommentRepository.")
	}
	return &firestoreCommentRepository{client: client}
}

func (r *firestoreCommentRepository) commentsRef(campaignID int64) *firestore.CollectionRef {
	return r.client.Collection(campaignsCollection).Doc(campaignDocID(campaignID)).Collection(commentsSubcollection)
}

// Create adds a new comment document with an auto-generated ID.
func (r *firestoreCommentRepository) Create(ctx context.Context, campaignID int64, comment *models.Comment) (string, error) {
	if comment.Replies == nil {
		comment.Replies = []models.Reply{}
	}
	docRef := r.commentsRef(campaignID).NewDoc()
	comment.ID = docRef.ID

	if _, err := docRef.Create(ctx, comment); err != nil {
		return "", fmt.Errorf("failed to create comment for campaign %d: %w", campaignID, err)
	}
	return docRef.ID, nil
}

// AddReply appends a reply to the comment's embedded replies array.
func (r *firestoreCommentRepository) AddReply(ctx context.Context, campaignID int64, commentID string, reply *models.Reply) error {
	if commentID == "" {
		return errors.New("commentID cannot be empty for AddReply operation")
	}
	_, err := r.commentsRef(campaignID).Doc(commentID).Update(ctx, []firestore.Update{
		{Path: "replies", Value: firestore.ArrayUnion(reply)},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("comment %s on campaign %d not found: %w", commentID, campaignID, ErrNotFound)
		}
		return fmt.Errorf("failed to append reply to comment %s: %w", commentID, err)
	}
	return nil
}

// ListByCampaign retrieves all comments for a campaign, oldest first.
func (r *firestoreCommentRepository) ListByCampaign(ctx context.Context, campaignID int64) ([]*models.Comment, error) {
	iter := r.commentsRef(campaignID).Documents(ctx)
	defer iter.Stop()
	return collectComments(iter)
}

// Watch streams the full comment list on every change until ctx is cancelled.
// Mirrors the client-side snapshot subscription the detail view relies on.
func (r *firestoreCommentRepository) Watch(ctx context.Context, campaignID int64) (<-chan []*models.Comment, error) {
	snapIter := r.commentsRef(campaignID).Snapshots(ctx)
	out := make(chan []*models.Comment)

	go func() {
		defer close(out)
		defer snapIter.Stop()
		for {
			snap, err := snapIter.Next()
			if err != nil {
				// ctx cancellation surfaces here; either way the watch ends.
				if status.Code(err) != codes.Canceled {
					log.Printf("Comment watch for campaign %d ended: %v", campaignID, err)
				}
				return
			}
			comments, err := collectComments(snap.Documents)
			if err != nil {
				log.Printf("Error decoding comment snapshot for campaign %d: %v", campaignID, err)
				continue
			}
			select {
			case out <- comments:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func collectComments(iter *firestore.DocumentIterator) ([]*models.Comment, error) {
	var comments []*models.Comment
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate comments: %w", err)
		}

		var comment models.Comment
		if err := doc.DataTo(&comment); err != nil {
			log.Printf("Error decoding comment document %s: %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		comment.ID = doc.Ref.ID
		comments = append(comments, &comment)
	}

	// Ordered in memory rather than by an OrderBy clause so that legacy
	// documents without a createdAt value still appear.
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}
