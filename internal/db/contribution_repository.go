package db

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"nidhi-backend-go/internal/models"
)

// firestoreContributionRepository implements ContributionRepository.
// It is read-only: contribution documents are written through
// CampaignRepository.ApplyContribution and are immutable afterwards.
type firestoreContributionRepository struct {
	client *firestore.Client
}

// NewFirestoreContributionRepository creates a new instance of firestoreContributionRepository.
func NewFirestoreContributionRepository(client *firestore.Client) ContributionRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for ContributionRepository.")
	}
	return &firestoreContributionRepository{client: client}
}

func (r *firestoreContributionRepository) query(campaignID int64) firestore.Query {
	return r.client.Collection(contributionsCollection).
		Where("campaignId", "==", campaignID).
		OrderBy("timestamp", firestore.Desc)
}

// ListByCampaign retrieves all contributions for a campaign, newest first.
func (r *firestoreContributionRepository) ListByCampaign(ctx context.Context, campaignID int64) ([]*models.Contribution, error) {
	iter := r.query(campaignID).Documents(ctx)
	defer iter.Stop()
	return collectContributions(iter)
}

// Watch streams the full contribution list on every change until ctx is
// cancelled.
func (r *firestoreContributionRepository) Watch(ctx context.Context, campaignID int64) (<-chan []*models.Contribution, error) {
	snapIter := r.query(campaignID).Snapshots(ctx)
	out := make(chan []*models.Contribution)

	go func() {
		defer close(out)
		defer snapIter.Stop()
		for {
			snap, err := snapIter.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					log.Printf("Contribution watch for campaign %d ended: %v", campaignID, err)
				}
				return
			}
			contributions, err := collectContributions(snap.Documents)
			if err != nil {
				log.Printf("Error decoding contribution snapshot for campaign %d: %v", campaignID, err)
				continue
			}
			select {
			case out <- contributions:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func collectContributions(iter *firestore.DocumentIterator) ([]*models.Contribution, error) {
	var contributions []*models.Contribution
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate contributions: %w", err)
		}

		var contribution models.Contribution
		if err := doc.DataTo(&contribution); err != nil {
			log.Printf("Error decoding contribution document %s: %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		contribution.ID = doc.Ref.ID
		contributions = append(contributions, &contribution)
	}
	return contributions, nil
}
