package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"nidhi-backend-go/internal/models"
)

const (
	campaignsCollection     = "campaigns"
	contributionsCollection = "contributions"
	counterCollection       = "campaign_counter"
	counterDocID            = "counter"
)

// Common sentinel errors for Firestore repositories.
var (
	// ErrNotFound is returned when a requested document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrCounterMissing is returned when the campaign counter document is
	// absent. Creation fails outright in that case; the counter is never
	// auto-initialized, so an already-confirmed on-chain listing is left
	// without a store record. The caller surfaces this rather than hiding it.
	ErrCounterMissing = errors.New("campaign counter document does not exist")
	// ErrAlreadyClosed is returned when closing a campaign whose isActive
	// flag has already been flipped. The flag flips exactly once.
	ErrAlreadyClosed = errors.New("campaign is already closed")
)

// firestoreCampaignRepository implements CampaignRepository using Firestore.
type firestoreCampaignRepository struct {
	client *firestore.Client
}

// NewFirestoreCampaignRepository creates a new instance of firestoreCampaignRepository.
func NewFirestoreCampaignRepository(client *firestore.Client) CampaignRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for CampaignRepository.")
	}
	return &firestoreCampaignRepository{client: client}
}

func campaignDocID(campaignID int64) string {
	return strconv.FormatInt(campaignID, 10)
}

// CreateWithNextID allocates the next campaign ID and writes the campaign
// document in one transaction. The counter's campaign_id field holds the last
// assigned ID; concurrent creators serialize on the counter read, so IDs are
// strictly increasing by one and never collide.
func (r *firestoreCampaignRepository) CreateWithNextID(ctx context.Context, campaign *models.Campaign) (int64, error) {
	counterRef := r.client.Collection(counterCollection).Doc(counterDocID)

	var assignedID int64
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		counterSnap, err := tx.Get(counterRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrCounterMissing
			}
			return fmt.Errorf("failed to read campaign counter: %w", err)
		}

		var counter models.CampaignCounter
		if err := counterSnap.DataTo(&counter); err != nil {
			return fmt.Errorf("failed to decode campaign counter: %w", err)
		}

		assignedID = counter.CampaignID + 1
		campaign.CampaignID = assignedID

		if err := tx.Update(counterRef, []firestore.Update{
			{Path: "campaign_id", Value: assignedID},
		}); err != nil {
			return fmt.Errorf("failed to advance campaign counter: %w", err)
		}

		campaignRef := r.client.Collection(campaignsCollection).Doc(campaignDocID(assignedID))
		if err := tx.Create(campaignRef, campaign); err != nil {
			return fmt.Errorf("failed to create campaign document: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return assignedID, nil
}

// GetByID retrieves a campaign document by its numeric ID.
func (r *firestoreCampaignRepository) GetByID(ctx context.Context, campaignID int64) (*models.Campaign, error) {
	docSnap, err := r.client.Collection(campaignsCollection).Doc(campaignDocID(campaignID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("campaign %d not found: %w", campaignID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get campaign %d: %w", campaignID, err)
	}

	var campaign models.Campaign
	if err := docSnap.DataTo(&campaign); err != nil {
		return nil, fmt.Errorf("failed to decode campaign %d: %w", campaignID, err)
	}
	return &campaign, nil
}

// List retrieves all campaigns ordered by newest first.
func (r *firestoreCampaignRepository) List(ctx context.Context) ([]*models.Campaign, error) {
	query := r.client.Collection(campaignsCollection).OrderBy("campaignId", firestore.Desc)
	return r.collectCampaigns(ctx, query)
}

// ListByOwner retrieves all campaigns owned by a specific user.
func (r *firestoreCampaignRepository) ListByOwner(ctx context.Context, userID string) ([]*models.Campaign, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for ListByOwner operation")
	}
	query := r.client.Collection(campaignsCollection).Where("userId", "==", userID).OrderBy("campaignId", firestore.Desc)
	return r.collectCampaigns(ctx, query)
}

func (r *firestoreCampaignRepository) collectCampaigns(ctx context.Context, query firestore.Query) ([]*models.Campaign, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var campaigns []*models.Campaign
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate campaigns: %w", err)
		}

		var campaign models.Campaign
		if err := doc.DataTo(&campaign); err != nil {
			// Malformed documents are rejected at the store boundary, not
			// silently coerced. Log and skip so one bad document does not
			// take down the whole listing.
			log.Printf("Error decoding campaign document %s: %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		campaigns = append(campaigns, &campaign)
	}
	return campaigns, nil
}

// ApplyContribution increments the campaign's amountRaised and writes the
// contribution record in one transaction. The increment is a field transform,
// so concurrent contributions of X and Y always land as X+Y rather than the
// last write clobbering an interleaved one.
func (r *firestoreCampaignRepository) ApplyContribution(ctx context.Context, campaignID int64, contribution *models.Contribution) error {
	campaignRef := r.client.Collection(campaignsCollection).Doc(campaignDocID(campaignID))
	contributionRef := r.client.Collection(contributionsCollection).NewDoc()
	contribution.ID = contributionRef.ID
	contribution.CampaignID = campaignID

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		campaignSnap, err := tx.Get(campaignRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return fmt.Errorf("campaign %d not found: %w", campaignID, ErrNotFound)
			}
			return fmt.Errorf("failed to read campaign %d: %w", campaignID, err)
		}

		var campaign models.Campaign
		if err := campaignSnap.DataTo(&campaign); err != nil {
			return fmt.Errorf("failed to decode campaign %d: %w", campaignID, err)
		}
		if !campaign.IsActive {
			return fmt.Errorf("campaign %d: %w", campaignID, ErrAlreadyClosed)
		}

		if err := tx.Update(campaignRef, []firestore.Update{
			{Path: "amountRaised", Value: firestore.Increment(contribution.Amount)},
		}); err != nil {
			return fmt.Errorf("failed to increment amountRaised for campaign %d: %w", campaignID, err)
		}

		if err := tx.Create(contributionRef, contribution); err != nil {
			return fmt.Errorf("failed to record contribution for campaign %d: %w", campaignID, err)
		}
		return nil
	})
}

// Close flips the campaign's isActive flag to false, exactly once.
func (r *firestoreCampaignRepository) Close(ctx context.Context, campaignID int64) error {
	campaignRef := r.client.Collection(campaignsCollection).Doc(campaignDocID(campaignID))

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		campaignSnap, err := tx.Get(campaignRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return fmt.Errorf("campaign %d not found: %w", campaignID, ErrNotFound)
			}
			return fmt.Errorf("failed to read campaign %d: %w", campaignID, err)
		}

		var campaign models.Campaign
		if err := campaignSnap.DataTo(&campaign); err != nil {
			return fmt.Errorf("failed to decode campaign %d: %w", campaignID, err)
		}
		if !campaign.IsActive {
			return fmt.Errorf("campaign %d: %w", campaignID, ErrAlreadyClosed)
		}

		return tx.Update(campaignRef, []firestore.Update{
			{Path: "isActive", Value: false},
		})
	})
}
