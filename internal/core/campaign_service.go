package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"nidhi-backend-go/internal/db"
	"nidhi-backend-go/internal/models"
	"nidhi-backend-go/pkg/cache"
)

// Custom errors for the CampaignService.
var (
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrCampaignClosed   = errors.New("campaign is not active")
	// ErrCounterMissing mirrors the store-level condition: the singleton
	// counter document is absent, so no ID can be assigned. The on-chain
	// listing the client already confirmed stays orphaned; there is no
	// compensating transaction on a wallet-signed ledger write.
	ErrCounterMissing  = errors.New("campaign counter is not provisioned")
	ErrForbiddenAccess = errors.New("user does not own this campaign")
	ErrInvalidTarget   = errors.New("target amount must be a positive decimal number")
)

const (
	campaignListCacheKey = "campaigns:list"
	campaignListCacheTTL = 30 * time.Second
)

// campaignService implements the CampaignService interface.
type campaignService struct {
	campaignRepo     db.CampaignRepository
	contributionRepo db.ContributionRepository
	listCache        cache.Cache // optional; nil disables caching
}

// NewCampaignService creates a new CampaignService instance. listCache may be
// nil, which disables the campaign-list read cache.
func NewCampaignService(cr db.CampaignRepository, contrib db.ContributionRepository, listCache cache.Cache) CampaignService {
	return &campaignService{
		campaignRepo:     cr,
		contributionRepo: contrib,
		listCache:        listCache,
	}
}

// Create assigns the next campaign ID and persists the campaign. The caller
// has already confirmed the createListing transaction through its wallet and
// passes the receipt hash along; the store write is the only thing this
// process performs.
func (s *campaignService) Create(ctx context.Context, userID string, req models.CreateCampaignRequest) (*models.Campaign, error) {
	if s.campaignRepo == nil {
		return nil, errors.New("campaignService: CampaignRepository not initialized")
	}
	if userID == "" {
		return nil, errors.New("userID is required to create a campaign")
	}

	target, err := strconv.ParseFloat(req.TargetAmount, 64)
	if err != nil || target <= 0 {
		return nil, ErrInvalidTarget
	}

	campaign := &models.Campaign{
		Title:           req.Title,
		Description:     req.Description,
		TargetAmount:    req.TargetAmount,
		AmountRaised:    0,
		Creator:         req.Creator,
		UserID:          userID,
		IsActive:        true,
		CreatedAt:       time.Now().UTC(),
		TransactionHash: req.TransactionHash,
	}

	if _, err := s.campaignRepo.CreateWithNextID(ctx, campaign); err != nil {
		if errors.Is(err, db.ErrCounterMissing) {
			return nil, ErrCounterMissing
		}
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	s.invalidateListCache()
	return campaign, nil
}

// Get retrieves one campaign by its numeric ID.
func (s *campaignService) Get(ctx context.Context, campaignID int64) (*models.Campaign, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to get campaign %d: %w", campaignID, err)
	}
	return campaign, nil
}

// List returns every campaign, newest first, through the short-TTL read cache
// when one is configured. Cache failures fall through to the store.
func (s *campaignService) List(ctx context.Context) ([]*models.Campaign, error) {
	if s.listCache != nil {
		if cached, err := s.listCache.Get(campaignListCacheKey); err == nil && cached != "" {
			var campaigns []*models.Campaign
			if err := json.Unmarshal([]byte(cached), &campaigns); err == nil {
				return campaigns, nil
			}
			// Undecodable cache entry; drop it and re-read the store.
			s.invalidateListCache()
		}
	}

	campaigns, err := s.campaignRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}

	if s.listCache != nil {
		if encoded, err := json.Marshal(campaigns); err == nil {
			if err := s.listCache.Set(campaignListCacheKey, string(encoded), campaignListCacheTTL); err != nil {
				log.Printf("Warning: failed to cache campaign list: %v", err)
			}
		}
	}
	return campaigns, nil
}

// ListMine returns the campaigns owned by the given user, newest first.
func (s *campaignService) ListMine(ctx context.Context, userID string) ([]*models.Campaign, error) {
	if userID == "" {
		return nil, errors.New("userID is required to list owned campaigns")
	}
	campaigns, err := s.campaignRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns for user %s: %w", userID, err)
	}
	return campaigns, nil
}

// Contribute applies a confirmed contribution: amountRaised is incremented
// atomically and the contribution record is written in the same transaction,
// so concurrent contributions of X and Y always total X+Y.
func (s *campaignService) Contribute(ctx context.Context, campaignID int64, contributorName string, req models.ContributeRequest) (*models.Contribution, error) {
	if req.Amount <= 0 {
		return nil, errors.New("contribution amount must be positive")
	}
	if contributorName == "" {
		contributorName = req.ContributorName
	}
	if contributorName == "" {
		contributorName = "Anonymous"
	}

	contribution := &models.Contribution{
		CampaignID:      campaignID,
		ContributorName: contributorName,
		Amount:          req.Amount,
	}

	if err := s.campaignRepo.ApplyContribution(ctx, campaignID, contribution); err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			return nil, ErrCampaignNotFound
		case errors.Is(err, db.ErrAlreadyClosed):
			return nil, ErrCampaignClosed
		}
		return nil, fmt.Errorf("failed to apply contribution to campaign %d: %w", campaignID, err)
	}

	s.invalidateListCache()
	return contribution, nil
}

// ListContributions returns the contributions for a campaign, newest first.
func (s *campaignService) ListContributions(ctx context.Context, campaignID int64) ([]*models.Contribution, error) {
	contributions, err := s.contributionRepo.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions for campaign %d: %w", campaignID, err)
	}
	return contributions, nil
}

// WatchContributions streams contribution snapshots until ctx is cancelled.
func (s *campaignService) WatchContributions(ctx context.Context, campaignID int64) (<-chan []*models.Contribution, error) {
	return s.contributionRepo.Watch(ctx, campaignID)
}

// Close flips the campaign inactive. Only the owner may close, and the flag
// flips exactly once; closing an already-closed campaign fails.
func (s *campaignService) Close(ctx context.Context, userID string, campaignID int64) error {
	campaign, err := s.Get(ctx, campaignID)
	if err != nil {
		return err
	}
	if campaign.UserID != userID {
		return ErrForbiddenAccess
	}

	if err := s.campaignRepo.Close(ctx, campaignID); err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			return ErrCampaignNotFound
		case errors.Is(err, db.ErrAlreadyClosed):
			return ErrCampaignClosed
		}
		return fmt.Errorf("failed to close campaign %d: %w", campaignID, err)
	}

	s.invalidateListCache()
	return nil
}

func (s *campaignService) invalidateListCache() {
	if s.listCache == nil {
		return
	}
	if err := s.listCache.Delete(campaignListCacheKey); err != nil {
		log.Printf("Warning: failed to invalidate campaign list cache: %v", err)
	}
}
