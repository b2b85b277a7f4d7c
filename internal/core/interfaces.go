package core

import (
	"context"

	"nidhi-backend-go/internal/models"
)

// OTPService defines the interface for one-time-passcode operations.
type OTPService interface {
	// Generate issues a fresh 6-digit code for the email, stores it with a
	// 5-minute expiry and emails it through the SMTP relay. Exactly one
	// outbound email per call; repeated calls overwrite the prior code.
	Generate(ctx context.Context, email string) error
	// Verify consumes the code for the email. A successfully verified code
	// cannot be replayed.
	Verify(ctx context.Context, email, code string) error
}

// CampaignService defines the interface for campaign lifecycle operations.
type CampaignService interface {
	Create(ctx context.Context, userID string, req models.CreateCampaignRequest) (*models.Campaign, error)
	Get(ctx context.Context, campaignID int64) (*models.Campaign, error)
	List(ctx context.Context) ([]*models.Campaign, error)
	ListMine(ctx context.Context, userID string) ([]*models.Campaign, error)
	Contribute(ctx context.Context, campaignID int64, contributorName string, req models.ContributeRequest) (*models.Contribution, error)
	ListContributions(ctx context.Context, campaignID int64) ([]*models.Contribution, error)
	WatchContributions(ctx context.Context, campaignID int64) (<-chan []*models.Contribution, error)
	// Close flips the campaign inactive, once, and only for its owner.
	Close(ctx context.Context, userID string, campaignID int64) error
}

// ForumService defines the interface for the per-campaign comment/reply forum.
type ForumService interface {
	PostComment(ctx context.Context, campaignID int64, authorID, authorName, text string) (*models.Comment, error)
	PostReply(ctx context.Context, campaignID int64, commentID, authorID, authorName, text string) (*models.Reply, error)
	ListComments(ctx context.Context, campaignID int64) ([]*models.Comment, error)
	WatchComments(ctx context.Context, campaignID int64) (<-chan []*models.Comment, error)
}

// ModerationResult carries the verdict on a campaign proposal together with
// the model's raw explanation, which is returned regardless of the verdict.
type ModerationResult struct {
	IsValid     bool   `json:"isValid"`
	Explanation string `json:"explanation"`
}

// ModerationService defines the interface for campaign-proposal moderation.
type ModerationService interface {
	Validate(ctx context.Context, title, description, targetAmount string) (*ModerationResult, error)
}
