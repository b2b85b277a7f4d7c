package db

import (
	"context"

	"nidhi-backend-go/internal/models"
)

// CampaignRepository defines the interface for campaign data storage operations.
type CampaignRepository interface {
	// CreateWithNextID atomically allocates the next campaign ID from the
	// counter document and creates the campaign document under that ID, in a
	// single store transaction. Returns the assigned ID.
	// Fails with ErrCounterMissing when the counter document does not exist.
	CreateWithNextID(ctx context.Context, campaign *models.Campaign) (int64, error)
	GetByID(ctx context.Context, campaignID int64) (*models.Campaign, error)
	List(ctx context.Context) ([]*models.Campaign, error)
	ListByOwner(ctx context.Context, userID string) ([]*models.Campaign, error)
	// ApplyContribution atomically increments the campaign's amountRaised and
	// records the contribution document in the same transaction.
	ApplyContribution(ctx context.Context, campaignID int64, contribution *models.Contribution) error
	// Close flips isActive to false. Fails with ErrNotFound for an unknown
	// campaign and ErrAlreadyClosed when isActive is already false.
	Close(ctx context.Context, campaignID int64) error
}

// CommentRepository defines the interface for forum comment storage operations.
type CommentRepository interface {
	Create(ctx context.Context, campaignID int64, comment *models.Comment) (string, error)
	// AddReply appends a reply to the comment's embedded replies array.
	// Replies are never removed or edited.
	AddReply(ctx context.Context, campaignID int64, commentID string, reply *models.Reply) error
	ListByCampaign(ctx context.Context, campaignID int64) ([]*models.Comment, error)
	// Watch delivers the full comment list on every change until ctx is done.
	Watch(ctx context.Context, campaignID int64) (<-chan []*models.Comment, error)
}

// ContributionRepository defines the interface for reading contribution records.
// Writes happen through CampaignRepository.ApplyContribution so that the
// raise-amount update and the record share one transaction.
type ContributionRepository interface {
	ListByCampaign(ctx context.Context, campaignID int64) ([]*models.Contribution, error)
	Watch(ctx context.Context, campaignID int64) (<-chan []*models.Contribution, error)
}

// OTPRepository defines the interface for one-time-passcode storage operations.
type OTPRepository interface {
	// Upsert stores the record keyed by email, overwriting any prior live code.
	Upsert(ctx context.Context, email string, record *models.OTPRecord) error
	// Consume performs the read-check-delete sequence in one transaction:
	// ErrNotFound when no record exists, ErrOTPExpired (record deleted) when
	// nowMillis is past the expiry, ErrOTPMismatch (record kept) on a wrong
	// code, and nil (record deleted) on an exact match. The transactional
	// delete means a code can be accepted at most once, even under
	// concurrent verification attempts.
	Consume(ctx context.Context, email, code string, nowMillis int64) error
}
