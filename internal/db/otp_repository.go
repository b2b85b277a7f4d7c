package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"nidhi-backend-go/internal/models"
)

const otpsCollection = "otps"

// OTP verification sentinel errors.
var (
	// ErrOTPExpired is returned when the submitted code arrives past the
	// record's expiry. The record is deleted as a side effect.
	ErrOTPExpired = errors.New("otp expired")
	// ErrOTPMismatch is returned when the submitted code does not exactly
	// match the stored one. The record stays intact and retriable.
	ErrOTPMismatch = errors.New("otp does not match")
)

// firestoreOTPRepository implements OTPRepository using one document per
// email in the "otps" collection.
type firestoreOTPRepository struct {
	client *firestore.Client
}

// NewFirestoreOTPRepository creates a new instance of firestoreOTPRepository.
func NewFirestoreOTPRepository(client *firestore.Client) OTPRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for OTPRepository.")
	}
	return &firestoreOTPRepository{client: client}
}

// Upsert stores the record keyed by email. A prior live code for the same
// email is simply overwritten; there is no cooldown between issuances.
func (r *firestoreOTPRepository) Upsert(ctx context.Context, email string, record *models.OTPRecord) error {
	if email == "" {
		return errors.New("email cannot be empty for Upsert operation")
	}
	_, err := r.client.Collection(otpsCollection).Doc(email).Set(ctx, record)
	if err != nil {
		return fmt.Errorf("failed to store otp for %s: %w", email, err)
	}
	return nil
}

// Consume runs the read-check-delete sequence inside a single transaction.
// The delete commits together with the read, so two concurrent attempts with
// the same code cannot both succeed: the second transaction retries against
// the deleted document and fails with ErrNotFound.
func (r *firestoreOTPRepository) Consume(ctx context.Context, email, code string, nowMillis int64) error {
	docRef := r.client.Collection(otpsCollection).Doc(email)

	// A non-nil error returned from the transaction function rolls the
	// transaction back. The expired path must still commit its delete, so its
	// verdict is carried out of the transaction instead of returned from it.
	var verdict error
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		verdict = nil

		snap, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return fmt.Errorf("otp for %s: %w", email, ErrNotFound)
			}
			return fmt.Errorf("failed to read otp for %s: %w", email, err)
		}

		var record models.OTPRecord
		if err := snap.DataTo(&record); err != nil {
			return fmt.Errorf("failed to decode otp record for %s: %w", email, err)
		}

		if nowMillis > record.ExpiresAt {
			if err := tx.Delete(docRef); err != nil {
				return fmt.Errorf("failed to delete expired otp for %s: %w", email, err)
			}
			verdict = ErrOTPExpired
			return nil
		}

		if record.OTP != code {
			// No writes happened, so returning the sentinel is safe here and
			// leaves the record retriable until expiry.
			return ErrOTPMismatch
		}

		// Success path also removes the record, so a verified code can never
		// be replayed.
		if err := tx.Delete(docRef); err != nil {
			return fmt.Errorf("failed to delete verified otp for %s: %w", email, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return verdict
}
