package models

import "time"

// Campaign represents a fundraising campaign document.
// The document ID in the "campaigns" collection is the decimal string form of
// CampaignID, which is assigned once from the campaign counter and never reused.
type Campaign struct {
	CampaignID      int64     `json:"campaignId" firestore:"campaignId"`
	Title           string    `json:"title" firestore:"title"`
	Description     string    `json:"description" firestore:"description"`
	TargetAmount    string    `json:"targetAmount" firestore:"targetAmount"` // decimal string, ETH units
	AmountRaised    float64   `json:"amountRaised" firestore:"amountRaised"`
	Creator         string    `json:"creator,omitempty" firestore:"creator,omitempty"` // wallet address of the creator
	UserID          string    `json:"userId" firestore:"userId"`                       // Firebase Auth UID of the owner
	IsActive        bool      `json:"isActive" firestore:"isActive"`
	CreatedAt       time.Time `json:"createdAt" firestore:"createdAt"`
	TransactionHash string    `json:"transactionHash,omitempty" firestore:"transactionHash,omitempty"` // on-chain createListing receipt
}

// CampaignCounter is the singleton document at "campaign_counter/counter".
// CampaignID holds the last assigned ID; creation increments it by exactly one
// inside the same transaction that writes the new campaign document.
type CampaignCounter struct {
	CampaignID int64 `firestore:"campaign_id"`
}
