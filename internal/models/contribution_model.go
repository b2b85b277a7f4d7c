package models

import "time"

// Contribution records a single successful funding of a campaign. One document
// is written per confirmed fundListing transaction and is never updated or
// deleted afterwards. Timestamp is assigned server-side by Firestore.
type Contribution struct {
	ID              string    `json:"-" firestore:"-"`
	CampaignID      int64     `json:"campaignId" firestore:"campaignId"`
	ContributorName string    `json:"contributorName" firestore:"contributorName"`
	Amount          float64   `json:"amount" firestore:"amount"` // ETH units
	Timestamp       time.Time `json:"timestamp" firestore:"timestamp,serverTimestamp"`
}
