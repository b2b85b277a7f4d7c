package models

// GenerateOTPRequest is the body of POST /api/otp/generate-otp.
type GenerateOTPRequest struct {
	Email string `json:"email" binding:"required"`
}

// VerifyOTPRequest is the body of POST /api/otp/verify-otp.
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

// ValidateProposalRequest is the body of POST /api/validate.
type ValidateProposalRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description" binding:"required"`
	TargetAmount string `json:"targetAmount" binding:"required"`
}

// SetTokenRequest is the body of POST /api/auth/setToken and
// POST /api/auth/verify-token.
type SetTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// CreateCampaignRequest is the body of POST /api/campaigns. The client submits
// the createListing transaction through its wallet first and reports the
// confirmed transaction hash and signer address here.
type CreateCampaignRequest struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description" binding:"required"`
	TargetAmount    string `json:"targetAmount" binding:"required"`
	TransactionHash string `json:"transactionHash"`
	Creator         string `json:"creator"`
}

// ContributeRequest is the body of POST /api/campaigns/:campaignId/contributions.
// Amount mirrors the value of the confirmed fundListing transaction.
type ContributeRequest struct {
	Amount          float64 `json:"amount" binding:"required,gt=0"`
	ContributorName string  `json:"contributorName"`
	TransactionHash string  `json:"transactionHash"`
}

// PostCommentRequest is the body of POST /api/campaigns/:campaignId/comments.
type PostCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// PostReplyRequest is the body of
// POST /api/campaigns/:campaignId/comments/:commentId/replies.
type PostReplyRequest struct {
	Text string `json:"text" binding:"required"`
}
