package models

// OTPRecord is a one-time passcode document in the "otps" collection, keyed by
// the recipient's email address. At most one live record exists per email:
// regenerating overwrites the prior code. The record is deleted on successful
// verification and on an expired verification attempt.
type OTPRecord struct {
	OTP       string `json:"otp" firestore:"otp"`             // 6-digit numeric string
	ExpiresAt int64  `json:"expiresAt" firestore:"expiresAt"` // epoch milliseconds, issue time + 5 minutes
}
