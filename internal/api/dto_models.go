package api

// ErrorResponse is the standardized error body for all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// MessageResponse is the standardized success body for endpoints that return
// only an acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// ContractInfoResponse carries the configured smart-contract address clients
// need for their wallet calls.
type ContractInfoResponse struct {
	ContractAddress string `json:"contractAddress"`
}
