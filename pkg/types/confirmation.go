package types

// ConfirmationResponse is the user's answer to a pending run confirmation.
type ConfirmationResponse struct {
	// Metadata holds optional additional information about the response.
	Metadata map[string]interface{}

	// ConfirmationID identifies the pending confirmation being answered.
	ConfirmationID string

	// Granted indicates whether the user confirmed the run.
	Granted bool
}

// NewConfirmationResponse creates a response for the given confirmation.
func NewConfirmationResponse(confirmationID string, granted bool) *ConfirmationResponse {
	return &ConfirmationResponse{
		ConfirmationID: confirmationID,
		Granted:        granted,
		Metadata:       make(map[string]interface{}),
	}
}

// IsGranted returns true if the user confirmed the run.
func (r *ConfirmationResponse) IsGranted() bool {
	return r.Granted
}
