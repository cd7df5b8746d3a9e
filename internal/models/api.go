package models

// ErrorResponse is the JSON body returned for API errors.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// LeaderboardResponse wraps a snapshot for the leaderboard endpoint.
// Ready is false when no snapshot has been computed yet for the
// requested activity, which is a normal state right after startup.
type LeaderboardResponse struct {
	Activity ActivityType `json:"activity"`
	Ready    bool         `json:"ready"`
	Snapshot *Snapshot    `json:"snapshot,omitempty"`
}

// RegisterParticipantRequest is the body for participant registration.
type RegisterParticipantRequest struct {
	Pubkey      string `json:"pubkey"`
	DisplayName string `json:"display_name"`
	PictureURL  string `json:"picture_url,omitempty"`
	CharityID   string `json:"charity_id,omitempty"`
}
