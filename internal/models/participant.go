package models

// Participant is one entry in the closed membership roster. The aggregator
// only scores pubkeys that appear here; events from anyone else are ignored.
type Participant struct {
	Pubkey      string `json:"pubkey"`
	DisplayName string `json:"display_name"`
	PictureURL  string `json:"picture_url"`
	CharityID   string `json:"charity_id"`
}
