package request

// IdentifyRequest is the request body for register-or-login
type IdentifyRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateListingRequest is the request body for listing a player
type CreateListingRequest struct {
	PlayerID    string `json:"playerId"`
	AskingPrice *int64 `json:"askingPrice"`
}

// BuyRequest is the request body for buying a listing
type BuyRequest struct {
	ListingID string `json:"listingId"`
}

// UpdatePlayerRequest is the request body for changing a player's profile.
// Omitted fields are left unchanged.
type UpdatePlayerRequest struct {
	Name     *string `json:"name"`
	Position *string `json:"position"`
}
