package model

import "time"

// ListingID uniquely identifies a transfer listing
type ListingID string

// Asking price limits for a listing
const (
	MinAskingPrice int64 = 1
	MaxAskingPrice int64 = 1_000_000_000
)

// TransferListing is an offer to sell a player at a fixed price
type TransferListing struct {
	ID          ListingID
	PlayerID    PlayerID
	AskingPrice int64
	CreatedAt   time.Time
}

// Listing is a listing joined with its player and the selling user
type Listing struct {
	TransferListing
	Player       Player
	SellerUserID UserID
}

// SellerTeamID returns the team currently holding the listed player
func (l *Listing) SellerTeamID() TeamID {
	return l.Player.TeamID
}

// TransferHistory records a completed trade. Rows are never updated or deleted.
type TransferHistory struct {
	ID            string
	PlayerID      PlayerID
	FromTeamID    TeamID
	ToTeamID      TeamID
	Price         int64
	TransferredAt time.Time
}

// ListingFilter narrows a listing search. Nil price bounds are open.
type ListingFilter struct {
	PlayerName string `json:"playerName,omitempty"`
	TeamID     TeamID `json:"teamId,omitempty"`
	MinPrice   *int64 `json:"minPrice,omitempty"`
	MaxPrice   *int64 `json:"maxPrice,omitempty"`
	Limit      int    `json:"limit"`
	Offset     int    `json:"offset"`
}

// Pagination describes the window a ListingPage was cut from
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	Total   int  `json:"total"`
	HasMore bool `json:"hasMore"`
}

// ListingPage is one page of a listing search
type ListingPage struct {
	Listings   []*Listing
	Pagination Pagination
}

// TradeResult summarizes a completed purchase
type TradeResult struct {
	FinalPrice   int64
	PlayerID     PlayerID
	BuyerTeamID  TeamID
	SellerTeamID TeamID
}
