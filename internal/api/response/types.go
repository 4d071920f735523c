package response

import (
	"time"

	"github.com/mcoot/ffmarket/internal/model"
	"github.com/mcoot/ffmarket/internal/services/auth"
	"github.com/mcoot/ffmarket/internal/services/team"
)

// Identify is the response for register-or-login
type Identify struct {
	Message    string `json:"message"`
	Token      string `json:"token"`
	Registered bool   `json:"registered"`
}

// IdentifyFromModel converts an auth identity
func IdentifyFromModel(id *auth.Identity) Identify {
	return Identify{
		Message:    id.Message,
		Token:      id.Token,
		Registered: id.Registered,
	}
}

// Me describes the calling user. TeamID is omitted while the team is being created.
type Me struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	TeamID string `json:"teamId,omitempty"`
}

// MeFromModel converts auth.Me
func MeFromModel(me *auth.Me) Me {
	return Me{
		ID:     string(me.User.ID),
		Email:  me.User.Email,
		TeamID: string(me.TeamID),
	}
}

// Player represents a player in API responses
type Player struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Position  string    `json:"position"`
	TeamID    string    `json:"teamId"`
	CreatedAt time.Time `json:"createdAt"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:        string(p.ID),
		Name:      p.Name,
		Position:  string(p.Position),
		TeamID:    string(p.TeamID),
		CreatedAt: p.CreatedAt,
	}
}

// PlayersFromModel converts a slice of players
func PlayersFromModel(players []*model.Player) []Player {
	out := make([]Player, len(players))
	for i, p := range players {
		out[i] = PlayerFromModel(p)
	}
	return out
}

// Team represents a team in API responses
type Team struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Budget    int64     `json:"budget"`
	CreatedAt time.Time `json:"createdAt"`
}

// TeamFromModel converts a model.Team
func TeamFromModel(t *model.Team) Team {
	return Team{
		ID:        string(t.ID),
		UserID:    string(t.UserID),
		Budget:    t.Budget,
		CreatedAt: t.CreatedAt,
	}
}

// TeamWithPlayers is a team together with its squad
type TeamWithPlayers struct {
	Team
	Players []Player `json:"players"`
}

// TeamWithPlayersFromModel converts a team roster
func TeamWithPlayersFromModel(r *team.Roster) TeamWithPlayers {
	return TeamWithPlayers{
		Team:    TeamFromModel(r.Team),
		Players: PlayersFromModel(r.Players),
	}
}

// ListingPlayer is the player summary embedded in a listing
type ListingPlayer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	TeamID   string `json:"teamId"`
}

// Listing represents a transfer listing
type Listing struct {
	ID          string        `json:"id"`
	AskingPrice int64         `json:"askingPrice"`
	CreatedAt   time.Time     `json:"createdAt"`
	Player      ListingPlayer `json:"player"`
}

// ListingFromModel converts a joined listing
func ListingFromModel(l *model.Listing) Listing {
	return Listing{
		ID:          string(l.ID),
		AskingPrice: l.AskingPrice,
		CreatedAt:   l.CreatedAt,
		Player: ListingPlayer{
			ID:       string(l.Player.ID),
			Name:     l.Player.Name,
			Position: string(l.Player.Position),
			TeamID:   string(l.Player.TeamID),
		},
	}
}

// ListingPage is one page of transfer listings
type ListingPage struct {
	Data       []Listing        `json:"data"`
	Pagination model.Pagination `json:"pagination"`
}

// ListingPageFromModel converts a listing page
func ListingPageFromModel(p *model.ListingPage) ListingPage {
	data := make([]Listing, len(p.Listings))
	for i, l := range p.Listings {
		data[i] = ListingFromModel(l)
	}
	return ListingPage{Data: data, Pagination: p.Pagination}
}

// Buy is the response for a completed purchase
type Buy struct {
	Success      bool   `json:"success"`
	FinalPrice   int64  `json:"finalPrice"`
	PlayerID     string `json:"playerId"`
	BuyerTeamID  string `json:"buyerTeamId"`
	SellerTeamID string `json:"sellerTeamId"`
}

// BuyFromModel converts a trade result
func BuyFromModel(r *model.TradeResult) Buy {
	return Buy{
		Success:      true,
		FinalPrice:   r.FinalPrice,
		PlayerID:     string(r.PlayerID),
		BuyerTeamID:  string(r.BuyerTeamID),
		SellerTeamID: string(r.SellerTeamID),
	}
}

// TransferHistory is one completed trade
type TransferHistory struct {
	ID            string    `json:"id"`
	PlayerID      string    `json:"playerId"`
	FromTeamID    string    `json:"fromTeamId"`
	ToTeamID      string    `json:"toTeamId"`
	Price         int64     `json:"price"`
	TransferredAt time.Time `json:"transferredAt"`
}

// HistoryFromModel converts transfer history rows
func HistoryFromModel(rows []*model.TransferHistory) []TransferHistory {
	out := make([]TransferHistory, len(rows))
	for i, h := range rows {
		out[i] = TransferHistory{
			ID:            h.ID,
			PlayerID:      string(h.PlayerID),
			FromTeamID:    string(h.FromTeamID),
			ToTeamID:      string(h.ToTeamID),
			Price:         h.Price,
			TransferredAt: h.TransferredAt,
		}
	}
	return out
}

// Success acknowledges an operation with no other payload
type Success struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
}

// Health is the response for the health check
type Health struct {
	Status string `json:"status"`
}
