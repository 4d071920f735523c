package postgres

import (
	"time"

	"github.com/mcoot/ffmarket/internal/model"
)

type userRow struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r userRow) toModel() *model.User {
	return &model.User{
		ID:           model.UserID(r.ID),
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}
}

type teamRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Budget    int64     `db:"budget"`
	CreatedAt time.Time `db:"created_at"`
}

func (r teamRow) toModel() *model.Team {
	return &model.Team{
		ID:        model.TeamID(r.ID),
		UserID:    model.UserID(r.UserID),
		Budget:    r.Budget,
		CreatedAt: r.CreatedAt,
	}
}

type playerRow struct {
	ID        string    `db:"id"`
	TeamID    string    `db:"team_id"`
	Name      string    `db:"name"`
	Position  string    `db:"position"`
	CreatedAt time.Time `db:"created_at"`
}

func newPlayerRow(p *model.Player) playerRow {
	return playerRow{
		ID:        string(p.ID),
		TeamID:    string(p.TeamID),
		Name:      p.Name,
		Position:  string(p.Position),
		CreatedAt: p.CreatedAt,
	}
}

func (r playerRow) toModel() *model.Player {
	return &model.Player{
		ID:        model.PlayerID(r.ID),
		TeamID:    model.TeamID(r.TeamID),
		Name:      r.Name,
		Position:  model.Position(r.Position),
		CreatedAt: r.CreatedAt,
	}
}

type ownedPlayerRow struct {
	playerRow
	OwnerUserID string `db:"owner_user_id"`
}

// listingRow is a listing joined with its player and the seller team's user
type listingRow struct {
	ID              string    `db:"id"`
	PlayerID        string    `db:"player_id"`
	AskingPrice     int64     `db:"asking_price"`
	CreatedAt       time.Time `db:"created_at"`
	PlayerName      string    `db:"player_name"`
	PlayerPosition  string    `db:"player_position"`
	PlayerTeamID    string    `db:"player_team_id"`
	PlayerCreatedAt time.Time `db:"player_created_at"`
	SellerUserID    string    `db:"seller_user_id"`
}

func (r listingRow) toModel() *model.Listing {
	return &model.Listing{
		TransferListing: model.TransferListing{
			ID:          model.ListingID(r.ID),
			PlayerID:    model.PlayerID(r.PlayerID),
			AskingPrice: r.AskingPrice,
			CreatedAt:   r.CreatedAt,
		},
		Player: model.Player{
			ID:        model.PlayerID(r.PlayerID),
			TeamID:    model.TeamID(r.PlayerTeamID),
			Name:      r.PlayerName,
			Position:  model.Position(r.PlayerPosition),
			CreatedAt: r.PlayerCreatedAt,
		},
		SellerUserID: model.UserID(r.SellerUserID),
	}
}

type historyRow struct {
	ID            string    `db:"id"`
	PlayerID      string    `db:"player_id"`
	FromTeamID    string    `db:"from_team_id"`
	ToTeamID      string    `db:"to_team_id"`
	Price         int64     `db:"price"`
	TransferredAt time.Time `db:"transferred_at"`
}

func (r historyRow) toModel() *model.TransferHistory {
	return &model.TransferHistory{
		ID:            r.ID,
		PlayerID:      model.PlayerID(r.PlayerID),
		FromTeamID:    model.TeamID(r.FromTeamID),
		ToTeamID:      model.TeamID(r.ToTeamID),
		Price:         r.Price,
		TransferredAt: r.TransferredAt,
	}
}
