package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/mcoot/ffmarket/internal/model"
	"github.com/mcoot/ffmarket/internal/storage"
)

type tx struct {
	tx *sqlx.Tx
}

var _ storage.Tx = (*tx)(nil)

// Player operations

func (t *tx) LockPlayer(ctx context.Context, id model.PlayerID) (*model.OwnedPlayer, error) {
	var row ownedPlayerRow
	err := t.tx.GetContext(ctx, &row,
		`SELECT p.id, p.team_id, p.name, p.position, p.created_at, t.user_id AS owner_user_id
		 FROM players p
		 JOIN teams t ON t.id = p.team_id
		 WHERE p.id = $1
		 FOR UPDATE OF p`, id)
	if err != nil {
		return nil, notFound(err, model.ErrPlayerNotFound)
	}
	return &model.OwnedPlayer{
		Player:      *row.toModel(),
		OwnerUserID: model.UserID(row.OwnerUserID),
	}, nil
}

func (t *tx) UpdatePlayerProfile(ctx context.Context, id model.PlayerID, name string, position model.Position) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE players SET name = $2, position = $3 WHERE id = $1`, id, name, position)
	return mapError(err)
}

func (t *tx) MovePlayer(ctx context.Context, id model.PlayerID, to model.TeamID) error {
	_, err := t.tx.ExecContext(ctx, `UPDATE players SET team_id = $2 WHERE id = $1`, id, to)
	return mapError(err)
}

// Listing operations

func (t *tx) LockListing(ctx context.Context, id model.ListingID) (*model.Listing, error) {
	var row listingRow
	err := t.tx.GetContext(ctx, &row, listingSelect+` WHERE l.id = $1 FOR UPDATE OF l, p`, id)
	if err != nil {
		return nil, notFound(err, model.ErrListingNotFound)
	}
	return row.toModel(), nil
}

func (t *tx) InsertListing(ctx context.Context, listing *model.TransferListing) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO transfer_listings (id, player_id, asking_price, created_at) VALUES ($1, $2, $3, $4)`,
		listing.ID, listing.PlayerID, listing.AskingPrice, listing.CreatedAt)
	return foreignKey(err, model.ErrPlayerNotFound)
}

func (t *tx) DeleteListing(ctx context.Context, id model.ListingID) error {
	_, err := t.tx.ExecContext(ctx, `DELETE FROM transfer_listings WHERE id = $1`, id)
	return mapError(err)
}

// Team operations

func (t *tx) TeamIDForUser(ctx context.Context, userID model.UserID) (model.TeamID, error) {
	var id string
	if err := t.tx.GetContext(ctx, &id, `SELECT id FROM teams WHERE user_id = $1`, userID); err != nil {
		return "", notFound(err, model.ErrTeamNotFound)
	}
	return model.TeamID(id), nil
}

func (t *tx) LockTeam(ctx context.Context, id model.TeamID) (*model.Team, error) {
	var row teamRow
	err := t.tx.GetContext(ctx, &row,
		`SELECT id, user_id, budget, created_at FROM teams WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		return nil, notFound(err, model.ErrTeamNotFound)
	}
	return row.toModel(), nil
}

func (t *tx) CountPlayers(ctx context.Context, teamID model.TeamID) (int, error) {
	var count int
	err := t.tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM players WHERE team_id = $1`, teamID)
	return count, mapError(err)
}

func (t *tx) SetBudget(ctx context.Context, teamID model.TeamID, budget int64) error {
	_, err := t.tx.ExecContext(ctx, `UPDATE teams SET budget = $2 WHERE id = $1`, teamID, budget)
	return mapError(err)
}

// History operations

func (t *tx) InsertHistory(ctx context.Context, h *model.TransferHistory) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO transfer_history (id, player_id, from_team_id, to_team_id, price, transferred_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		h.ID, h.PlayerID, h.FromTeamID, h.ToTeamID, h.Price, h.TransferredAt)
	return mapError(err)
}
