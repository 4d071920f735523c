package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mcoot/ffmarket/internal/model"
	"github.com/mcoot/ffmarket/internal/storage"
)

// Postgres SQLSTATE codes the store reacts to
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeInvalidText         = "22P02"
	codeLockNotAvailable    = "55P03"
	codeDeadlockDetected    = "40P01"
	codeSerialization       = "40001"
)

// Unique constraint names generated by schema.sql
const (
	constraintUserEmail     = "users_email_key"
	constraintTeamUser      = "teams_user_id_key"
	constraintListingPlayer = "transfer_listings_player_id_key"
)

// mapError translates driver errors into storage and model errors.
// Errors it does not recognise are returned unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeLockNotAvailable:
		return fmt.Errorf("%w: %s", storage.ErrLockTimeout, pgErr.Message)
	case codeDeadlockDetected, codeSerialization:
		return fmt.Errorf("%w: %s", storage.ErrTransient, pgErr.Message)
	case codeUniqueViolation:
		switch pgErr.ConstraintName {
		case constraintUserEmail:
			return model.ErrEmailTaken
		case constraintTeamUser:
			return model.ErrTeamExists
		case constraintListingPlayer:
			return model.ErrAlreadyListed
		}
	}
	return err
}

// notFound maps a missing row, or an id that is not a valid uuid, to the given sentinel
func notFound(err error, sentinel error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeInvalidText {
		return sentinel
	}
	return mapError(err)
}

// foreignKey maps a foreign key violation to the given sentinel
func foreignKey(err error, sentinel error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == codeForeignKeyViolation || pgErr.Code == codeInvalidText) {
		return sentinel
	}
	return mapError(err)
}
