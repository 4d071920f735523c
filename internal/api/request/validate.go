package request

import (
	"fmt"
	"net/mail"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/mcoot/ffmarket/internal/api/apierr"
	"github.com/mcoot/ffmarket/internal/model"
	"github.com/mcoot/ffmarket/internal/services/player"
)

// Field limits
const (
	MinPasswordLength = 6
	MaxPlayerName     = 100
)

func invalid(format string, args ...any) error {
	return apierr.NewInvalidRequestError(fmt.Sprintf(format, args...))
}

// ValidateIdentify checks the identify body
func ValidateIdentify(req IdentifyRequest) error {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return invalid("email is required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return invalid("email must be a valid email address")
	}
	if len(req.Password) < MinPasswordLength {
		return invalid("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// ValidateCreateListing checks the create listing body and returns the parsed values
func ValidateCreateListing(req CreateListingRequest) (model.PlayerID, int64, error) {
	if err := validateUUID("playerId", req.PlayerID); err != nil {
		return "", 0, err
	}
	if req.AskingPrice == nil {
		return "", 0, invalid("askingPrice is required")
	}
	if *req.AskingPrice < model.MinAskingPrice || *req.AskingPrice > model.MaxAskingPrice {
		return "", 0, model.ErrInvalidPrice
	}
	return model.PlayerID(req.PlayerID), *req.AskingPrice, nil
}

// ValidateBuy checks the buy body
func ValidateBuy(req BuyRequest) (model.ListingID, error) {
	if err := validateUUID("listingId", req.ListingID); err != nil {
		return "", err
	}
	return model.ListingID(req.ListingID), nil
}

// ValidateUpdatePlayer checks the player update body
func ValidateUpdatePlayer(req UpdatePlayerRequest) (player.ProfileUpdate, error) {
	var update player.ProfileUpdate
	if req.Name == nil && req.Position == nil {
		return update, invalid("name or position is required")
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" || len(name) > MaxPlayerName {
			return update, invalid("name must be 1 to %d characters", MaxPlayerName)
		}
		update.Name = &name
	}
	if req.Position != nil {
		position, err := model.ParsePosition(*req.Position)
		if err != nil {
			return update, err
		}
		update.Position = &position
	}
	return update, nil
}

// ParseListingFilter reads listing search parameters from a query string.
// Limit and offset are clamped later by the catalog.
func ParseListingFilter(q url.Values) (model.ListingFilter, error) {
	var filter model.ListingFilter

	if name := q.Get("playerName"); name != "" {
		if len(name) > MaxPlayerName {
			return filter, invalid("playerName cannot exceed %d characters", MaxPlayerName)
		}
		filter.PlayerName = name
	}
	if teamID := q.Get("teamId"); teamID != "" {
		if err := validateUUID("teamId", teamID); err != nil {
			return filter, err
		}
		filter.TeamID = model.TeamID(teamID)
	}

	var err error
	if filter.MinPrice, err = optionalPrice(q, "minPrice"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = optionalPrice(q, "maxPrice"); err != nil {
		return filter, err
	}
	if filter.Limit, err = optionalInt(q, "limit"); err != nil {
		return filter, err
	}
	if filter.Offset, err = optionalInt(q, "offset"); err != nil {
		return filter, err
	}
	return filter, nil
}

func optionalPrice(q url.Values, key string) (*int64, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, invalid("%s must be an integer", key)
	}
	if v < 0 {
		return nil, invalid("%s cannot be negative", key)
	}
	return &v, nil
}

func optionalInt(q url.Values, key string) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalid("%s must be an integer", key)
	}
	return v, nil
}

// ValidateID checks that a path identifier is a UUID
func ValidateID(field, value string) error {
	return validateUUID(field, value)
}

func validateUUID(field, value string) error {
	if value == "" {
		return invalid("%s is required", field)
	}
	if _, err := uuid.Parse(value); err != nil {
		return invalid("%s must be a valid UUID", field)
	}
	return nil
}
