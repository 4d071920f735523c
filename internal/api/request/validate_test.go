package request

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/ffmarket/internal/api/apierr"
	"github.com/mcoot/ffmarket/internal/model"
)

func ptr[T any](v T) *T { return &v }

func assertInvalid(t *testing.T, err error, msgAndArgs ...any) {
	t.Helper()
	require.Error(t, err, msgAndArgs...)
	assert.Equal(t, http.StatusBadRequest, apierr.Status(err), msgAndArgs...)
}

func TestValidateIdentify(t *testing.T) {
	tests := []struct {
		name  string
		req   IdentifyRequest
		valid bool
	}{
		{"valid", IdentifyRequest{"user@example.com", "password"}, true},
		{"missing email", IdentifyRequest{"", "password"}, false},
		{"bad email", IdentifyRequest{"not-an-email", "password"}, false},
		{"display name form", IdentifyRequest{"Bob <bob@example.com>", "password"}, false},
		{"short password", IdentifyRequest{"user@example.com", "12345"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentify(tt.req)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assertInvalid(t, err)
			}
		})
	}
}

func TestValidateCreateListing(t *testing.T) {
	id := uuid.NewString()

	playerID, price, err := ValidateCreateListing(CreateListingRequest{PlayerID: id, AskingPrice: ptr(int64(1000))})
	require.NoError(t, err)
	assert.Equal(t, model.PlayerID(id), playerID)
	assert.Equal(t, int64(1000), price)

	_, _, err = ValidateCreateListing(CreateListingRequest{PlayerID: "nope", AskingPrice: ptr(int64(1000))})
	assertInvalid(t, err)

	_, _, err = ValidateCreateListing(CreateListingRequest{PlayerID: id})
	assertInvalid(t, err)

	_, _, err = ValidateCreateListing(CreateListingRequest{PlayerID: id, AskingPrice: ptr(int64(0))})
	assert.ErrorIs(t, err, model.ErrInvalidPrice)

	_, _, err = ValidateCreateListing(CreateListingRequest{PlayerID: id, AskingPrice: ptr(model.MaxAskingPrice + 1)})
	assert.ErrorIs(t, err, model.ErrInvalidPrice)
}

func TestValidateBuy(t *testing.T) {
	id := uuid.NewString()

	listingID, err := ValidateBuy(BuyRequest{ListingID: id})
	require.NoError(t, err)
	assert.Equal(t, model.ListingID(id), listingID)

	_, err = ValidateBuy(BuyRequest{})
	assertInvalid(t, err)
}

func TestValidateUpdatePlayer(t *testing.T) {
	update, err := ValidateUpdatePlayer(UpdatePlayerRequest{Name: ptr(" Leo "), Position: ptr("att")})
	require.NoError(t, err)
	assert.Equal(t, "Leo", *update.Name)
	assert.Equal(t, model.PositionAttacker, *update.Position)

	_, err = ValidateUpdatePlayer(UpdatePlayerRequest{})
	assertInvalid(t, err)

	_, err = ValidateUpdatePlayer(UpdatePlayerRequest{Position: ptr("GOALIE")})
	assert.ErrorIs(t, err, model.ErrInvalidPosition)

	_, err = ValidateUpdatePlayer(UpdatePlayerRequest{Name: ptr(strings.Repeat("x", MaxPlayerName+1))})
	assertInvalid(t, err)
}

func TestParseListingFilter(t *testing.T) {
	teamID := uuid.NewString()
	q := url.Values{}
	q.Set("playerName", "Leo")
	q.Set("teamId", teamID)
	q.Set("minPrice", "100")
	q.Set("maxPrice", "900")
	q.Set("limit", "500")
	q.Set("offset", "3")

	filter, err := ParseListingFilter(q)
	require.NoError(t, err)
	assert.Equal(t, "Leo", filter.PlayerName)
	assert.Equal(t, model.TeamID(teamID), filter.TeamID)
	assert.Equal(t, int64(100), *filter.MinPrice)
	assert.Equal(t, int64(900), *filter.MaxPrice)
	assert.Equal(t, 500, filter.Limit)
	assert.Equal(t, 3, filter.Offset)
}

func TestParseListingFilterRejects(t *testing.T) {
	bad := []url.Values{
		{"teamId": {"not-a-uuid"}},
		{"minPrice": {"-1"}},
		{"maxPrice": {"abc"}},
		{"limit": {"ten"}},
		{"offset": {"1.5"}},
		{"playerName": {strings.Repeat("a", MaxPlayerName+1)}},
	}
	for _, q := range bad {
		_, err := ParseListingFilter(q)
		assertInvalid(t, err, q.Encode())
	}
}

func TestValidateID(t *testing.T) {
	assert.NoError(t, ValidateID("id", uuid.NewString()))
	assertInvalid(t, ValidateID("id", "123"))
	assertInvalid(t, ValidateID("id", ""))
}
