package listing

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/suite"

	cachememory "github.com/mcoot/ffmarket/internal/cache/memory"
	"github.com/mcoot/ffmarket/internal/model"
	"github.com/mcoot/ffmarket/internal/services/trade"
	"github.com/mcoot/ffmarket/internal/storage/memory"
	"github.com/mcoot/ffmarket/internal/testutil"
)

// countingStore counts searches that reach the store
type countingStore struct {
	*memory.Storage
	searches atomic.Int32
}

func (s *countingStore) SearchListings(ctx context.Context, filter model.ListingFilter) ([]*model.Listing, int, error) {
	s.searches.Add(1)
	return s.Storage.SearchListings(ctx, filter)
}

// brokenCache fails every call
type brokenCache struct{}

func (brokenCache) Version(ctx context.Context) (int64, error)              { return 0, errors.New("down") }
func (brokenCache) Bump(ctx context.Context) error                          { return errors.New("down") }
func (brokenCache) Get(ctx context.Context, key string) ([]byte, error)     { return nil, errors.New("down") }
func (brokenCache) Set(ctx context.Context, key string, value []byte) error { return errors.New("down") }

type CatalogSuite struct {
	suite.Suite
	store   *countingStore
	clock   *clockwork.FakeClock
	catalog *Catalog
	ctx     context.Context
}

func TestCatalogSuite(t *testing.T) {
	suite.Run(t, new(CatalogSuite))
}

func (s *CatalogSuite) SetupTest() {
	s.store = &countingStore{Storage: memory.New()}
	s.clock = clockwork.NewFakeClockAt(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	s.catalog = New(s.store, cachememory.New(cachememory.DefaultConfig()), s.clock, DefaultConfig(), testutil.NopLogger())
	s.ctx = context.Background()

	s.seedTeam("u1", "t1", "p1", "p2", "p3")
	s.seedTeam("u2", "t2", "p4")
}

func (s *CatalogSuite) seedTeam(userID model.UserID, teamID model.TeamID, playerIDs ...model.PlayerID) {
	s.Require().NoError(s.store.CreateUser(s.ctx, &model.User{ID: userID, Email: string(userID) + "@example.com"}))
	players := make([]*model.Player, 0, len(playerIDs))
	for i, id := range playerIDs {
		players = append(players, &model.Player{
			ID:       id,
			TeamID:   teamID,
			Name:     fmt.Sprintf("Player %d", i),
			Position: model.PositionMidfielder,
		})
	}
	s.Require().NoError(s.store.CreateTeam(s.ctx, &model.Team{ID: teamID, UserID: userID, Budget: 1000}, players))
}

func (s *CatalogSuite) create(playerID model.PlayerID, price int64) *model.Listing {
	listing, err := s.catalog.Create(s.ctx, playerID, "u1", price)
	s.Require().NoError(err)
	s.clock.Advance(time.Second)
	return listing
}

// Create tests

func (s *CatalogSuite) TestCreateSucceeds() {
	listing, err := s.catalog.Create(s.ctx, "p1", "u1", 1000)
	s.Require().NoError(err)

	s.NotEmpty(listing.ID)
	s.Equal(int64(1000), listing.AskingPrice)
	s.Equal(model.TeamID("t1"), listing.SellerTeamID())

	stored, err := s.catalog.Get(s.ctx, listing.ID)
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p1"), stored.PlayerID)
}

func (s *CatalogSuite) TestCreateRejectsPriceOutOfRange() {
	for _, price := range []int64{0, -5, model.MaxAskingPrice + 1} {
		_, err := s.catalog.Create(s.ctx, "p1", "u1", price)
		s.ErrorIs(err, model.ErrInvalidPrice)
		s.ErrorIs(err, model.ErrBadRequest)
	}

	_, err := s.catalog.Create(s.ctx, "p1", "u1", model.MaxAskingPrice)
	s.NoError(err)
}

func (s *CatalogSuite) TestCreateRejectsNonOwner() {
	_, err := s.catalog.Create(s.ctx, "p1", "u2", 1000)
	s.ErrorIs(err, model.ErrNotPlayerOwner)
	s.ErrorIs(err, model.ErrForbidden)
}

func (s *CatalogSuite) TestCreateUnknownPlayer() {
	_, err := s.catalog.Create(s.ctx, "missing", "u1", 1000)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *CatalogSuite) TestCreateRejectsSecondListing() {
	s.create("p1", 1000)

	_, err := s.catalog.Create(s.ctx, "p1", "u1", 2000)
	s.ErrorIs(err, model.ErrAlreadyListed)
	s.ErrorIs(err, model.ErrConflict)
}

// Remove tests

// A seller at the roster minimum may list; the sale itself is refused
func (s *CatalogSuite) TestCreateAtRosterMinimumThenSaleRefused() {
	ids := make([]model.PlayerID, 15)
	for i := range ids {
		ids[i] = model.PlayerID(fmt.Sprintf("min-p%d", i))
	}
	s.seedTeam("u3", "t3", ids...)

	listing, err := s.catalog.Create(s.ctx, "min-p0", "u3", 500)
	s.Require().NoError(err)
	s.Equal(model.UserID("u3"), listing.SellerUserID)

	executor := trade.New(s.store.Storage, s.catalog, s.clock, trade.DefaultConfig(), testutil.NopLogger())
	_, err = executor.Buy(s.ctx, listing.ID, "u2")
	s.ErrorIs(err, model.ErrSellerRosterTooSmall)

	// The listing stays up after the refused sale
	_, err = s.catalog.Get(s.ctx, listing.ID)
	s.NoError(err)
}

func (s *CatalogSuite) TestRemoveSucceeds() {
	listing := s.create("p1", 1000)

	s.Require().NoError(s.catalog.Remove(s.ctx, listing.ID, "u1"))

	_, err := s.catalog.Get(s.ctx, listing.ID)
	s.ErrorIs(err, model.ErrListingNotFound)

	// The player can be listed again
	s.create("p1", 500)
}

func (s *CatalogSuite) TestRemoveRejectsNonSeller() {
	listing := s.create("p1", 1000)

	err := s.catalog.Remove(s.ctx, listing.ID, "u2")
	s.ErrorIs(err, model.ErrNotListingOwner)
}

func (s *CatalogSuite) TestRemoveUnknownListing() {
	err := s.catalog.Remove(s.ctx, "missing", "u1")
	s.ErrorIs(err, model.ErrListingNotFound)
}

// List tests

func (s *CatalogSuite) TestListPagination() {
	s.create("p1", 100)
	s.create("p2", 200)
	s.create("p3", 300)

	page, err := s.catalog.List(s.ctx, model.ListingFilter{Limit: 2})
	s.Require().NoError(err)
	s.Len(page.Listings, 2)
	s.Equal(model.PlayerID("p3"), page.Listings[0].PlayerID)
	s.Equal(model.Pagination{Limit: 2, Offset: 0, Total: 3, HasMore: true}, page.Pagination)

	page, err = s.catalog.List(s.ctx, model.ListingFilter{Limit: 2, Offset: 2})
	s.Require().NoError(err)
	s.Len(page.Listings, 1)
	s.False(page.Pagination.HasMore)
}

func (s *CatalogSuite) TestNormalizeClampsLimit() {
	s.Equal(20, s.catalog.Normalize(model.ListingFilter{}).Limit)
	s.Equal(100, s.catalog.Normalize(model.ListingFilter{Limit: 500}).Limit)
	s.Equal(1, s.catalog.Normalize(model.ListingFilter{Limit: -3}).Limit)
	s.Equal(0, s.catalog.Normalize(model.ListingFilter{Offset: -3}).Offset)
	s.Equal("leo", s.catalog.Normalize(model.ListingFilter{PlayerName: "  LEO "}).PlayerName)
}

func (s *CatalogSuite) TestListServedFromCache() {
	s.create("p1", 100)

	_, err := s.catalog.List(s.ctx, model.ListingFilter{})
	s.Require().NoError(err)
	page, err := s.catalog.List(s.ctx, model.ListingFilter{})
	s.Require().NoError(err)

	s.Equal(int32(1), s.store.searches.Load())
	s.Require().Len(page.Listings, 1)
	s.Equal(int64(100), page.Listings[0].AskingPrice)
}

func (s *CatalogSuite) TestMutationInvalidatesCache() {
	listing := s.create("p1", 100)

	page, err := s.catalog.List(s.ctx, model.ListingFilter{})
	s.Require().NoError(err)
	s.Len(page.Listings, 1)

	s.Require().NoError(s.catalog.Remove(s.ctx, listing.ID, "u1"))

	page, err = s.catalog.List(s.ctx, model.ListingFilter{})
	s.Require().NoError(err)
	s.Empty(page.Listings)
	s.Equal(int32(2), s.store.searches.Load())
}

func (s *CatalogSuite) TestListWithoutCache() {
	catalog := New(s.store, nil, s.clock, DefaultConfig(), testutil.NopLogger())
	s.create("p1", 100)

	page, err := catalog.List(s.ctx, model.ListingFilter{})
	s.Require().NoError(err)
	s.Len(page.Listings, 1)
}

func (s *CatalogSuite) TestBrokenCacheDegradesToStore() {
	catalog := New(s.store, brokenCache{}, s.clock, DefaultConfig(), testutil.NopLogger())

	_, err := catalog.Create(s.ctx, "p1", "u1", 100)
	s.Require().NoError(err)

	page, err := catalog.List(s.ctx, model.ListingFilter{})
	s.Require().NoError(err)
	s.Len(page.Listings, 1)
}
