package factory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/ffmarket/internal/model"
	"github.com/mcoot/ffmarket/internal/services/player"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) TearDownTest() {
	s.Require().NoError(s.app.Close())
}

func (s *IntegrationSuite) onboard(email string) (model.UserID, *model.Team) {
	identity, team, err := s.app.Onboard(s.ctx, email, "password")
	s.Require().NoError(err)
	return identity.UserID, team
}

func (s *IntegrationSuite) firstPlayer(teamID model.TeamID) *model.Player {
	players, err := s.app.TeamService.Players(s.ctx, teamID)
	s.Require().NoError(err)
	s.Require().NotEmpty(players)
	return players[0]
}

// Test: registering a user creates their squad through the job queue
func (s *IntegrationSuite) TestRegistrationCreatesTeamInBackground() {
	s.Require().NoError(s.app.Start(s.ctx))

	identity, err := s.app.AuthService.Identify(s.ctx, "new@example.com", "password")
	s.Require().NoError(err)
	s.True(identity.Registered)

	s.Eventually(func() bool {
		me, err := s.app.AuthService.Me(s.ctx, identity.UserID)
		return err == nil && me.TeamID != ""
	}, 2*time.Second, 10*time.Millisecond)

	roster, err := s.app.TeamService.GetForUser(s.ctx, identity.UserID)
	s.Require().NoError(err)
	s.Equal(model.DefaultBudget, roster.Team.Budget)
	s.Len(roster.Players, s.app.Roster.SquadSize())
}

// Test: complete market flow from listing to purchase
func (s *IntegrationSuite) TestListAndBuyFlow() {
	sellerID, sellerTeam := s.onboard("seller@example.com")
	buyerID, buyerTeam := s.onboard("buyer@example.com")
	target := s.firstPlayer(sellerTeam.ID)

	// Step 1: seller lists a player
	listed, err := s.app.Catalog.Create(s.ctx, target.ID, sellerID, 1000)
	s.Require().NoError(err)
	s.Equal(sellerID, listed.SellerUserID)

	// Step 2: the listing shows up in search
	page, err := s.app.Catalog.List(s.ctx, model.ListingFilter{})
	s.Require().NoError(err)
	s.Require().Len(page.Listings, 1)
	s.Equal(listed.ID, page.Listings[0].ID)
	s.Equal(1, page.Pagination.Total)

	// Step 3: buyer purchases it
	result, err := s.app.Executor.BuyWithRetry(s.ctx, listed.ID, buyerID)
	s.Require().NoError(err)
	s.Equal(int64(950), result.FinalPrice)
	s.Equal(buyerTeam.ID, result.BuyerTeamID)
	s.Equal(sellerTeam.ID, result.SellerTeamID)

	// Step 4: budgets, ownership and history reflect the trade
	buyer, err := s.app.TeamService.Get(s.ctx, buyerTeam.ID)
	s.Require().NoError(err)
	s.Equal(model.DefaultBudget-950, buyer.Budget)
	seller, err := s.app.TeamService.Get(s.ctx, sellerTeam.ID)
	s.Require().NoError(err)
	s.Equal(model.DefaultBudget+950, seller.Budget)

	moved, err := s.app.PlayerService.Get(s.ctx, target.ID)
	s.Require().NoError(err)
	s.Equal(buyerTeam.ID, moved.TeamID)

	history, err := s.app.TeamService.History(s.ctx, buyerTeam.ID)
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Equal(sellerTeam.ID, history[0].FromTeamID)
	s.Equal(int64(950), history[0].Price)

	// Step 5: the cached page was invalidated
	page, err = s.app.Catalog.List(s.ctx, model.ListingFilter{})
	s.Require().NoError(err)
	s.Empty(page.Listings)

	_, err = s.app.Catalog.Get(s.ctx, listed.ID)
	s.ErrorIs(err, model.ErrListingNotFound)
}

// Test: the buyer can relist and sell the player on
func (s *IntegrationSuite) TestPlayerCanBeResold() {
	sellerID, sellerTeam := s.onboard("seller@example.com")
	buyerID, buyerTeam := s.onboard("buyer@example.com")
	target := s.firstPlayer(sellerTeam.ID)

	listed, err := s.app.Catalog.Create(s.ctx, target.ID, sellerID, 2000)
	s.Require().NoError(err)
	_, err = s.app.Executor.Buy(s.ctx, listed.ID, buyerID)
	s.Require().NoError(err)

	// Previous owner can no longer list it
	_, err = s.app.Catalog.Create(s.ctx, target.ID, sellerID, 2000)
	s.ErrorIs(err, model.ErrNotPlayerOwner)

	relisted, err := s.app.Catalog.Create(s.ctx, target.ID, buyerID, 3000)
	s.Require().NoError(err)
	result, err := s.app.Executor.Buy(s.ctx, relisted.ID, sellerID)
	s.Require().NoError(err)
	s.Equal(int64(2850), result.FinalPrice)
	s.Equal(buyerTeam.ID, result.SellerTeamID)

	history, err := s.app.TeamService.History(s.ctx, sellerTeam.ID)
	s.Require().NoError(err)
	s.Len(history, 2)
}

// Test: profile edits are visible in listing searches straight away
func (s *IntegrationSuite) TestProfileUpdateInvalidatesListings() {
	sellerID, sellerTeam := s.onboard("seller@example.com")
	target := s.firstPlayer(sellerTeam.ID)

	_, err := s.app.Catalog.Create(s.ctx, target.ID, sellerID, 1000)
	s.Require().NoError(err)

	// Prime the cache
	_, err = s.app.Catalog.List(s.ctx, model.ListingFilter{})
	s.Require().NoError(err)

	name := "Renamed Striker"
	_, err = s.app.PlayerService.UpdateProfile(s.ctx, target.ID, sellerID, player.ProfileUpdate{Name: &name})
	s.Require().NoError(err)

	page, err := s.app.Catalog.List(s.ctx, model.ListingFilter{PlayerName: "renamed"})
	s.Require().NoError(err)
	s.Require().Len(page.Listings, 1)
	s.Equal(name, page.Listings[0].Player.Name)
}

// Test: many buyers racing for one listing produce exactly one trade
func (s *IntegrationSuite) TestConcurrentBuyersSingleWinner() {
	sellerID, sellerTeam := s.onboard("seller@example.com")
	target := s.firstPlayer(sellerTeam.ID)
	listed, err := s.app.Catalog.Create(s.ctx, target.ID, sellerID, 1000)
	s.Require().NoError(err)

	const buyers = 5
	buyerIDs := make([]model.UserID, buyers)
	for i := range buyerIDs {
		buyerIDs[i], _ = s.onboard(fmt.Sprintf("buyer%d@example.com", i))
	}

	var wg sync.WaitGroup
	errs := make([]error, buyers)
	for i, id := range buyerIDs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.app.Executor.BuyWithRetry(s.ctx, listed.ID, id)
		}()
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		s.ErrorIs(err, model.ErrListingNotFound)
	}
	s.Equal(1, wins)

	seller, err := s.app.TeamService.Get(s.ctx, sellerTeam.ID)
	s.Require().NoError(err)
	s.Equal(model.DefaultBudget+950, seller.Budget)
}

// Test: logging back in returns the same user
func (s *IntegrationSuite) TestIdentifyTwiceLogsIn() {
	first, _ := s.onboard("repeat@example.com")

	identity, err := s.app.AuthService.Identify(s.ctx, "Repeat@Example.com", "password")
	s.Require().NoError(err)
	s.False(identity.Registered)
	s.Equal(first, identity.UserID)
}
