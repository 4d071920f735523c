package cli

import (
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/ffmarket/internal/api/request"
	"github.com/mcoot/ffmarket/internal/api/response"
)

func newTransfersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfers",
		Short: "Transfer market commands",
	}

	cmd.AddCommand(newTransfersListCmd())
	cmd.AddCommand(newTransfersCreateCmd())
	cmd.AddCommand(newTransfersRemoveCmd())
	cmd.AddCommand(newTransfersBuyCmd())

	return cmd
}

func newTransfersListCmd() *cobra.Command {
	var (
		playerName string
		teamID     string
		minPrice   int64
		maxPrice   int64
		limit      int
		offset     int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Search active listings",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if playerName != "" {
				query.Set("playerName", playerName)
			}
			if teamID != "" {
				query.Set("teamId", teamID)
			}
			if cmd.Flags().Changed("min-price") {
				query.Set("minPrice", strconv.FormatInt(minPrice, 10))
			}
			if cmd.Flags().Changed("max-price") {
				query.Set("maxPrice", strconv.FormatInt(maxPrice, 10))
			}
			if cmd.Flags().Changed("limit") {
				query.Set("limit", strconv.Itoa(limit))
			}
			if cmd.Flags().Changed("offset") {
				query.Set("offset", strconv.Itoa(offset))
			}

			var result response.ListingPage
			if err := client.Get(cmd.Context(), "/api/v1/transfers", query, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&playerName, "player-name", "", "Filter by player name substring")
	cmd.Flags().StringVar(&teamID, "team", "", "Filter by selling team id")
	cmd.Flags().Int64Var(&minPrice, "min-price", 0, "Minimum asking price")
	cmd.Flags().Int64Var(&maxPrice, "max-price", 0, "Maximum asking price")
	cmd.Flags().IntVar(&limit, "limit", 20, "Page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of listings to skip")

	return cmd
}

func newTransfersCreateCmd() *cobra.Command {
	var (
		playerID string
		price    int64
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "List one of your players for sale",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.CreateListingRequest{PlayerID: playerID, AskingPrice: &price}
			var result response.Listing

			if err := client.Post(cmd.Context(), "/api/v1/transfers", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&playerID, "player", "", "Player id (required)")
	cmd.Flags().Int64Var(&price, "price", 0, "Asking price (required)")
	_ = cmd.MarkFlagRequired("player")
	_ = cmd.MarkFlagRequired("price")

	return cmd
}

func newTransfersRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <listingId>",
		Short: "Withdraw one of your listings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), "/api/v1/transfers/"+url.PathEscape(args[0]), nil); err != nil {
				return err
			}

			output(cmd).PrintMessage("Listing removed")
			return nil
		},
	}
}

func newTransfersBuyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "buy <listingId>",
		Short: "Buy the player on a listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.BuyRequest{ListingID: args[0]}
			var result response.Buy

			if err := client.Post(cmd.Context(), "/api/v1/transfers/buy", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
