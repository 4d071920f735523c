package cli

import (
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/ffmarket/internal/api/response"
)

func newTeamCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "team [id]",
		Short: "Show your team and squad, or another team by id",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				var result response.TeamWithPlayers
				if err := client.Get(cmd.Context(), "/api/v1/teams/me", nil, &result); err != nil {
					return err
				}
				output(cmd).Print(result)
				return nil
			}

			var result response.Team
			if err := client.Get(cmd.Context(), "/api/v1/teams/"+url.PathEscape(args[0]), nil, &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}

func newPlayersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "players <teamId>",
		Short: "List a team's players",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []response.Player

			if err := client.Get(cmd.Context(), "/api/v1/teams/"+url.PathEscape(args[0])+"/players", nil, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
