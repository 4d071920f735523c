package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/ffmarket/internal/api/request"
	"github.com/mcoot/ffmarket/internal/api/response"
)

func newIdentifyCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "identify",
		Short: "Log in, registering the account first if the email is new",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.IdentifyRequest{Email: email, Password: password}
			var result response.Identify

			if err := client.Post(cmd.Context(), "/api/v1/auth/identify", req, &result); err != nil {
				return err
			}

			// Save token
			if err := cfg.SaveToken(result.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Me

			if err := client.Get(cmd.Context(), "/api/v1/users/me", nil, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
