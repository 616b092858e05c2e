package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/basetishop/shop_api/internal/config"
	"github.com/basetishop/shop_api/internal/utils"
)

func newTokenCommand() *cobra.Command {
	var in utils.SessionTokenInput

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a development session token",
		Long: `Sign a session token with SESSION_JWT_SECRET in the identity provider's
claim layout, for calling the API locally without the provider.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sessionCfg, err := config.LoadSession()
			if err != nil {
				return err
			}
			if in.SessionID == "" {
				in.SessionID = uuid.New().String()
			}
			token, err := utils.NewSessionVerifier(sessionCfg.JWTSecret, sessionCfg.Issuer).Sign(in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.UserID, "user", "", "User id (the tenant id of the user's own business)")
	cmd.Flags().StringVar(&in.Email, "email", "", "Email claim")
	cmd.Flags().StringVar(&in.SessionID, "session", "", "Session id (random when empty)")
	cmd.Flags().BoolVar(&in.Admin, "admin", false, "Grant the platform admin flag")
	cmd.Flags().DurationVar(&in.TTL, "ttl", time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
