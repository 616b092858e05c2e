package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/basetishop/shop_api/internal/utils"
)

func newKeygenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a TOKEN_SEAL_KEY value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := utils.GenerateSealKey()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}
}
