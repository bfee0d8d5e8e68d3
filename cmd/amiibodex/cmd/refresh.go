package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Replace the local catalog with the remote snapshot",
	Long: `Clear the local catalog and refetch it from the remote API.

Custom items created locally are discarded by a refresh; the remote snapshot
is authoritative. Collection records are kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := dex.Catalog().Refresh(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Catalog refreshed: %d items\n", len(items))
		return nil
	},
}
