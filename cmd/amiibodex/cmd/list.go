package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brookstreetgames/amiibodex/pkg/catalog"
)

var listOwned bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the catalog",
	Long: `List all catalog items. Local data is preferred; the remote API is
queried only when nothing is stored locally. Owned items are marked with *.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := dex.Catalog().Load(cmd.Context())
		if err != nil {
			return err
		}

		if listOwned {
			items = dex.Catalog().SetFilter(catalog.FilterOwned)
		}

		for _, item := range items {
			marker := " "
			if item.Owned() {
				marker = "*"
			}
			release := "N/A"
			if date, ok := item.Release(catalog.RegionNorthAmerica); ok {
				release = date.Format("01/02/06")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %-32s %-24s %s\n",
				marker, item.Identifier(), item.Name, item.AmiiboSeries, release)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d items\n", len(items))
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listOwned, "owned", false, "show only items in the collection")
}
