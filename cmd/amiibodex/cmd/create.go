package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var createWithImage bool

var createCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a custom catalog item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Load first so the new item lands in a populated catalog.
		if _, err := dex.Catalog().Load(cmd.Context()); err != nil {
			return err
		}

		item, err := dex.Catalog().CreateItem(cmd.Context(), args[0], createWithImage)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", item.Name, item.Identifier())
		return nil
	},
}

func init() {
	createCmd.Flags().BoolVar(&createWithImage, "with-image", false, "reserve a local artwork address for the item")
}
