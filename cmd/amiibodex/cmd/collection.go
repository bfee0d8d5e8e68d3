package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brookstreetgames/amiibodex/pkg/catalog"
	"github.com/brookstreetgames/amiibodex/pkg/errors"
)

var ownCmd = &cobra.Command{
	Use:   "own IDENTIFIER",
	Short: "Add an item to your collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		item, err := findItem(cmd, args[0])
		if err != nil {
			return err
		}
		if err := dex.Catalog().AddToCollection(cmd.Context(), item); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s to the collection\n", item.Name)
		return nil
	},
}

var disownCmd = &cobra.Command{
	Use:   "disown IDENTIFIER",
	Short: "Remove an item from your collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		item, err := findItem(cmd, args[0])
		if err != nil {
			return err
		}
		if err := dex.Catalog().RemoveFromCollection(cmd.Context(), item); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from the collection\n", item.Name)
		return nil
	},
}

// findItem loads the catalog and resolves an identifier to an item.
func findItem(cmd *cobra.Command, identifier string) (*catalog.Item, error) {
	items, err := dex.Catalog().Load(cmd.Context())
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.Identifier() == identifier {
			return item, nil
		}
	}
	return nil, fmt.Errorf("item %s: %w", identifier, errors.ErrNotFound)
}
