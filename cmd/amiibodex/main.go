// Command amiibodex is a terminal front end for the amiibodex data layer:
// browse the catalog, refresh it from the remote API, create custom items,
// and manage the personal collection.
package main

import (
	"os"

	"github.com/brookstreetgames/amiibodex/cmd/amiibodex/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
