package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/brookstreetgames/amiibodex/pkg/imagecache"
)

var imageOut string

var imageCmd = &cobra.Command{
	Use:   "image ADDRESS",
	Short: "Fetch an image through the cache",
	Long: `Fetch an image through the disk cache. A cached image is served
immediately; otherwise the download completes in the background and the
command waits for the result.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		address := args[0]

		events := make(chan imagecache.Event, 1)
		dex.Images().OnImageLoaded(func(e imagecache.Event) {
			if e.Address == address {
				select {
				case events <- e:
				default:
				}
			}
		})

		data, ok := dex.Images().Load(cmd.Context(), address)
		if !ok {
			select {
			case e := <-events:
				data = e.Data
			case <-time.After(cfg.Timeout + 5*time.Second):
				return fmt.Errorf("timed out waiting for %s", address)
			}
		}

		if data == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "No image available for %s\n", address)
			return nil
		}

		if imageOut != "" {
			if err := os.WriteFile(imageOut, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d bytes to %s\n", len(data), imageOut)
			return nil
		}

		source := "downloaded"
		if ok {
			source = "cached"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d bytes (%s)\n", address, len(data), source)
		return nil
	},
}

func init() {
	imageCmd.Flags().StringVar(&imageOut, "out", "", "write the image to a file")
}
