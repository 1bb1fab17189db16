package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/jwalton/imgurdl/internal/log"
	"github.com/jwalton/imgurdl/pkg/imgurdl"
	"github.com/spf13/cobra"
)

var placeholderCmd = &cobra.Command{
	Use:   "placeholder",
	Short: "Manage the placeholder image imgur serves for missing images",
}

var placeholderFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download a fresh copy of imgur's placeholder image",
	Long: heredoc.Docf(`
		Downloads imgur's placeholder image from %s.

		By default this replaces the cached copy in ~/.imgurdl, which every
		download is compared against unless --placeholder is given.  Run this
		if imgur's placeholder ever changes.
	`, imgurdl.PlaceholderURL),
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out, err := cmd.Flags().GetString("out")
		log.LogDieOnError(err)
		if out == "" {
			out, err = imgurdl.DefaultPlaceholderCache()
			log.LogDieOnError(err)
		}

		if _, err := imgurdl.FetchPlaceholder(cmd.Context(), newDownloadClient(), out); err != nil {
			log.LogFatal(err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Saved placeholder to %s\n", out)
	},
}

func init() {
	rootCmd.AddCommand(placeholderCmd)
	placeholderCmd.AddCommand(placeholderFetchCmd)
	placeholderFetchCmd.Flags().StringP("out", "o", "", "File to save the placeholder to (default is the cache in ~/.imgurdl)")
}
