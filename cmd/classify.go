package cmd

import (
	"fmt"

	"github.com/jwalton/imgurdl/pkg/imgurdl"
	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <url>...",
	Short: "Print what kind of imgur URL each URL is",
	Long:  "Prints one line per URL: the kind (image, post, album, or unknown), a tab, and the URL.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, url := range args {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", imgurdl.Classify(url), url)
		}
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}
