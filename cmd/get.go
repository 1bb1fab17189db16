package cmd

import (
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/jwalton/imgurdl/internal/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <url> [identifier]",
	Short: "Download a single image",
	Example: heredoc.Doc(`
		# Download the cover image of an imgur gallery
		imgurdl get https://imgur.com/gallery/88wOh

		# Download a post and save it as "cat.jpeg" in the "images" folder
		imgurdl get https://imgur.com/abc123 cat -o images
	`),
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 1 {
			return fmt.Errorf("requires a URL to download from")
		}
		if len(args) > 2 {
			return fmt.Errorf("too many arguments")
		}

		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		url := args[0]

		identifier := identifierFromURL(url)
		if len(args) > 1 {
			identifier = args[1]
		}

		toFolder, err := cmd.Flags().GetString("out")
		if err != nil {
			log.LogFatal(err)
		}
		toFolder = prepareFolder(toFolder)

		downloader := newDownloader(getReporter(viper.GetBool("verbose")))
		status := downloader.Download(cmd.Context(), url, identifier, toFolder)

		if !status.OK() {
			os.Exit(1)
		}
	},
}

// prepareFolder returns the folder to download into, creating it if needed.
// An empty folder means the working directory.
func prepareFolder(folder string) string {
	if folder == "" {
		wd, err := os.Getwd()
		if err != nil {
			log.LogFatalf("Unable to determine working directory: %v", err)
		}
		return wd
	}

	if err := os.MkdirAll(folder, 0755); err != nil {
		log.LogFatalf("Unable to create %s: %v", folder, err)
	}
	return folder
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().StringP("out", "o", "", "Output directory to put files in")
}
