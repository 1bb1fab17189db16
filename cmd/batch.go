package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/jwalton/imgurdl/internal/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultResultsFile = "results.csv"

type manifestEntry struct {
	Identifier string
	URL        string
}

var batchCmd = &cobra.Command{
	Use:   "batch <manifest.csv>",
	Short: "Download every image in a CSV manifest",
	Long: heredoc.Doc(`
		Downloads every image listed in a CSV manifest of "identifier,url" rows.
		A header row is optional.  Images are downloaded one at a time, and the
		status of each one is written to a results CSV of "identifier,url,status"
		rows.  A failed image never stops the batch.
	`),
	Example: heredoc.Doc(`
		# Download into "images", writing "images/results.csv"
		imgurdl batch manifest.csv -o images

		# Write the results somewhere else
		imgurdl batch manifest.csv -o images --results out.csv
	`),
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		toFolder, err := cmd.Flags().GetString("out")
		log.LogDieOnError(err)
		toFolder = prepareFolder(toFolder)

		resultsFile, err := cmd.Flags().GetString("results")
		log.LogDieOnError(err)
		if resultsFile == "" {
			resultsFile = filepath.Join(toFolder, defaultResultsFile)
		}

		manifest, err := os.Open(args[0])
		if err != nil {
			log.LogFatalf("Unable to open manifest: %v", err)
		}
		entries, err := readManifest(manifest)
		manifest.Close()
		if err != nil {
			log.LogFatalf("Unable to read manifest %s: %v", args[0], err)
		}

		out, err := os.Create(resultsFile)
		if err != nil {
			log.LogFatalf("Unable to create results file: %v", err)
		}
		defer out.Close()

		results := csv.NewWriter(out)
		log.LogDieOnError(results.Write([]string{"identifier", "url", "status"}))

		ctx := cmd.Context()
		downloader := newDownloader(getReporter(viper.GetBool("verbose")))

		succeeded := 0
		for _, entry := range entries {
			if ctx.Err() != nil {
				log.LogWarnf("Interrupted, stopping batch.")
				break
			}

			status := downloader.Download(ctx, entry.URL, entry.Identifier, toFolder)
			if status.OK() {
				succeeded++
			}

			// Flush every row, so an interrupted batch still has its results.
			log.LogDieOnError(results.Write([]string{entry.Identifier, entry.URL, status.String()}))
			results.Flush()
			log.LogDieOnError(results.Error())
		}

		fmt.Fprintf(os.Stderr, "Downloaded %d of %d images, results written to %s\n",
			succeeded, len(entries), resultsFile)
	},
}

// readManifest reads "identifier,url" rows from a CSV.  If the first row is a
// header naming those columns, it is skipped.  Blank identifiers or URLs are
// an error, since they would produce a file no one can find.
func readManifest(r io.Reader) ([]manifestEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) > 0 && isManifestHeader(records[0]) {
		records = records[1:]
	}

	entries := make([]manifestEntry, 0, len(records))
	for index, record := range records {
		if len(record) < 2 {
			return nil, fmt.Errorf("row %d: expected identifier and url, got %d fields", index+1, len(record))
		}

		entry := manifestEntry{
			Identifier: strings.TrimSpace(record[0]),
			URL:        strings.TrimSpace(record[1]),
		}
		if entry.Identifier == "" || entry.URL == "" {
			return nil, fmt.Errorf("row %d: identifier and url must not be empty", index+1)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func isManifestHeader(record []string) bool {
	return len(record) >= 2 &&
		strings.EqualFold(strings.TrimSpace(record[0]), "identifier") &&
		strings.EqualFold(strings.TrimSpace(record[1]), "url")
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringP("out", "o", "", "Output directory to put files in")
	batchCmd.Flags().String("results", "", "File to write results to (default is results.csv in the output directory)")
}
