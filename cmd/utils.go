package cmd

import (
	"net/url"
	"path"
	"strings"

	"github.com/jwalton/go-supportscolor"
	"github.com/jwalton/imgurdl/cmd/reporters"
	"github.com/jwalton/imgurdl/internal/log"
	"github.com/jwalton/imgurdl/pkg/download"
	"github.com/jwalton/imgurdl/pkg/imgurdl"
	"github.com/spf13/viper"
)

func getReporter(verbose bool) imgurdl.ProgressReporter {
	var result imgurdl.ProgressReporter

	if verbose || !supportscolor.Stdout().SupportsColor {
		result = reporters.NewVerboseReporter()
	} else {
		var err error
		result, err = reporters.NewProgressBarReporter()
		if err != nil {
			result = reporters.NewVerboseReporter()
		}
	}

	return result
}

// newDownloader builds a Downloader from the persistent flags, config file,
// and environment.
func newDownloader(reporter imgurdl.ProgressReporter) *imgurdl.Downloader {
	downloader, err := imgurdl.NewDownloader(
		imgurdl.SetUserAgent(viper.GetString("user-agent")),
		imgurdl.SetMaxRetries(viper.GetUint("max-retries")),
		imgurdl.SetRetryDelay(viper.GetDuration("retry-delay")),
		imgurdl.SetBackoffFactor(viper.GetFloat64("backoff-factor")),
		imgurdl.SetTimeout(viper.GetDuration("timeout")),
		imgurdl.SetPlaceholderFile(viper.GetString("placeholder")),
		imgurdl.SetReporter(reporter),
	)
	if err != nil {
		log.LogFatal(err)
	}
	return downloader
}

// newDownloadClient builds a plain download.Client from the same settings
// newDownloader uses.
func newDownloadClient() *download.Client {
	return download.NewClient(
		download.UserAgent(viper.GetString("user-agent")),
		download.MaxRetries(viper.GetUint("max-retries")),
		download.RetryDelay(viper.GetDuration("retry-delay")),
		download.BackoffFactor(viper.GetFloat64("backoff-factor")),
		download.WithTimeout(viper.GetDuration("timeout")),
	)
}

// identifierFromURL returns the last element of the URL's path, without an
// extension.  "https://i.imgur.com/abc123.png" becomes "abc123".
func identifierFromURL(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}

	base := path.Base(strings.TrimRight(p, "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	if base == "" || base == "." || base == "/" {
		return "image"
	}
	return base
}
