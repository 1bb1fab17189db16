// Package cmd contains code for the `imgurdl` CLI tool.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/jwalton/imgurdl/internal/log"
	"github.com/jwalton/imgurdl/pkg/providers/env"
	"github.com/spf13/cobra"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "imgurdl",
	Short: "Downloads images from imgur",
	Long: heredoc.Doc(`
		imgurdl downloads single images from imgur, given a direct image link,
		a post page, or an album.

		Examples:

		  # Download the cover image of an imgur gallery
		  imgurdl get https://imgur.com/gallery/88wOh

		  # Download every image listed in a CSV of "identifier,url" rows
		  imgurdl batch manifest.csv -o images
	`),
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		log.LogError(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.imgurdl.yaml)")
	flags.BoolP("verbose", "d", false, "Use verbose output")
	flags.String("user-agent", env.DefaultUserAgent, "User-Agent to send with every request")
	flags.Uint("max-retries", 3, "Number of times to retry a failed image request")
	flags.Duration("retry-delay", 2*time.Second, "Delay before the first retry")
	flags.Float64("backoff-factor", 2, "Multiplier applied to the delay between retries")
	flags.Duration("timeout", 60*time.Second, "Timeout for each request (0 for no timeout)")
	flags.String("placeholder", "", "Placeholder image to compare downloads against (default is the cache in ~/.imgurdl, fetched from imgur if missing)")

	for _, name := range []string{"verbose", "user-agent", "max-retries", "retry-delay", "backoff-factor", "timeout", "placeholder"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			log.LogFatal(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			log.LogFatal(err)
		}

		// Search config in home directory with name ".imgurdl" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".imgurdl")
	}

	// IMGURDL_MAX_RETRIES and friends.
	viper.SetEnvPrefix("imgurdl")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.  Stdout is reserved for results.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
