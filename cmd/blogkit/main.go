// Command blogkit serves a blogkit site, builds its static artifacts, and
// scaffolds new projects.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "blogkit",
	Short: "A file-based personal blog engine built with Go, Echo, and templ",
	Long: `blogkit serves Markdown/MDX posts from a content directory, publishes an
RSS feed and sitemap, answers search queries, and delivers a digital asset
after a confirmed payment.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "blogkit.toml", "Path to the site config file")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
