package main

import (
	"github.com/spf13/cobra"

	"github.com/eringen/blogkit"
	"github.com/eringen/blogkit/markdown"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Write the RSS feed and sitemap into the public directory",
	RunE:  runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(_ *cobra.Command, _ []string) error {
	cfg, err := blogkit.LoadConfig(configPath)
	if err != nil {
		return err
	}
	logger := blogkit.NewLogger("blogkit", cfg.Log.Level)
	if err := blogkit.Build(cfg, markdown.New(markdown.Options{}), logger); err != nil {
		return err
	}
	logger.Infof("build complete: %s", cfg.Server.PublicDir)
	return nil
}
