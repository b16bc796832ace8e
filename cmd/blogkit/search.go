package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eringen/blogkit"
	"github.com/eringen/blogkit/search"
)

var searchURL string

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Query the search API of a running site",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchURL, "url", "", "Site base URL (defaults to the configured site URL)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := blogkit.LoadConfig(configPath)
	if err != nil {
		return err
	}
	base := searchURL
	if base == "" {
		base = cfg.Site.URL
	}

	client := search.NewClient(base, cfg.Search.MinQueryLength)
	res := client.Search(cmd.Context(), strings.Join(args, " "))
	out := cmd.OutOrStdout()
	switch res.Kind {
	case search.Success:
		for _, hit := range res.Hits {
			fmt.Fprintf(out, "%s\t%s\t%s\n", hit.ID, hit.Title, strings.Join(hit.Tags, ", "))
		}
	case search.Empty:
		fmt.Fprintln(out, "No posts match your search.")
	case search.TooShort:
		return fmt.Errorf("query must be at least %d characters", cfg.Search.MinQueryLength)
	case search.Error:
		return res.Err
	}
	return nil
}
