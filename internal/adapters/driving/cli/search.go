package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/prdstore/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search stored PRDs",
	Long: `Searches the primary index for matching PRDs.
When the index is unavailable, stored PRDs are scanned for the query instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (default search.max_results)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := requireApp(cmd)
	if err != nil {
		return err
	}

	results, err := a.search.Search(cmd.Context(), args[0], searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	outputSearchTable(cmd, results)
	return nil
}

func outputSearchTable(cmd *cobra.Command, results *domain.SearchResults) {
	if len(results.Hits) == 0 {
		cmd.Println("No results found.")
		return
	}

	cmd.Println("Results:")
	if results.Path == domain.SearchPathFallback {
		cmd.Println("(index unavailable, scanned stored PRDs)")
	}
	cmd.Println()
	for i, hit := range results.Hits {
		// Format: [N] Name (id)
		cmd.Printf("  [%d] %s (%s)\n", i+1, hit.Name, hit.DocumentID)
		if hit.Summary != "" {
			cmd.Printf("      %s\n", hit.Summary)
		}
		if hit.Snippet != "" && hit.Snippet != hit.Summary {
			cmd.Printf("      ...%s...\n", hit.Snippet)
		}
		cmd.Println()
	}
}
