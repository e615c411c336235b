package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/prdstore/internal/logger"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the local search index from stored PRDs",
	Long: `Feeds every stored PRD to the local search index.

Only the bleve backend is indexed locally; a Vertex AI Search data store
is kept up to date by its own import pipeline.`,
	Args: cobra.NoArgs,
	RunE: runReindex,
}

func init() {
	rootCmd.AddCommand(reindexCmd)
}

func runReindex(cmd *cobra.Command, _ []string) error {
	a, err := requireApp(cmd)
	if err != nil {
		return err
	}
	if a.indexer == nil {
		return fmt.Errorf("search backend %s cannot be indexed locally", a.settings.Search.Backend)
	}

	ctx := cmd.Context()
	docs, err := a.documents.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list PRDs: %w", err)
	}

	indexed := 0
	for i := range docs {
		doc, err := a.documents.Get(ctx, docs[i].ID)
		if err != nil {
			logger.Warn("skip %s: %v", docs[i].ID, err)
			continue
		}
		if err := a.indexer.IndexDocument(ctx, doc.Document); err != nil {
			return fmt.Errorf("failed to index %s: %w", doc.ID, err)
		}
		indexed++
	}

	cmd.Printf("Indexed %d of %d PRDs.\n", indexed, len(docs))
	return nil
}
