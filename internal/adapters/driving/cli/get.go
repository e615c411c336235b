package cli

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/prdstore/internal/core/domain"
)

var (
	getJSON   bool
	getRender bool
)

var getCmd = &cobra.Command{
	Use:   "get [prd-id]",
	Short: "Print a stored PRD",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func init() {
	getCmd.Flags().BoolVar(&getJSON, "json", false, "output the PRD as JSON")
	getCmd.Flags().BoolVar(&getRender, "render", false, "render markdown for the terminal")
	getCmd.MarkFlagsMutuallyExclusive("json", "render")
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	a, err := requireApp(cmd)
	if err != nil {
		return err
	}

	doc, err := a.documents.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	switch {
	case getJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal PRD: %w", err)
		}
		cmd.Println(string(data))
	case getRender:
		out, err := renderTerminal(doc.Content)
		if err != nil {
			return fmt.Errorf("failed to render PRD: %w", err)
		}
		cmd.Print(out)
	default:
		printDocument(cmd, doc)
	}
	return nil
}

func printDocument(cmd *cobra.Command, doc *domain.RetrievedDocument) {
	cmd.Printf("%s (%s)\n", doc.Name, doc.ID)
	if !doc.CreatedAt.IsZero() {
		cmd.Printf("Created: %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	}
	cmd.Printf("Location: %s\n", doc.URI)
	cmd.Println()
	cmd.Println(doc.Content)
}

func renderTerminal(markdown string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return r.Render(markdown)
}
