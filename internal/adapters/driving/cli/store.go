package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	storeMeta []string
	storeYes  bool
)

// stdinIsTerminal reports whether prompts can be answered interactively.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

var storeCmd = &cobra.Command{
	Use:   "store [product-name] [file]",
	Short: "Store a PRD from a markdown file",
	Long: `Stores a markdown file as a PRD, writing the markdown and a rendered HTML page.

Use "-" as the file to read from stdin. The command asks for confirmation on
a terminal; pass --yes to skip the prompt.`,
	Args: cobra.ExactArgs(2),
	RunE: runStore,
}

func init() {
	storeCmd.Flags().StringArrayVar(&storeMeta, "meta", nil, "metadata as key=value (repeatable)")
	storeCmd.Flags().BoolVarP(&storeYes, "yes", "y", false, "store without asking for confirmation")
	rootCmd.AddCommand(storeCmd)
}

func runStore(cmd *cobra.Command, args []string) error {
	name, path := args[0], args[1]

	metadata, err := parseMeta(storeMeta)
	if err != nil {
		return err
	}

	content, err := readContent(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	if !storeYes {
		if path == "-" || !stdinIsTerminal() {
			return errors.New("refusing to store without confirmation: pass --yes")
		}
		ok, err := confirmPrompt(cmd, fmt.Sprintf("Store PRD %q (%d bytes)?", name, len(content)))
		if err != nil {
			return err
		}
		if !ok {
			cmd.Println("Not stored.")
			return nil
		}
	}

	a, err := requireApp(cmd)
	if err != nil {
		return err
	}

	stored, err := a.documents.Store(cmd.Context(), name, content, metadata)
	if err != nil {
		return fmt.Errorf("failed to store PRD: %w", err)
	}

	cmd.Printf("Stored PRD %s\n", stored.ID)
	cmd.Printf("  Markdown: %s\n", stored.MarkdownURI)
	cmd.Printf("  HTML:     %s\n", stored.HTMLURI)
	cmd.Printf("  URL:      %s\n", stored.HTMLURL)
	return nil
}

func parseMeta(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	meta := make(map[string]string, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --meta %q: expected key=value", p)
		}
		meta[key] = value
	}
	return meta, nil
}

func readContent(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// confirmPrompt asks a y/N question on the command's input.
func confirmPrompt(cmd *cobra.Command, question string) (bool, error) {
	cmd.Printf("%s [y/N]: ", question)
	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
