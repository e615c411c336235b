package cli

import (
	"encoding/json"
	"fmt"
	"os/user"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/prdstore/internal/core/domain"
)

var confirmCmd = &cobra.Command{
	Use:   "confirm",
	Short: "Review writes waiting for confirmation",
	Long: `List, inspect, approve or reject store requests made by an AI assistant.

An approved request is applied the next time the assistant resubmits its
confirmation token. A rejected request is closed for good.

Confirmations are only visible across processes when confirmation.store is sqlite.`,
}

var confirmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List open confirmations",
	Args:  cobra.NoArgs,
	RunE:  runConfirmList,
}

var confirmShowCmd = &cobra.Command{
	Use:   "show [token]",
	Short: "Show a confirmation",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfirmShow,
}

var confirmApproveCmd = &cobra.Command{
	Use:   "approve [token]",
	Short: "Approve a pending confirmation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfirmDecide(cmd, args[0], true)
	},
}

var confirmRejectCmd = &cobra.Command{
	Use:   "reject [token]",
	Short: "Reject a pending confirmation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfirmDecide(cmd, args[0], false)
	},
}

var confirmJSON bool

func init() {
	confirmShowCmd.Flags().BoolVar(&confirmJSON, "json", false, "output the confirmation as JSON")

	confirmCmd.AddCommand(confirmListCmd)
	confirmCmd.AddCommand(confirmShowCmd)
	confirmCmd.AddCommand(confirmApproveCmd)
	confirmCmd.AddCommand(confirmRejectCmd)
	rootCmd.AddCommand(confirmCmd)
}

func runConfirmList(cmd *cobra.Command, _ []string) error {
	a, err := requireApp(cmd)
	if err != nil {
		return err
	}

	pending, err := a.confirmations.ListPending(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list confirmations: %w", err)
	}

	if len(pending) == 0 {
		cmd.Println("No confirmations waiting.")
		return nil
	}

	for i := range pending {
		c := &pending[i]
		cmd.Printf("  %s  %-8s  %s %q  (%s)\n",
			c.Token, c.State, c.Tool, c.Target, c.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	cmd.Printf("\nTotal: %d\n", len(pending))
	return nil
}

func runConfirmShow(cmd *cobra.Command, args []string) error {
	a, err := requireApp(cmd)
	if err != nil {
		return err
	}

	c, err := a.confirmations.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if confirmJSON {
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal confirmation: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printConfirmation(cmd, c)
	return nil
}

func printConfirmation(cmd *cobra.Command, c *domain.Confirmation) {
	cmd.Printf("Token:   %s\n", c.Token)
	cmd.Printf("Tool:    %s\n", c.Tool)
	cmd.Printf("Target:  %s\n", c.Target)
	cmd.Printf("State:   %s\n", c.State)
	cmd.Printf("Created: %s\n", c.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	if c.DecidedAt != nil {
		cmd.Printf("Decided: %s by %s\n", c.DecidedAt.Format("2006-01-02 15:04:05 MST"), c.DecidedBy)
	}
	if c.Error != "" {
		cmd.Printf("Error:   %s\n", c.Error)
	}
	cmd.Println()
	cmd.Println(c.Consequence)
	cmd.Println()
	cmd.Println(c.Preview)
}

func runConfirmDecide(cmd *cobra.Command, token string, approved bool) error {
	a, err := requireApp(cmd)
	if err != nil {
		return err
	}

	c, err := a.confirmations.Decide(cmd.Context(), token, approved, decider())
	if err != nil {
		return err
	}

	cmd.Printf("Confirmation %s is now %s.\n", c.Token, c.State)
	return nil
}

func decider() string {
	u, err := user.Current()
	if err != nil || u.Username == "" {
		return "cli"
	}
	return "cli:" + u.Username
}
