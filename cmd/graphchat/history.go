// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/graphchat/internal/history"
	"github.com/pdiddy/graphchat/internal/workspace"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently handled questions and answers",
	Long: `History lists the interactions the bot has handled, most recent first,
from the workspace's history database.`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	ws := workspace.New(cfg.Workspace)
	store, err := history.NewStore(ws.Root, cfg.History.MaxResults)
	if err != nil {
		return err
	}
	defer store.Close()

	items, err := store.Recent(context.Background(), limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	if len(items) == 0 {
		fmt.Println("No interactions recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %-8s  %-8s  %-50s\n", "When", "Mode", "Status", "Question")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 92))
	for _, in := range items {
		q := in.Question
		if len(q) > 50 {
			q = q[:47] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-20s  %-8s  %-8s  %-50s\n",
			in.CreatedAt.Format("2006-01-02 15:04:05"), in.Mode, in.Status, q)
	}
	return nil
}

func init() {
	historyCmd.Flags().Int("limit", 0, "maximum interactions to show (0 uses the configured default)")
	historyCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(historyCmd)
}
