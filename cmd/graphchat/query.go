// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/graphchat/internal/engine"
	"github.com/pdiddy/graphchat/internal/log"
	"github.com/pdiddy/graphchat/internal/query"
	"github.com/pdiddy/graphchat/internal/workspace"
	"github.com/pdiddy/graphchat/pkg/types"
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask one question against the built index",
	Long: `Query dispatches a single question to the engine using the requested
search mode. Local search scopes retrieval to entities near the question's
focal concepts; global search draws on corpus-wide community summaries.
The index must have been built first (see the index subcommand).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	modeStr, _ := cmd.Flags().GetString("mode")
	showContext, _ := cmd.Flags().GetBool("context")

	mode, ok := types.ParseSearchMode(modeStr)
	if !ok {
		return fmt.Errorf("unsupported search mode %q: use local or global", modeStr)
	}

	logger := log.New(log.Config{})
	ws := workspace.New(cfg.Workspace)
	eng := engine.NewCLIEngine(cfg.Engine)
	router := query.NewRouter(ws, eng, cfg.Query, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	q := types.Question{Text: strings.Join(args, " "), Mode: mode}
	answer, err := router.Query(ctx, q)
	if err != nil {
		return err
	}

	fmt.Println(answer.Text)
	if showContext && answer.Context != "" {
		fmt.Fprintf(os.Stderr, "\nretrieval context: %s\n", answer.Context)
	}
	return nil
}

func init() {
	queryCmd.Flags().String("mode", "local", "search mode: local or global")
	queryCmd.Flags().Bool("context", false, "print the retrieval context summary to stderr")

	rootCmd.AddCommand(queryCmd)
}
