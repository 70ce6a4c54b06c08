// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/graphchat/internal/engine"
	"github.com/pdiddy/graphchat/internal/index"
	"github.com/pdiddy/graphchat/internal/log"
	"github.com/pdiddy/graphchat/internal/workspace"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Sync the corpus, convert documents, and build the index if needed",
	Long: `Index runs the bootstrap pipeline once and exits. The corpus is synced
and converted on every run; the engine's build step only runs when forced
or when the artifact set is incomplete. Build failures abort with a
non-zero exit.`,
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	force, _ := cmd.Flags().GetBool("force")
	logger := log.New(log.Config{})

	ws := workspace.New(cfg.Workspace)
	eng := engine.NewCLIEngine(cfg.Engine)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mgr := index.NewManager(ws, eng, cfg, logger, os.Stdout)
	if err := mgr.Bootstrap(ctx, force); err != nil {
		return err
	}

	logger.Info("bootstrap complete", "workspace", ws.Root, "state", ws.State().String())
	return nil
}

func init() {
	indexCmd.Flags().Bool("force", false, "rebuild the index even if artifacts exist")

	rootCmd.AddCommand(indexCmd)
}
