// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/graphchat/internal/bot"
	"github.com/pdiddy/graphchat/internal/engine"
	"github.com/pdiddy/graphchat/internal/history"
	"github.com/pdiddy/graphchat/internal/index"
	"github.com/pdiddy/graphchat/internal/log"
	"github.com/pdiddy/graphchat/internal/query"
	"github.com/pdiddy/graphchat/internal/workspace"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bootstrap pipeline, then serve the chat front end",
	Long: `Serve runs the bootstrap pipeline (sync, convert, build-or-skip) once,
then polls the chat platform for questions. A bootstrap failure is logged
and the front end starts anyway; questions against a missing index fail
per-message with a user-safe error instead of keeping the bot offline.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	force, _ := cmd.Flags().GetBool("force")
	logger := log.New(log.Config{})

	ws := workspace.New(cfg.Workspace)
	eng := engine.NewCLIEngine(cfg.Engine)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mgr := index.NewManager(ws, eng, cfg, logger, os.Stdout)
	if err := mgr.Bootstrap(ctx, force); err != nil {
		logger.Error("bootstrap failed, starting chat front end anyway", "error", err)
	}

	router := query.NewRouter(ws, eng, cfg.Query, logger)

	var recorder bot.Recorder
	if cfg.History.Enabled {
		store, err := history.NewStore(ws.Root, cfg.History.MaxResults)
		if err != nil {
			logger.Warn("history store unavailable, continuing without it", "error", err)
		} else {
			defer store.Close()
			recorder = store
		}
	}

	svc, err := bot.New(cfg.Bot, router, recorder, logger)
	if err != nil {
		return err
	}

	logger.Info("chat front end started", "workspace", ws.Root, "state", ws.State().String())
	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func init() {
	serveCmd.Flags().Bool("force", false, "rebuild the index even if artifacts exist")

	rootCmd.AddCommand(serveCmd)
}
