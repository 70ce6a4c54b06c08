// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the graphchat CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/graphchat/internal/secrets"
	"github.com/pdiddy/graphchat/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, otherwise the secret value
// for key if one was loaded.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the graphchat CLI.
var rootCmd = &cobra.Command{
	Use:   "graphchat",
	Short: "Chat with a documentation corpus through a knowledge-graph index",
	Long: `graphchat keeps a git-hosted documentation corpus current, converts it
into the input a knowledge-graph retrieval engine ingests, builds or reuses
the engine's index, and answers questions against it over a chat front end.

The bootstrap pipeline (sync, convert, build-or-skip) is one subcommand
away from the serving loop: use index for an explicit rebuild, query for
one-shot questions, and serve to run the chat front end.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./graphchat.yaml or ~/.config/graphchat/config.yaml)")
	rootCmd.PersistentFlags().String("workspace", "", "project workspace root (default: ./ragtest)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("graphchat")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "graphchat"))
		}
	}

	viper.SetDefault("workspace", types.DefaultWorkspace)
	viper.SetDefault("conversion.extension", ".md")
	viper.SetDefault("query.community_level", 2)
	viper.SetDefault("query.response_type", "Multiple Paragraphs")
	viper.SetDefault("bot.mention_only", true)
	viper.SetDefault("bot.poll_timeout", "60s")
	viper.SetDefault("history.enabled", true)
	viper.SetDefault("history.max_results", 20)
	viper.SetDefault("engine.binary", "graphrag")

	viper.SetEnvPrefix("GRAPHCHAT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Environment names the original deployment used.
	viper.BindEnv("sync.remote_url", "GRAPHCHAT_SYNC_REMOTE_URL", "REPO_URL")
	viper.BindEnv("workspace", "GRAPHCHAT_WORKSPACE", "WORK_DIRECTORY")
	viper.BindEnv("bot.token", "GRAPHCHAT_BOT_TOKEN", "TELEGRAM_BOT_TOKEN")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig assembles the effective configuration from viper, flags,
// and loaded secrets.
func loadConfig() types.Config {
	cfg := types.Config{
		Workspace: viper.GetString("workspace"),
		Sync: types.SyncConfig{
			RemoteURL: viper.GetString("sync.remote_url"),
			Depth:     viper.GetInt("sync.depth"),
		},
		Conversion: types.ConversionConfig{
			Extension: viper.GetString("conversion.extension"),
		},
		Index: types.IndexConfig{
			OverridesDir: viper.GetString("index.overrides_dir"),
		},
		Query: types.QueryConfig{
			CommunityLevel: viper.GetInt("query.community_level"),
			ResponseType:   viper.GetString("query.response_type"),
		},
		Bot: types.BotConfig{
			Token:       secretDefault("telegram-bot-token", viper.GetString("bot.token")),
			MentionOnly: viper.GetBool("bot.mention_only"),
			PollTimeout: viper.GetDuration("bot.poll_timeout"),
		},
		History: types.HistoryConfig{
			Enabled:    viper.GetBool("history.enabled"),
			MaxResults: viper.GetInt("history.max_results"),
		},
		Engine: types.EngineConfig{
			Binary: viper.GetString("engine.binary"),
		},
	}

	if ws, _ := rootCmd.PersistentFlags().GetString("workspace"); ws != "" {
		cfg.Workspace = ws
	}
	if cfg.Workspace == "" {
		cfg.Workspace = types.DefaultWorkspace
	}
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
