package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/agent"
	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/config"
	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/dispatch"
	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/llm"
	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/provider"
	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/session"
	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/ui"
)

var (
	configPath       string
	addServers       []string
	hideInstructions bool
	verbose          bool
)

var rootCmd = &cobra.Command{
	Use:   "mcpcli",
	Short: "Interactive MCP client with multi-server tool dispatch",
	Long: `mcpcli connects to one or more MCP tool servers, aggregates their
tools into a single registry, and offers an interactive prompt to list and
invoke them. When a llama-server is reachable, the ask command routes
queries through the model and dispatches any tool calls it produces.

Usage:
  mcpcli
  mcpcli --add-server "calc localhost 8889 llama-agent"
  mcpcli --config ./config.yaml`,
	RunE: run,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	rootCmd.Flags().StringArrayVar(&addServers, "add-server", nil,
		"additional server as 'name host port type' (repeatable)")
	rootCmd.Flags().BoolVar(&hideInstructions, "hide-instructions", false,
		"skip the command reference on startup")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	rootCmd.AddCommand(versionCmd)
}

func run(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	styles := ui.DefaultStyles()
	logger := createLogger(verbose)
	defer logger.Sync()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Println(styles.Error.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
	for _, raw := range addServers {
		sc, err := config.ParseServerFlag(raw)
		if err != nil {
			fmt.Println(styles.Error.Render(fmt.Sprintf("Error: %v", err)))
			os.Exit(1)
		}
		cfg.Servers = append(cfg.Servers, sc)
	}
	if hideInstructions {
		cfg.ShowInstructions = false
	}

	ctx := context.Background()

	connector := provider.NewConnector(logger)
	providers, err := connector.ConnectAll(ctx, cfg.Servers)
	if err != nil {
		fmt.Println(styles.Error.Render(
			"Failed to connect to any MCP servers. Exiting."))
		os.Exit(1)
	}

	registry := provider.NewRegistry(logger)
	for _, p := range providers {
		registry.Register(p)
	}
	defer registry.Close()

	fmt.Println(styles.Success.Render(
		fmt.Sprintf("Connected to %d server(s).", len(providers))))

	dispatcher := dispatch.NewDispatcher(registry,
		time.Duration(cfg.CallTimeoutSeconds)*time.Second, logger)

	sess := session.New(session.Config{
		Registry:         registry,
		Dispatcher:       dispatcher,
		Asker:            buildAsker(ctx, cfg, registry, dispatcher, logger, styles),
		ShowInstructions: cfg.ShowInstructions,
		Logger:           logger,
	})
	return sess.Run(ctx)
}

// buildAsker wires the optional ask pipeline. A dead llama-server just
// disables the ask command; the rest of the client works without it.
func buildAsker(ctx context.Context, cfg *config.Config, registry *provider.Registry,
	dispatcher *dispatch.Dispatcher, logger *zap.Logger, styles ui.Styles) session.Asker {

	eng := llm.NewClient(llm.Config{
		BaseURL: cfg.LLM.Endpoint,
		Timeout: time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
	}, logger)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := eng.Ping(pingCtx); err != nil {
		logger.Info("llama-server unreachable, ask disabled",
			zap.String("endpoint", cfg.LLM.Endpoint),
			zap.Error(err))
		fmt.Println(styles.Muted.Render(
			"No llama-server found; 'ask' is disabled."))
		return nil
	}

	a, err := agent.New(agent.Config{
		Engine:     eng,
		Registry:   registry,
		Dispatcher: dispatcher,
		Predict:    cfg.LLM.Predict,
		Logger:     logger,
	})
	if err != nil {
		logger.Warn("agent setup failed", zap.Error(err))
		return nil
	}
	return a
}

func createLogger(verbose bool) *zap.Logger {
	if verbose {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}
