package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/config"
	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/shell"
	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/toolserver"
	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/ui"
)

var (
	configPath string
	host       string
	port       int
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "mcpagent",
	Short: "MCP tool server with calculator and shell tools",
	Long: `mcpagent exposes a calculator and a guarded shell_command tool over
the MCP streamable HTTP transport, for use by mcpcli or any other MCP client.

Usage:
  mcpagent
  mcpagent --port 9001`,
	RunE: run,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	rootCmd.Flags().StringVar(&host, "host", "localhost", "interface to listen on")
	rootCmd.Flags().IntVar(&port, "port", 8889, "port to listen on")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
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

	safety := shell.DefaultPolicy()
	if len(cfg.Safety.Blocklist) > 0 || len(cfg.Safety.Allowlist) > 0 {
		safety = &shell.Policy{
			Blocklist: cfg.Safety.Blocklist,
			Allowlist: cfg.Safety.Allowlist,
		}
	}

	srv := toolserver.New(safety, logger)

	mux := http.NewServeMux()
	mux.Handle("/mcp", srv.Handler())

	addr := fmt.Sprintf("%s:%d", host, port)
	fmt.Println(styles.Header.Render("MCP agent"))
	fmt.Printf("Listening on %s\n", styles.Success.Render("http://"+addr+"/mcp"))
	logger.Info("serving", zap.String("addr", addr))

	if err := http.ListenAndServe(addr, mux); err != nil {
		fmt.Println(styles.Error.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
	return nil
}

func createLogger(verbose bool) *zap.Logger {
	if verbose {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}
