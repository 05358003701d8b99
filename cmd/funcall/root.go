package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/chat"
	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/config"
	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/engine"
	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/llm"
	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/shell"
	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/ui"
)

const systemPrompt = "You are a helpful assistant that can execute shell commands. " +
	"When the user asks for something that requires a command, generate and execute " +
	"the appropriate shell command. Be careful and only execute safe commands."

var (
	configPath string
	endpoint   string
	prompt     string
	predict    int
	confirm    bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "funcall",
	Short: "Single-tool function calling against a local llama-server",
	Long: `funcall formats a chat prompt with the local shell_command tool,
generates a response token by token, and executes any tool calls the model
produced.

Usage:
  funcall -p "list the files in the current directory"
  funcall -p "show the date" --confirm`,
	RunE: run,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	rootCmd.Flags().StringVarP(&endpoint, "endpoint", "e", "http://localhost:8080", "llama-server endpoint")
	rootCmd.Flags().StringVarP(&prompt, "prompt", "p", "", "prompt to generate from (required)")
	rootCmd.Flags().IntVarP(&predict, "n-predict", "n", 256, "maximum number of tokens to generate")
	rootCmd.Flags().BoolVar(&confirm, "confirm", false, "ask before executing each command")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.MarkFlagRequired("prompt")

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

	eng := llm.NewClient(llm.Config{BaseURL: endpoint}, logger)

	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = eng.Ping(pingCtx)
	cancel()
	if err != nil {
		fmt.Println(styles.Error.Render(fmt.Sprintf("Error: %v", err)))
		fmt.Println(styles.Muted.Render("Start one with: llama-server -m model.gguf"))
		os.Exit(1)
	}

	conversation := []chat.Message{
		chat.SystemMessage(systemPrompt),
		chat.UserMessage(prompt),
	}
	formatted := chat.NewTemplate().Apply(conversation,
		[]chat.ToolDef{shell.Definition()}, chat.ToolChoiceAuto)

	loop := engine.NewLoop(eng, logger)
	loop.OnPiece = func(piece string) { fmt.Print(piece) }

	result, err := loop.RunPredict(context.Background(), formatted.Text, predict)
	if err != nil {
		fmt.Println(styles.Error.Render(fmt.Sprintf("\nError: %v", err)))
		os.Exit(1)
	}
	fmt.Println()

	parsed := chat.Parse(result.Text, formatted.Format, true)
	if len(parsed.ToolCalls) == 0 {
		if parsed.Content != "" {
			fmt.Printf("\nResponse: %s\n", parsed.Content)
		}
		return nil
	}

	executor := shell.NewExecutor(confirmPolicy(cfg, cmd.Flags().Changed("confirm"), confirm), logger)

	fmt.Println(styles.Header.Render("\nFunction calls detected:"))
	for _, call := range parsed.ToolCalls {
		fmt.Printf("  Function: %s\n", styles.ToolName.Render(call.Name))
		fmt.Printf("  Arguments: %s\n", call.Arguments)

		output, err := executor.Execute(context.Background(), call)
		if err != nil {
			// Per-invocation failure; siblings are still attempted.
			fmt.Println(styles.Error.Render(fmt.Sprintf("  Error: %v", err)))
			continue
		}
		if output == shell.ResultDeclined {
			fmt.Println(styles.Muted.Render("  Command execution cancelled."))
			continue
		}
		fmt.Printf("  Result:\n%s", output)
	}
	return nil
}

// confirmPolicy layers the --confirm flag over the confirm_commands config
// key; an explicitly set flag wins either way.
func confirmPolicy(cfg *config.Config, flagSet, flagValue bool) shell.ConfirmPolicy {
	confirm := cfg.ConfirmCommands
	if flagSet {
		confirm = flagValue
	}
	if confirm {
		return shell.AskOperator
	}
	return shell.AlwaysExecute
}

func createLogger(verbose bool) *zap.Logger {
	if verbose {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}
