package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/config"
	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/ui"
)

var configInit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or create configuration",
	Long:  "Show the effective configuration, or create a default config file with --init.",
	Run:   runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configInit, "init", false, "create a default config.yaml")
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) {
	styles := ui.DefaultStyles()

	if configInit {
		if _, err := os.Stat("config.yaml"); err == nil {
			fmt.Println(styles.Muted.Render("config.yaml already exists."))
			return
		}
		if err := config.DefaultConfig().Save("config.yaml"); err != nil {
			fmt.Println(styles.Error.Render(fmt.Sprintf("Failed to create config: %v", err)))
			os.Exit(1)
		}
		fmt.Println(styles.Success.Render("Created config.yaml with default settings."))
		return
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		cfg = config.DefaultConfig()
		fmt.Println(styles.Muted.Render("No config file found. Showing defaults:\n"))
	} else {
		fmt.Println(styles.Header.Render("Current configuration:\n"))
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		fmt.Println(styles.Error.Render(fmt.Sprintf("Error: %v", err)))
		return
	}
	fmt.Println(string(data))

	fmt.Println(styles.Muted.Render("Config file locations (in order of precedence):"))
	fmt.Println("  1. --config <path>")
	fmt.Println("  2. ./config.yaml")
	fmt.Println("  3. ~/.mcp-webui/config.yaml")
}
