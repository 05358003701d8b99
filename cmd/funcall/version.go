package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/ui"
)

var (
	Version   = "0.1.0"
	GitCommit = "dev"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		styles := ui.DefaultStyles()
		fmt.Println(styles.Header.Render("funcall"))
		fmt.Printf("%s %s (%s)\n", styles.Muted.Render("Version:"), Version, GitCommit)
		fmt.Printf("%s %s %s/%s\n", styles.Muted.Render("Go:"),
			runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}
