package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"travelchat/internal/config"
	"travelchat/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat in an interactive terminal console",
	Long: `Opens a full-screen chat console. Type a message and press Enter; use
the arrow keys to pick a suggestion and Enter on an empty line to send it.
Logs go to a file while the console is open.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	application, err := newApp(cmd.Context(), fileOnlyLogging)
	if err != nil {
		return err
	}
	return tui.Run(application.ChatService, application.Summary)
}

// fileOnlyLogging keeps log lines off the console screen.
func fileOnlyLogging(l *config.LoggingConfig) {
	l.Output = []string{"file"}
	if l.File == "" {
		l.File = filepath.Join("logs", "travelchat.log")
	}
}
