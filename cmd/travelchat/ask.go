package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"travelchat/internal/domain"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Ask a single travel question",
	Long: `Sends one message through the same pipeline as the HTTP API and prints
the reply with four follow-up suggestions.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the raw chat response as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	application, err := newApp(cmd.Context(), quietLogging)
	if err != nil {
		return err
	}

	resp, err := application.ChatService.Chat(cmd.Context(), &domain.ChatRequest{UserInput: strings.Join(args, " ")})
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}
	out := cmd.OutOrStdout()

	if askJSON {
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal response: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintln(out, resp.Response)
	fmt.Fprintln(out)
	if !resp.AIPowered {
		fmt.Fprintln(out, "(offline answer)")
	}
	fmt.Fprintln(out, "Suggestions:")
	for i, s := range resp.Suggestions {
		fmt.Fprintf(out, "  [%d] %s\n", i+1, s)
	}
	return nil
}
