package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var docsJSON bool

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "List the loaded travel documents",
	Args:  cobra.NoArgs,
	RunE:  runDocs,
}

func init() {
	docsCmd.Flags().BoolVar(&docsJSON, "json", false, "output documents as JSON")
	rootCmd.AddCommand(docsCmd)
}

func runDocs(cmd *cobra.Command, _ []string) error {
	application, err := newApp(cmd.Context(), quietLogging)
	if err != nil {
		return err
	}
	docs := application.ChatService.Documents()
	out := cmd.OutOrStdout()

	if docsJSON {
		data, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal documents: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if application.Summary != "" {
		fmt.Fprintln(out, application.Summary)
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "%d documents (search: %s)\n", len(docs), application.Ranker.Name())
	for i, d := range docs {
		fmt.Fprintf(out, "  [%d] %s", i+1, d.Name)
		if d.Location != "" {
			fmt.Fprintf(out, " - %s", d.Location)
		}
		if d.Price != "" {
			fmt.Fprintf(out, " (%s)", d.Price)
		}
		fmt.Fprintln(out)
	}
	return nil
}
