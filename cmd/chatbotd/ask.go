package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"factory-chatbot-backend/internal/chart"
)

var chartOut string

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Answer one message and print the reply",
	Example: `  chatbotd ask "Show today's production" --chart-out trend.png
  chatbotd ask "downtime line 2"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&chartOut, "chart-out", "", "write the chart PNG, if any, to this file")
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	resp := a.dispatcher.Dispatch(cmd.Context(), strings.Join(args, " "))

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, resp.Text)
	for _, alert := range resp.Alerts {
		fmt.Fprintln(out, alert)
	}

	if resp.Chart == nil || chartOut == "" {
		return nil
	}
	png, err := chart.Decode(*resp.Chart)
	if err != nil {
		return err
	}
	if err := os.WriteFile(chartOut, png, 0o644); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	fmt.Fprintf(out, "Chart written to %s\n", chartOut)
	return nil
}
