package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"factory-chatbot-backend/internal/chatbot"
	"factory-chatbot-backend/internal/db"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the schema and load the sample data set",
	Long: `Creates the tables if needed, clears machines, production, maintenance
and downtime, and loads ten days of sample data ending today.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	gormDB, err := db.Init(&cfg.Database, logger.Named("db"))
	if err != nil {
		return err
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		defer sqlDB.Close()
	}

	summary, err := db.Seed(cmd.Context(), gormDB, chatbot.SystemClock(cfg.Chatbot.Location).Now())
	if err != nil {
		return fmt.Errorf("failed to seed: %w", err)
	}
	logSeed(logger, summary)

	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d machines, %d production rows, %d maintenance entries, %d downtime incidents.\n",
		summary.Machines, summary.Production, summary.Maintenance, summary.Downtime)
	return nil
}
