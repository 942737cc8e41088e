package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"factory-chatbot-backend/config"
	"factory-chatbot-backend/internal/logging"
)

const defaultConfigPath = "./config/config.yaml"

var (
	configPath string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "chatbotd",
	Short: "Factory operations chatbot",
	Long: `chatbotd answers operator questions about production, maintenance,
downtime and machine status from the factory database.

The configuration file is taken from --config, then CONFIG_PATH, then
./config/config.yaml. Without any of them a local SQLite setup is used.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}

		var err error
		cfg, err = loadConfig(configPath)
		if err != nil {
			return err
		}

		logger, err = logging.New(cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// loadConfig resolves the configuration path. Only the implicit default
// path may be missing, in which case the SQLite defaults apply.
func loadConfig(flagPath string) (*config.Config, error) {
	path := flagPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		c, err := config.Load(defaultConfigPath)
		if errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration from %s: %w", defaultConfigPath, err)
		}
		return c, nil
	}

	c, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from %s: %w", path, err)
	}
	return c, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the YAML configuration file")
	rootCmd.AddCommand(serveCmd, seedCmd, askCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
