package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Veraticus/sw/internal/common"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "sw [flags] [<date> <amount> <note>]",
		Short: "👛 Simple wallet management for the terminal",
		Long: `sw keeps a ledger of dated money movements in a plain text file and shows
the most recent ones with partial and global totals.

With three arguments a movement is added first; the date is "now",
DD/MM/YYYY or "DD/MM/YYYY HH:MM". Put "--" before a negative amount.`,
		Example: `  # Show the last 25 movements
  sw

  # Record an expense
  sw -- now -12.50 "coffee beans"

  # Movements about rent or bills since March, all of them
  sw -f 01/03/2024 -e rent -e bill -l 0

  # Delete movement 42
  sw -d 42`,
		Version:           version,
		Args:              addArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return initConfig(cmd, cfgFile) },
		RunE:              runLedger,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/sw/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().StringP("file", "i", "", "ledger file (default: ~/.sw)")

	// Bind flags to viper
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("store.path", rootCmd.PersistentFlags().Lookup("file"))

	addLedgerFlags(rootCmd)

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return common.InvalidArgument("%v", err)
	})

	// Add commands
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(importCmd())

	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cmd, err := newRootCmd().ExecuteContextC(ctx)
	stop()

	os.Exit(reportError(os.Stderr, cmd, err))
}

// reportError prints err for the user and returns the process exit code.
// Invalid arguments also get the usage of the command that rejected them.
func reportError(w io.Writer, cmd *cobra.Command, err error) int {
	if err == nil {
		return 0
	}

	fmt.Fprintf(w, "%s: %v\n", cmd.Root().Name(), err) //nolint:forbidigo // User-facing output
	switch {
	case errors.Is(err, common.ErrInvalidArgument):
		fmt.Fprint(w, cmd.UsageString()) //nolint:forbidigo // User-facing output
	case errors.Is(err, common.ErrStoreUnreadable):
		fmt.Fprintln(w, `create an empty ledger with "sw init"`) //nolint:forbidigo // User-facing output
	case common.IsFatalStoreError(err):
		fmt.Fprintln(w, "the ledger was left unchanged") //nolint:forbidigo // User-facing output
	}
	return 1
}

func initConfig(cmd *cobra.Command, cfgFile string) error {
	// A .env next to the ledger is optional
	_ = godotenv.Load()

	// Set up config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		// Search for config in standard locations
		viper.AddConfigPath(fmt.Sprintf("%s/.config/sw", home))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Environment variables: SW_STORE_PATH, SW_DISPLAY_LIMIT, ...
	viper.SetEnvPrefix("SW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	// Set up logging
	if err := setupLogging(cmd.ErrOrStderr()); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

func setupLogging(w io.Writer) error {
	level, err := common.ParseLevel(viper.GetString("logging.level"))
	if err != nil {
		return err
	}

	if err := common.SetupLoggerTo(w, level, viper.GetString("logging.format")); err != nil {
		return err
	}

	slog.Debug("Configuration loaded", "config_file", viper.ConfigFileUsed())
	return nil
}
