package main

import (
	"fmt"

	"github.com/Veraticus/sw/internal/cli"
	"github.com/Veraticus/sw/internal/common"
	"github.com/Veraticus/sw/internal/config"
	"github.com/Veraticus/sw/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an empty ledger",
		Long: `Create an empty ledger at the configured path (~/.sw unless --file or
store.path say otherwise). An existing ledger is left untouched.`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}

	cmd.Flags().String("backend", config.DefaultStoreBackend, "store format (text, sqlite)")
	_ = viper.BindPFlag("store.backend", cmd.Flags().Lookup("backend"))

	return cmd
}

func runInit(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadStoreConfig()
	if err != nil {
		return err
	}

	created, err := storage.Create(cmd.Context(), cfg.Backend, cfg.Path)
	if err != nil {
		return common.NewUserError("cannot create the ledger at "+cfg.Path, err)
	}

	out := cmd.OutOrStdout()
	if !created {
		_, err = fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("Ledger already exists at %s", cfg.Path)))
		return err
	}

	_, err = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Created %s ledger at %s", cfg.Backend, cfg.Path)))
	return err
}
