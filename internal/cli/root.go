package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"mesaYaReservas/internal/bootstrap"
	"mesaYaReservas/internal/config"
)

var (
	Version   = "dev"
	CommitSHA = "none"
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "reservectl",
		Short:         "Operate the reservation store: migrations, tables, settings and availability checks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newSettingsCmd())
	root.AddCommand(newTablesCmd())

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "reservectl %s (commit=%s)\n", Version, CommitSHA)
		},
	}
}

// openStore loads .env and the process environment and opens the configured
// store.
func openStore(ctx context.Context) (bootstrap.Store, config.Config, error) {
	if err := godotenv.Overload(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, config.Config{}, err
	}
	store, err := bootstrap.OpenStore(ctx, cfg.Store)
	if err != nil {
		return nil, config.Config{}, err
	}
	return store, cfg, nil
}
