package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"mesaYaReservas/internal/config"
	"mesaYaReservas/internal/modules/reservations/application/port"
	"mesaYaReservas/internal/modules/reservations/domain"
	"mesaYaReservas/internal/modules/reservations/infrastructure"
	"mesaYaReservas/internal/platform/cache"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read and write the reservation settings",
	}
	cmd.AddCommand(newSettingsGetCmd())
	cmd.AddCommand(newSettingsSetCmd())
	return cmd
}

func newSettingsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [key...]",
		Short: "Print raw setting values and the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			store, _, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			keys := args
			if len(keys) == 0 {
				keys = domain.SettingKeys()
			}
			values, err := store.GetValues(ctx, keys)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, key := range keys {
				value, ok := values[key]
				if !ok {
					value = "(unset)"
				}
				fmt.Fprintf(out, "%s=%s\n", key, value)
			}

			settings, invalid := domain.ParseSettings(values)
			fmt.Fprintf(out, "mode=%s capacity=%d autoConfirm=%t\n", settings.Mode, settings.MaxCapacity, settings.AutoConfirm)
			if len(invalid) > 0 {
				fmt.Fprintf(out, "invalid (defaults used): %s\n", strings.Join(invalid, ", "))
			}
			return nil
		},
	}
}

func newSettingsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store one reservation setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := strings.TrimSpace(args[0]), strings.TrimSpace(args[1])
			if !slices.Contains(domain.SettingKeys(), key) {
				return fmt.Errorf("unknown setting %q (known: %s)", key, strings.Join(domain.SettingKeys(), ", "))
			}
			if _, invalid := domain.ParseSettings(map[string]string{key: value}); len(invalid) > 0 {
				return fmt.Errorf("invalid value %q for %s", value, key)
			}

			ctx := context.Background()
			store, cfg, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.SetValue(ctx, key, value); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "set %s=%s\n", key, value)
			return invalidateSettingsCache(ctx, cmd, store, cfg.Redis)
		},
	}
}

// invalidateSettingsCache clears the shared Redis entries so running servers
// read the new value on their next request.
func invalidateSettingsCache(ctx context.Context, cmd *cobra.Command, store port.SettingsStore, cfg config.RedisConfig) error {
	if cfg.Addr == "" {
		return nil
	}
	rdb, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("value stored but settings cache not cleared: %w", err)
	}
	defer rdb.Close()

	infrastructure.NewCachedSettingsStore(store, rdb, cfg.SettingsTTL).Invalidate(ctx)
	fmt.Fprintln(cmd.OutOrStdout(), "settings cache cleared")
	return nil
}
