package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	tables "mesaYaReservas/internal/modules/tables/domain"
)

func newTablesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Manage dining room tables",
	}
	cmd.AddCommand(newTablesAddCmd())
	cmd.AddCommand(newTablesListCmd())
	return cmd
}

func newTablesAddCmd() *cobra.Command {
	var (
		table    tables.Table
		inactive bool
	)

	c := &cobra.Command{
		Use:   "add",
		Short: "Add or update a table",
		RunE: func(cmd *cobra.Command, args []string) error {
			table.ID = strings.TrimSpace(table.ID)
			if table.ID == "" {
				return errors.New("--id is required")
			}
			if table.Capacity < 1 {
				return errors.New("--capacity must be at least 1")
			}
			table.Active = !inactive

			ctx := context.Background()
			store, _, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.UpsertTable(ctx, table); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved table %s (capacity %d, active %t)\n", table.ID, table.Capacity, table.Active)
			return nil
		},
	}

	c.Flags().StringVar(&table.ID, "id", "", "table id")
	c.Flags().StringVar(&table.Name, "name", "", "display name")
	c.Flags().IntVar(&table.Capacity, "capacity", 0, "seats")
	c.Flags().BoolVar(&inactive, "inactive", false, "store the table as inactive")
	_ = c.MarkFlagRequired("id")
	_ = c.MarkFlagRequired("capacity")
	return c
}

func newTablesListCmd() *cobra.Command {
	var minCapacity int

	c := &cobra.Command{
		Use:   "list",
		Short: "List active tables by capacity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			store, _, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			items, err := store.ListActiveTables(ctx, minCapacity)
			if err != nil {
				return err
			}
			for _, t := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\n", t.ID, t.Capacity, t.Name)
			}
			return nil
		},
	}
	c.Flags().IntVar(&minCapacity, "min", 1, "minimum seats")
	return c
}
