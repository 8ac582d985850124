package cli

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"mesaYaReservas/internal/modules/reservations/application/usecase"
	"mesaYaReservas/internal/modules/reservations/domain"
)

func newCheckCmd() *cobra.Command {
	var (
		slot domain.SlotRequest
		lang string
	)

	c := &cobra.Command{
		Use:   "check",
		Short: "Check whether a slot could be booked right now, without writing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			store, cfg, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			loc, err := cfg.Reservation.Location()
			if err != nil {
				return err
			}
			uc := usecase.NewSubmitReservationUseCase(usecase.NewSettingsResolver(store), store, store, loc)
			result, err := uc.CheckAvailability(ctx, slot, lang)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if encErr := enc.Encode(result); encErr != nil {
				return encErr
			}
			// an unavailable slot is an answer, not a failure
			if errors.Is(err, domain.ErrNoCapacity) || errors.Is(err, domain.ErrFullyBooked) {
				return nil
			}
			return err
		},
	}

	c.Flags().StringVar(&slot.Date, "date", "", "service date (YYYY-MM-DD)")
	c.Flags().StringVar(&slot.Time, "time", "", "arrival time (HH:MM)")
	c.Flags().IntVar(&slot.PartySize, "party", 2, "party size")
	c.Flags().StringVar(&lang, "lang", "", "message language (es, en)")
	_ = c.MarkFlagRequired("date")
	_ = c.MarkFlagRequired("time")
	return c
}
