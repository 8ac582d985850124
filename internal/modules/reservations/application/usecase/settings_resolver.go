package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"mesaYaReservas/internal/modules/reservations/application/port"
	"mesaYaReservas/internal/modules/reservations/domain"
)

// SettingsResolver reads the reservation settings in a single batch and types them.
type SettingsResolver struct {
	store port.SettingsStore
}

func NewSettingsResolver(store port.SettingsStore) *SettingsResolver {
	return &SettingsResolver{store: store}
}

// Resolve returns the typed settings. Absent or malformed values fall back to
// their defaults; only a failing store read is reported, wrapped in ErrStoreRead.
func (r *SettingsResolver) Resolve(ctx context.Context) (domain.Settings, error) {
	values, err := r.store.GetValues(ctx, domain.SettingKeys())
	if err != nil {
		return domain.Settings{}, fmt.Errorf("%w: settings: %v", domain.ErrStoreRead, err)
	}
	settings, invalid := domain.ParseSettings(values)
	if len(invalid) > 0 {
		slog.Warn("reservation settings malformed, using defaults", slog.Any("keys", invalid))
	}
	return settings, nil
}
