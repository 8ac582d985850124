package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/text/language"

	"mesaYaReservas/internal/modules/reservations/application/port"
	"mesaYaReservas/internal/modules/reservations/domain"
	tables "mesaYaReservas/internal/modules/tables/domain"
	"mesaYaReservas/internal/shared/i18n"
)

// SubmitReservationUseCase decides whether a booking request can be accepted
// and persists it when it can.
//
// Without a DateLocker the read of existing reservations and the insert are
// not atomic: two concurrent requests for the last free slot may both be
// accepted. Configure a DateLocker to serialize submissions per date.
type SubmitReservationUseCase struct {
	settings     *SettingsResolver
	tables       port.TableStore
	reservations port.ReservationStore
	publisher    port.EventPublisher
	locker       port.DateLocker
	allocator    *TableAllocator
	accumulator  *CapacityAccumulator
	loc          *time.Location
	now          func() time.Time
}

// Option customizes a SubmitReservationUseCase.
type Option func(*SubmitReservationUseCase)

// WithPublisher announces every persisted reservation through p.
func WithPublisher(p port.EventPublisher) Option {
	return func(uc *SubmitReservationUseCase) { uc.publisher = p }
}

// WithDateLocker serializes decide-and-insert per requested date.
func WithDateLocker(l port.DateLocker) Option {
	return func(uc *SubmitReservationUseCase) { uc.locker = l }
}

// WithClock overrides the clock used for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(uc *SubmitReservationUseCase) { uc.now = now }
}

func NewSubmitReservationUseCase(
	settings *SettingsResolver,
	tableStore port.TableStore,
	reservationStore port.ReservationStore,
	loc *time.Location,
	opts ...Option,
) *SubmitReservationUseCase {
	if loc == nil {
		loc = time.Local
	}
	uc := &SubmitReservationUseCase{
		settings:     settings,
		tables:       tableStore,
		reservations: reservationStore,
		allocator:    NewTableAllocator(loc),
		accumulator:  NewCapacityAccumulator(loc),
		loc:          loc,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Submit runs the whole booking flow. The result is always filled in; the
// error is non-nil for every unsuccessful result and wraps one of the domain
// sentinels so transports can pick a status code.
func (uc *SubmitReservationUseCase) Submit(ctx context.Context, cmd domain.SubmitReservationCommand) (domain.SubmissionResult, error) {
	tag, _ := i18n.ParseTag(cmd.Lang)

	valid, err := cmd.Validate()
	if err != nil {
		return uc.failure(tag, domain.ModeTables, err), err
	}

	settings, err := uc.settings.Resolve(ctx)
	if err != nil {
		slog.Error("reservation settings unavailable", slog.Any("error", err))
		return uc.failure(tag, domain.ModeTables, err), err
	}

	created, err := uc.reserve(ctx, settings, valid)
	if err != nil {
		uc.logRejection(valid.SlotRequest, settings.Mode, err)
		return uc.failure(tag, settings.Mode, err), err
	}

	slog.Info("reservation accepted",
		slog.String("reservationId", created.ID),
		slog.String("date", created.Date),
		slog.String("time", created.Time),
		slog.Int("partySize", created.PartySize),
		slog.String("mode", string(settings.Mode)),
		slog.String("tableId", created.TableID),
		slog.String("status", string(created.Status)),
	)
	uc.publish(ctx, created)

	message := i18n.MsgRequestReceived
	if created.Status == domain.ReservationStatusConfirmed {
		message = i18n.MsgReservationConfirmed
	}
	return domain.SubmissionResult{
		Success:       true,
		Message:       i18n.Text(tag, message),
		TableID:       created.TableID,
		Status:        created.Status,
		ReservationID: created.ID,
	}, nil
}

// CheckAvailability answers whether a slot could be booked right now without
// writing anything. Repeated calls against an unchanged store agree.
func (uc *SubmitReservationUseCase) CheckAvailability(ctx context.Context, slot domain.SlotRequest, lang string) (domain.AvailabilityResult, error) {
	tag, _ := i18n.ParseTag(lang)

	valid, err := slot.Validate()
	if err != nil {
		return uc.unavailable(tag, domain.ModeTables, err), err
	}
	settings, err := uc.settings.Resolve(ctx)
	if err != nil {
		return uc.unavailable(tag, domain.ModeTables, err), err
	}
	decision, err := uc.decide(ctx, settings, valid)
	if err != nil {
		return uc.unavailable(tag, settings.Mode, err), err
	}
	if !decision.Accepted {
		return uc.unavailable(tag, settings.Mode, decision.Err), decision.Err
	}
	return domain.AvailabilityResult{
		Available: true,
		Message:   i18n.Text(tag, i18n.MsgAvailable),
		Mode:      settings.Mode,
		TableID:   decision.TableID,
		Status:    domain.StatusForAutoConfirm(settings.AutoConfirm),
	}, nil
}

func (uc *SubmitReservationUseCase) reserve(ctx context.Context, settings domain.Settings, cmd domain.SubmitReservationCommand) (domain.Reservation, error) {
	unlock, err := uc.lockDate(ctx, cmd.Date)
	if err != nil {
		return domain.Reservation{}, err
	}
	defer unlock()

	decision, err := uc.decide(ctx, settings, cmd.SlotRequest)
	if err != nil {
		return domain.Reservation{}, err
	}
	if !decision.Accepted {
		return domain.Reservation{}, decision.Err
	}

	status := domain.StatusForAutoConfirm(settings.AutoConfirm)
	created, err := uc.reservations.CreateReservation(ctx, cmd.NewReservation(status, decision.TableID))
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("%w: %v", domain.ErrStoreWrite, err)
	}
	return created, nil
}

func (uc *SubmitReservationUseCase) decide(ctx context.Context, settings domain.Settings, slot domain.SlotRequest) (domain.Decision, error) {
	request, err := domain.NewTimeRange(slot.Date, slot.Time, uc.loc)
	if err != nil {
		return domain.Decision{}, err
	}

	if settings.Mode == domain.ModeCapacity {
		existing, err := uc.listReservations(ctx, slot.Date)
		if err != nil {
			return domain.Decision{}, err
		}
		return uc.accumulator.Check(request, slot.PartySize, settings.MaxCapacity, existing), nil
	}

	candidates, err := uc.tables.ListActiveTables(ctx, slot.PartySize)
	if err != nil {
		return domain.Decision{}, fmt.Errorf("%w: tables: %v", domain.ErrStoreRead, err)
	}
	eligible := tables.EligibleTables(candidates, slot.PartySize)
	if len(eligible) == 0 {
		return domain.Reject(domain.ErrNoCapacity), nil
	}
	existing, err := uc.listReservations(ctx, slot.Date)
	if err != nil {
		return domain.Decision{}, err
	}
	return uc.allocator.Allocate(request, slot.PartySize, eligible, existing), nil
}

func (uc *SubmitReservationUseCase) listReservations(ctx context.Context, date string) ([]domain.Reservation, error) {
	existing, err := uc.reservations.ListReservationsForDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("%w: reservations: %v", domain.ErrStoreRead, err)
	}
	return existing, nil
}

func (uc *SubmitReservationUseCase) lockDate(ctx context.Context, date string) (func(), error) {
	if uc.locker == nil {
		return func() {}, nil
	}
	unlock, err := uc.locker.Lock(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("%w: lock %s: %v", domain.ErrStoreRead, date, err)
	}
	return unlock, nil
}

func (uc *SubmitReservationUseCase) publish(ctx context.Context, r domain.Reservation) {
	if uc.publisher == nil {
		return
	}
	event := domain.NewReservationCreatedEvent(r, uc.now())
	if err := uc.publisher.Publish(ctx, event); err != nil {
		slog.Warn("reservation event not published", slog.String("reservationId", r.ID), slog.Any("error", err))
	}
}

func (uc *SubmitReservationUseCase) logRejection(slot domain.SlotRequest, mode domain.AllocationMode, err error) {
	attrs := []any{
		slog.String("date", slot.Date),
		slog.String("time", slot.Time),
		slog.Int("partySize", slot.PartySize),
		slog.String("mode", string(mode)),
		slog.String("reason", string(domain.ReasonOf(err))),
		slog.Any("error", err),
	}
	if errors.Is(err, domain.ErrStoreRead) || errors.Is(err, domain.ErrStoreWrite) {
		slog.Error("reservation failed", attrs...)
		return
	}
	slog.Info("reservation rejected", attrs...)
}

func (uc *SubmitReservationUseCase) failure(tag language.Tag, mode domain.AllocationMode, err error) domain.SubmissionResult {
	return domain.SubmissionResult{
		Success: false,
		Message: i18n.Text(tag, messageFor(mode, err)),
		Reason:  domain.ReasonOf(err),
	}
}

func (uc *SubmitReservationUseCase) unavailable(tag language.Tag, mode domain.AllocationMode, err error) domain.AvailabilityResult {
	return domain.AvailabilityResult{
		Available: false,
		Message:   i18n.Text(tag, messageFor(mode, err)),
		Mode:      mode,
		Reason:    domain.ReasonOf(err),
	}
}

// messageFor picks the guest-facing text for a failure. Wrong size, no slot and
// system errors always read differently.
func messageFor(mode domain.AllocationMode, err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return i18n.MsgFieldsRequired
	case errors.Is(err, domain.ErrNoCapacity):
		if mode == domain.ModeCapacity {
			return i18n.MsgPartyExceedsCapacity
		}
		return i18n.MsgNoTableForParty
	case errors.Is(err, domain.ErrFullyBooked):
		if mode == domain.ModeCapacity {
			return i18n.MsgNoCapacityAtTime
		}
		return i18n.MsgNoTableAtTime
	case errors.Is(err, domain.ErrStoreWrite):
		return i18n.MsgNotSaved
	default:
		return i18n.MsgCouldNotVerify
	}
}
