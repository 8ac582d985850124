package transport

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"mesaYaReservas/internal/modules/reservations/application/usecase"
	"mesaYaReservas/internal/modules/reservations/domain"
	"mesaYaReservas/internal/shared/httputil"
	"mesaYaReservas/internal/shared/i18n"
)

const requestTimeout = 15 * time.Second

var statusMapper = httputil.NewErrorMapper().
	WithMapping(domain.ErrValidation, http.StatusUnprocessableEntity, "validation").
	WithMapping(domain.ErrNoCapacity, http.StatusConflict, "no capacity").
	WithMapping(domain.ErrFullyBooked, http.StatusConflict, "fully booked").
	WithMapping(domain.ErrStoreRead, http.StatusServiceUnavailable, "store unavailable").
	WithMapping(domain.ErrStoreWrite, http.StatusServiceUnavailable, "store unavailable")

// Handler exposes the booking engine over HTTP.
type Handler struct {
	submit   *usecase.SubmitReservationUseCase
	listing  *usecase.ListReservationsUseCase
	settings *usecase.SettingsResolver
}

func NewHandler(submit *usecase.SubmitReservationUseCase, listing *usecase.ListReservationsUseCase, settings *usecase.SettingsResolver) *Handler {
	return &Handler{submit: submit, listing: listing, settings: settings}
}

// Register mounts the public routes on g and the admin listings on admin.
func (h *Handler) Register(g *echo.Group, admin *echo.Group) {
	g.POST("/reservations", h.Submit)
	g.GET("/availability", h.Availability)
	g.GET("/settings/service-hours", h.ServiceHours)

	admin.GET("/reservations", h.ListBetween)
	admin.GET("/reservations/recent", h.ListRecent)
}

// Submit accepts the reservation form as JSON or form data. The body always
// carries the SubmissionResult; the status code reflects its reason.
func (h *Handler) Submit(c echo.Context) error {
	var cmd domain.SubmitReservationCommand
	if err := c.Bind(&cmd); err != nil {
		slog.Debug("reservation bind failed", slog.Any("error", err))
		tag := i18n.ResolveTag(c.Request())
		return c.JSON(http.StatusUnprocessableEntity, domain.SubmissionResult{
			Message: i18n.Text(tag, i18n.MsgFieldsRequired),
			Reason:  domain.ReasonValidation,
		})
	}
	if cmd.Lang == "" {
		cmd.Lang = i18n.ResolveTag(c.Request()).String()
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	result, err := h.submit.Submit(ctx, cmd)
	return c.JSON(statusFor(err), result)
}

// Availability answers a dry run for date, time and partySize query params.
func (h *Handler) Availability(c echo.Context) error {
	var slot domain.SlotRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &slot); err != nil {
		tag := i18n.ResolveTag(c.Request())
		return c.JSON(http.StatusUnprocessableEntity, domain.AvailabilityResult{
			Message: i18n.Text(tag, i18n.MsgFieldsRequired),
			Reason:  domain.ReasonValidation,
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	result, err := h.submit.CheckAvailability(ctx, slot, i18n.ResolveTag(c.Request()).String())
	return c.JSON(statusFor(err), result)
}

// ServiceHours returns the lunch and dinner windows for the time picker.
func (h *Handler) ServiceHours(c echo.Context) error {
	settings, err := h.settings.Resolve(c.Request().Context())
	if err != nil {
		slog.Warn("service hours fall back to defaults", slog.Any("error", err))
		settings = domain.DefaultSettings()
	}
	return c.JSON(http.StatusOK, settings.Hours)
}

func (h *Handler) ListBetween(c echo.Context) error {
	from := c.QueryParam("from")
	if from == "" {
		from = time.Now().Format(domain.DateLayout)
	}
	items, err := h.listing.Between(c.Request().Context(), from, c.QueryParam("to"))
	if err != nil {
		return listingError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": nonNil(items), "count": len(items)})
}

func (h *Handler) ListRecent(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a number")
		}
		limit = n
	}
	items, err := h.listing.Recent(c.Request().Context(), limit)
	if err != nil {
		return listingError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": nonNil(items), "count": len(items)})
}

func statusFor(err error) int {
	return statusMapper.Map(err).Status
}

func listingError(err error) error {
	info := statusMapper.Map(err)
	if info.Status >= http.StatusInternalServerError {
		slog.Error("reservation listing failed", slog.Any("error", err))
	}
	return echo.NewHTTPError(info.Status, info.Message)
}

func nonNil(items []domain.Reservation) []domain.Reservation {
	if items == nil {
		return []domain.Reservation{}
	}
	return items
}
