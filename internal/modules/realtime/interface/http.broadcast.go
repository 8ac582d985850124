package transport

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"mesaYaReservas/internal/modules/realtime/application/usecase"
	"mesaYaReservas/internal/modules/realtime/domain"
	"mesaYaReservas/internal/shared/httputil"
)

// NoticeEntity is the entity of staff notices pushed to the live feed.
const NoticeEntity = "notices"

// NoticeRequest is a free text notice for the admin dashboards, optionally
// scoped to one service date.
type NoticeRequest struct {
	Message string         `json:"message"`
	Date    string         `json:"date,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

type NoticeResponse struct {
	Success bool   `json:"success"`
	Topic   string `json:"topic"`
}

// NewNoticeHTTPHandler broadcasts a staff notice to every connected feed
// client.
func NewNoticeHTTPHandler(broadcastUC *usecase.BroadcastUseCase) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req NoticeRequest
		if err := c.Bind(&req); err != nil {
			slog.Warn("notice http: invalid request body", slog.Any("error", err))
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
		text := strings.TrimSpace(req.Message)
		if text == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "message is required")
		}

		data := map[string]any{"message": text}
		for k, v := range req.Data {
			if k != "message" {
				data[k] = v
			}
		}
		msg := &domain.Message{
			Topic:     domain.CreatedTopic(NoticeEntity),
			Entity:    NoticeEntity,
			Action:    domain.ActionCreated,
			Data:      data,
			Timestamp: time.Now().UTC(),
		}
		if claims, ok := httputil.ClaimsFrom(c); ok {
			data["author"] = claims.Subject
		}
		if date := strings.TrimSpace(req.Date); date != "" {
			msg.Metadata = map[string]string{"date": date}
		}

		broadcastUC.Execute(c.Request().Context(), msg)
		slog.Info("notice broadcast", slog.String("topic", msg.Topic), slog.String("date", req.Date))
		return c.JSON(http.StatusOK, NoticeResponse{Success: true, Topic: msg.Topic})
	}
}
