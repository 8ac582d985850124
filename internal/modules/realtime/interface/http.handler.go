package transport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"mesaYaReservas/internal/modules/realtime/domain"
	"mesaYaReservas/internal/modules/realtime/infrastructure"
	"mesaYaReservas/internal/shared/auth"
	"mesaYaReservas/internal/shared/httputil"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SnapshotFunc loads the data sent to a feed client right after it connects.
// date is the client's date filter, empty when it follows every date.
type SnapshotFunc func(ctx context.Context, date string) (any, error)

// FeedConfig describes one live feed endpoint.
type FeedConfig struct {
	Entity         string
	AllowedActions []string
	ExtraTopics    []string
	Roles          []string
	Snapshot       SnapshotFunc
	SendBuffer     int
}

// NewFeedHandler upgrades admin requests to a websocket subscribed to the
// entity topics, or to every topic with scope=all. The JWT comes from the
// Authorization header or the token query parameter; an optional date query
// parameter sets the date filter.
func NewFeedHandler(hub *infrastructure.Hub, validator auth.TokenValidator, cfg FeedConfig) echo.HandlerFunc {
	if len(cfg.AllowedActions) == 0 {
		cfg.AllowedActions = []string{domain.ActionCreated}
	}
	topics := append(domain.FeedTopics(cfg.Entity, cfg.AllowedActions), cfg.ExtraTopics...)
	denied := httputil.NewErrorMapper().
		WithMapping(auth.ErrMissingToken, http.StatusUnauthorized, "missing token").
		WithMapping(auth.ErrInvalidToken, http.StatusUnauthorized, "invalid token").
		WithMapping(auth.ErrForbidden, http.StatusForbidden, "forbidden").
		WithDefault(http.StatusUnauthorized, "unauthorized")

	return func(c echo.Context) error {
		token := auth.ExtractToken(c.Request(), "token")
		if token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
		}
		claims, err := auth.Authorize(validator, token, cfg.Roles)
		if err != nil {
			info := denied.Map(err)
			slog.Warn("ws feed rejected", slog.String("entity", cfg.Entity), slog.Int("status", info.Status), slog.Any("error", err))
			return echo.NewHTTPError(info.Status, info.Message)
		}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			slog.Error("ws feed upgrade failed", slog.String("entity", cfg.Entity), slog.Any("error", err))
			return err
		}

		userID := claims.Subject
		client := infrastructure.NewClient(hub, conn, userID, claims.SessionID, cfg.SendBuffer)
		client.SetDateFilter(c.QueryParam("date"))
		if c.QueryParam("scope") == "all" {
			hub.AttachClientToAll(client)
		} else {
			hub.AttachClient(client, topics)
		}

		go client.WritePump()
		go client.ReadPump()

		client.SendDomainMessage(&domain.Message{
			Topic:  domain.TopicSystemConnected,
			Entity: domain.SystemEntity,
			Action: domain.ActionConnected,
			Metadata: map[string]string{
				"userId":    userID,
				"sessionId": claims.SessionID,
			},
			Data: map[string]any{
				"entity":        cfg.Entity,
				"allowedTopics": topics,
				"roles":         claims.Roles,
				"date":          client.DateFilter(),
			},
			Timestamp: time.Now().UTC(),
		})
		sendSnapshot(c.Request().Context(), client, cfg)

		slog.Info("ws feed connected", slog.String("entity", cfg.Entity), slog.String("userId", userID), slog.String("sessionId", claims.SessionID), slog.String("ip", c.RealIP()))
		return nil
	}
}

func sendSnapshot(ctx context.Context, client *infrastructure.Client, cfg FeedConfig) {
	if cfg.Snapshot == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	date := client.DateFilter()
	data, err := cfg.Snapshot(ctx, date)
	if err != nil {
		slog.Warn("ws feed snapshot failed", slog.String("entity", cfg.Entity), slog.Any("error", err))
		client.SendDomainMessage(&domain.Message{
			Topic:     domain.CustomTopic(cfg.Entity, domain.ActionError),
			Entity:    cfg.Entity,
			Action:    domain.ActionError,
			Data:      map[string]string{"error": "snapshot unavailable"},
			Timestamp: time.Now().UTC(),
		})
		return
	}
	client.SendDomainMessage(&domain.Message{
		Topic:     domain.SnapshotTopic(cfg.Entity),
		Entity:    cfg.Entity,
		Action:    domain.ActionSnapshot,
		Metadata:  map[string]string{"date": date},
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}
