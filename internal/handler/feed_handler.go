package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/internbooth/placement-api/internal/dto"
	"github.com/internbooth/placement-api/internal/middleware"
	"github.com/internbooth/placement-api/internal/service"
	"github.com/internbooth/placement-api/internal/utils"
)

// FeedHandler streams change hints to console clients over SSE and
// websockets. Events carry the topic that changed, never row data; clients
// refetch through the regular read endpoints.
type FeedHandler struct {
	feeds     service.FeedService
	logger    zerolog.Logger
	keepAlive time.Duration
}

// NewFeedHandler constructs the handler.
func NewFeedHandler(feeds service.FeedService, logger zerolog.Logger, keepAlive time.Duration) *FeedHandler {
	return &FeedHandler{
		feeds:     feeds,
		logger:    logger.With().Str("component", "feed_handler").Logger(),
		keepAlive: keepAlive,
	}
}

// Register binds the feed routes.
func (h *FeedHandler) Register(router fiber.Router) {
	router.Get("/stream", h.stream)

	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			ctx := c.UserContext()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = middleware.ContextWithCorrelation(ctx, middleware.GetCorrelationID(c))
			c.Locals("request_ctx", ctx)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws", websocket.New(h.handleConnection))
}

var feedTopics = map[string]struct{}{
	service.TopicApplications:    {},
	service.TopicTestAssignments: {},
	service.TopicQuizSubmissions: {},
	service.TopicStudents:        {},
	service.TopicFaculty:         {},
	service.TopicInternships:     {},
	service.TopicTests:           {},
}

func validFeedTopic(topic string) bool {
	_, ok := feedTopics[topic]
	return ok
}

func (h *FeedHandler) stream(c *fiber.Ctx) error {
	topic := strings.TrimSpace(c.Query("topic"))
	if !validFeedTopic(topic) {
		return utils.SendError(c, fiber.StatusBadRequest, "unknown feed topic")
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = middleware.ContextWithCorrelation(ctx, middleware.GetCorrelationID(c))
	ctx, cancel := context.WithCancel(ctx)

	events, cleanup := h.feeds.Subscribe(topic)

	keepAlive := h.keepAlive
	if keepAlive <= 0 {
		keepAlive = 30 * time.Second
	}

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer func() {
			cleanup()
			cancel()
		}()

		ticker := time.NewTicker(keepAlive / 2)
		defer ticker.Stop()

		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				if err := writeFeedEvent(w, event); err != nil {
					h.logger.Debug().Err(err).Str("topic", topic).Msg("failed to write feed event")
					return
				}
			case <-ticker.C:
				if err := writeFeedKeepAlive(w); err != nil {
					h.logger.Debug().Err(err).Str("topic", topic).Msg("failed to write feed keepalive")
					return
				}
			case <-ctx.Done():
				return
			}
		}
	})

	return nil
}

func (h *FeedHandler) handleConnection(conn *websocket.Conn) {
	topic := strings.TrimSpace(conn.Query("topic"))
	if !validFeedTopic(topic) {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(fiber.StatusBadRequest, "unknown feed topic"))
		_ = conn.Close()
		return
	}

	baseCtx, _ := conn.Locals("request_ctx").(context.Context)
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	events, cleanup := h.feeds.Subscribe(topic)
	defer cleanup()

	h.logger.Info().Str("topic", topic).Msg("feed websocket connected")
	defer h.logger.Info().Str("topic", topic).Msg("feed websocket disconnected")

	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	keepAlive := h.keepAlive
	if keepAlive <= 0 {
		keepAlive = 30 * time.Second
	}
	ticker := time.NewTicker(keepAlive / 2)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func writeFeedEvent(w *bufio.Writer, event dto.FeedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "event: changed\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	return w.Flush()
}

func writeFeedKeepAlive(w *bufio.Writer) error {
	if _, err := fmt.Fprintf(w, ": keep-alive %s\n\n", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	return w.Flush()
}
