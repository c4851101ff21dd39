package performance_test

import (
	"bufio"
	"context"
	"errors"
	"math"
	"net"
	"net/http"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/internbooth/placement-api/internal/dto"
	"github.com/internbooth/placement-api/internal/handler"
	"github.com/internbooth/placement-api/internal/middleware"
	"github.com/internbooth/placement-api/internal/service"
)

type stubFeedService struct{}

func (s stubFeedService) NotifyChanged(context.Context, ...string) {}

func (s stubFeedService) Subscribe(topic string) (<-chan dto.FeedEvent, func()) {
	ch := make(chan dto.FeedEvent, 1)
	ch <- dto.FeedEvent{Topic: topic, EmittedAt: time.Now().UTC()}
	cleanup := func() { close(ch) }
	return ch, cleanup
}

func (s stubFeedService) Start(context.Context) {}

func TestFeedSSEP95Under300ms(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.CorrelationID())

	feedHandler := handler.NewFeedHandler(stubFeedService{}, zerolog.Nop(), 30*time.Second)
	feedHandler.Register(app.Group("/api/v1/admin/feeds"))

	baseURL, shutdown := startFiberServer(t, app)
	defer shutdown()

	client := &http.Client{Timeout: 5 * time.Second}
	clients := 200
	durations := make([]time.Duration, 0, clients)

	for i := 0; i < clients; i++ {
		req, err := http.NewRequest(http.MethodGet, baseURL+"/api/v1/admin/feeds/stream?topic="+service.TopicApplications, nil)
		if err != nil {
			t.Fatalf("build request failed: %v", err)
		}

		start := time.Now()
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("sse request failed: %v", err)
		}

		reader := bufio.NewReader(resp.Body)
		deadline := time.Now().Add(2 * time.Second)

		for {
			if time.Now().After(deadline) {
				t.Fatalf("sse response timed out for client %d", i)
			}
			line, err := reader.ReadString('\n')
			if err != nil {
				t.Fatalf("failed to read sse line: %v", err)
			}
			if strings.HasPrefix(line, "data:") {
				durations = append(durations, time.Since(start))
				break
			}
		}

		resp.Body.Close()
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	p95 := percentile(durations, 0.95)

	if p95 > 300*time.Millisecond {
		t.Fatalf("expected SSE P95 <= 300ms, got %s", p95)
	}
}

func TestFeedWebsocketP95Under250ms(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.CorrelationID())

	feedHandler := handler.NewFeedHandler(stubFeedService{}, zerolog.Nop(), 30*time.Second)
	feedHandler.Register(app.Group("/api/v1/admin/feeds"))

	baseURL, shutdown := startFiberServer(t, app)
	defer shutdown()

	url := "ws" + strings.TrimPrefix(baseURL, "http") + "/api/v1/admin/feeds/ws?topic=" + service.TopicTestAssignments
	clients := 500
	durations := make([]time.Duration, 0, clients)

	dialer := websocket.Dialer{HandshakeTimeout: 3 * time.Second}

	for i := 0; i < clients; i++ {
		start := time.Now()
		conn, resp, err := dialer.Dial(url, nil)
		if err != nil {
			t.Fatalf("websocket dial failed: %v", err)
		}
		if resp != nil {
			_ = resp.Body.Close()
		}

		var event dto.FeedEvent
		if err := conn.ReadJSON(&event); err != nil {
			t.Fatalf("failed to read feed event: %v", err)
		}
		if event.Topic != service.TopicTestAssignments {
			t.Fatalf("unexpected topic %q", event.Topic)
		}
		_ = conn.Close()

		durations = append(durations, time.Since(start))
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	p95 := percentile(durations, 0.95)

	if p95 > 250*time.Millisecond {
		t.Fatalf("expected websocket P95 <= 250ms, got %s", p95)
	}
}

func percentile(values []time.Duration, pct float64) time.Duration {
	if len(values) == 0 {
		return 0
	}
	index := int(math.Ceil(pct*float64(len(values)))) - 1
	if index < 0 {
		index = 0
	}
	if index >= len(values) {
		index = len(values) - 1
	}
	return values[index]
}

func startFiberServer(t *testing.T, app *fiber.App) (string, func()) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to create listener: %v", err)
	}

	done := make(chan struct{})
	go func() {
		if err := app.Listener(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.Logf("fiber listener stopped: %v", err)
		}
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)

	shutdown := func() {
		_ = app.Shutdown()
		_ = listener.Close()
		select {
		case <-done:
		case <-time.After(100 * time.Millisecond):
		}
	}

	return "http://" + listener.Addr().String(), shutdown
}
