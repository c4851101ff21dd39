package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/internbooth/placement-api/internal/dto"
	"github.com/internbooth/placement-api/internal/observability"
)

const feedBufferSize = 16

// FeedService streams collection-changed events to admin console clients.
// Events are fanned out to local subscribers and relayed across nodes over
// redis pubsub and NATS; relayed events from this node are dropped on
// receipt so subscribers see each change once.
type FeedService interface {
	FeedNotifier
	Subscribe(topic string) (<-chan dto.FeedEvent, func())
	Start(ctx context.Context)
}

type feedService struct {
	redis       *redis.Client
	redisStream string
	nats        *nats.Conn
	natsSubject string
	logger      zerolog.Logger
	broker      *feedBroker
	nodeID      string
	now         func() time.Time
}

type feedFanoutEvent struct {
	Source string        `json:"source"`
	Event  dto.FeedEvent `json:"event"`
}

type feedBroker struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan dto.FeedEvent]struct{}
}

// NewFeedService constructs the feed service.
func NewFeedService(redisClient *redis.Client, channelBase string, natsConn *nats.Conn, logger zerolog.Logger) FeedService {
	stream := ""
	subject := ""
	if channelBase != "" {
		stream = channelBase + ":feeds"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".feeds"
	}

	return &feedService{
		redis:       redisClient,
		redisStream: stream,
		nats:        natsConn,
		natsSubject: subject,
		logger:      logger.With().Str("component", "feed_service").Logger(),
		broker: &feedBroker{
			subscribers: make(map[string]map[chan dto.FeedEvent]struct{}),
		},
		nodeID: uuid.NewString(),
		now:    time.Now,
	}
}

func (s *feedService) Start(ctx context.Context) {
	if s.redis != nil && s.redisStream != "" {
		go s.consumeRedis(ctx)
	}
	if s.nats != nil && s.natsSubject != "" {
		go s.consumeNATS(ctx)
	}
}

func (s *feedService) NotifyChanged(ctx context.Context, topics ...string) {
	for _, topic := range topics {
		event := dto.FeedEvent{Topic: topic, EmittedAt: s.now().UTC()}

		s.broker.broadcast(topic, event)
		observability.FeedEventsTotal().WithLabelValues(topic).Inc()

		if err := s.relay(ctx, event); err != nil {
			s.logger.Warn().Err(err).Str("topic", topic).Msg("failed to relay feed event")
		}
	}
}

func (s *feedService) Subscribe(topic string) (<-chan dto.FeedEvent, func()) {
	channel := make(chan dto.FeedEvent, feedBufferSize)

	s.broker.subscribe(topic, channel)
	observability.FeedClientsActive().Inc()

	cleanup := func() {
		s.broker.unsubscribe(topic, channel)
		observability.FeedClientsActive().Dec()
	}

	return channel, cleanup
}

func (s *feedService) relay(ctx context.Context, event dto.FeedEvent) error {
	payload, err := json.Marshal(feedFanoutEvent{Source: s.nodeID, Event: event})
	if err != nil {
		return err
	}

	if s.redis != nil && s.redisStream != "" {
		if err := s.redis.Publish(ctx, s.redisStream, payload).Err(); err != nil {
			return err
		}
	}

	if s.nats != nil && s.natsSubject != "" {
		if err := s.nats.Publish(s.natsSubject, payload); err != nil {
			return err
		}
	}

	return nil
}

func (s *feedService) consumeRedis(ctx context.Context) {
	pubsub := s.redis.Subscribe(ctx, s.redisStream)
	defer func() { _ = pubsub.Close() }()

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			s.logger.Error().Err(err).Msg("feed redis subscription closed")
			return
		}
		s.handleRelayed([]byte(msg.Payload))
	}
}

func (s *feedService) consumeNATS(ctx context.Context) {
	sub, err := s.nats.QueueSubscribe(s.natsSubject, "placement-feeds", func(msg *nats.Msg) {
		s.handleRelayed(msg.Data)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to subscribe to nats feed subject")
		return
	}

	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to drain feed nats subscription")
		}
	}()
}

func (s *feedService) handleRelayed(payload []byte) {
	var event feedFanoutEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		s.logger.Warn().Err(err).Msg("invalid feed event payload")
		return
	}

	if event.Source == s.nodeID || event.Event.Topic == "" {
		return
	}

	observability.FeedEventsTotal().WithLabelValues(event.Event.Topic).Inc()
	s.broker.broadcast(event.Event.Topic, event.Event)
}

func (b *feedBroker) subscribe(topic string, ch chan dto.FeedEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.subscribers[topic]; !exists {
		b.subscribers[topic] = make(map[chan dto.FeedEvent]struct{})
	}
	b.subscribers[topic][ch] = struct{}{}
}

func (b *feedBroker) unsubscribe(topic string, ch chan dto.FeedEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if subscribers, ok := b.subscribers[topic]; ok {
		delete(subscribers, ch)
		close(ch)
		if len(subscribers) == 0 {
			delete(b.subscribers, topic)
		}
	}
}

// broadcast drops events for slow subscribers rather than blocking the
// publisher. Feed events are refetch hints, so losing one under pressure is
// recoverable on the next change.
func (b *feedBroker) broadcast(topic string, event dto.FeedEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	subscribers := b.subscribers[topic]
	for ch := range subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}
