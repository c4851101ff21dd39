package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/internbooth/placement-api/internal/dto"
)

func TestFeedServiceDeliversLocalEvents(t *testing.T) {
	feeds := NewFeedService(nil, "placement", nil, testLogger())

	events, cleanup := feeds.Subscribe(TopicApplications)
	defer cleanup()

	feeds.NotifyChanged(context.Background(), TopicApplications, TopicTestAssignments)

	select {
	case event := <-events:
		require.Equal(t, TopicApplications, event.Topic)
		require.False(t, event.EmittedAt.IsZero())
	case <-time.After(time.Second):
		t.Fatal("expected a feed event")
	}

	select {
	case event := <-events:
		t.Fatalf("unexpected event for topic %q", event.Topic)
	default:
	}
}

func TestFeedServiceIgnoresOwnRelayedEvents(t *testing.T) {
	feeds := NewFeedService(nil, "placement", nil, testLogger()).(*feedService)

	events, cleanup := feeds.Subscribe(TopicStudents)
	defer cleanup()

	own, err := json.Marshal(feedFanoutEvent{
		Source: feeds.nodeID,
		Event:  dto.FeedEvent{Topic: TopicStudents, EmittedAt: time.Now()},
	})
	require.NoError(t, err)
	feeds.handleRelayed(own)

	select {
	case event := <-events:
		t.Fatalf("own relayed event must be dropped, got topic %q", event.Topic)
	default:
	}

	foreign, err := json.Marshal(feedFanoutEvent{
		Source: "other-node",
		Event:  dto.FeedEvent{Topic: TopicStudents, EmittedAt: time.Now()},
	})
	require.NoError(t, err)
	feeds.handleRelayed(foreign)

	select {
	case event := <-events:
		require.Equal(t, TopicStudents, event.Topic)
	case <-time.After(time.Second):
		t.Fatal("expected the foreign relayed event")
	}
}

func TestFeedServiceUnsubscribeClosesChannel(t *testing.T) {
	feeds := NewFeedService(nil, "placement", nil, testLogger())

	events, cleanup := feeds.Subscribe(TopicTests)
	cleanup()

	_, open := <-events
	require.False(t, open)

	// Publishing after the last subscriber left must not panic.
	feeds.NotifyChanged(context.Background(), TopicTests)
}
