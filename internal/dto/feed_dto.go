package dto

import "time"

// FeedEvent tells live feed subscribers that a collection changed and a
// refetch is due. Events carry no document payload.
type FeedEvent struct {
	Topic     string    `json:"topic"`
	EmittedAt time.Time `json:"emitted_at"`
}
