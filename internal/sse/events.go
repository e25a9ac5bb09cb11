// Package sse pushes option changes to open consoles over Server-Sent Events.
package sse

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventOptionUpdated is sent after an option is saved.
	EventOptionUpdated EventType = "option.updated"
	// EventOptionReset is sent after an option is restored to its default.
	EventOptionReset EventType = "option.reset"
	// EventHeartbeat keeps idle connections open through proxies.
	EventHeartbeat EventType = "heartbeat"
)

// Event is one message on the stream. ID is sent as the SSE id field.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`
}

// OptionEventData carries the stored value after the change, so clients can
// patch their status context without refetching.
type OptionEventData struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

func newEvent(t EventType, data any) Event {
	return Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Type:      t,
		Data:      data,
	}
}

// NewOptionUpdatedEvent creates an option.updated event.
func NewOptionUpdatedEvent(key, value string) Event {
	return newEvent(EventOptionUpdated, OptionEventData{Key: key, Value: value})
}

// NewOptionResetEvent creates an option.reset event carrying the default value.
func NewOptionResetEvent(key, value string) Event {
	return newEvent(EventOptionReset, OptionEventData{Key: key, Value: value})
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	now := time.Now().UTC()
	e := newEvent(EventHeartbeat, HeartbeatEventData{ServerTime: now})
	e.Timestamp = now
	return e
}
