package service

// EventEmitter publishes option change events to connected consoles.
// sse.Manager implements it.
type EventEmitter interface {
	Emit(event any)
}

// NoopEmitter discards events. Used by tools that write options without a
// running event stream.
type NoopEmitter struct{}

// Emit implements EventEmitter.
func (NoopEmitter) Emit(any) {}

// NewNoopEmitter creates a no-op emitter.
func NewNoopEmitter() EventEmitter {
	return NoopEmitter{}
}
