package sse

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/listenupapp/listenup-console/internal/id"
)

const (
	defaultHeartbeat    = 30 * time.Second
	defaultClientBuffer = 32
	queueSize           = 256
)

// ErrShutdown is returned by Connect once the manager has shut down.
var ErrShutdown = errors.New("sse manager is shut down")

// Client is one open event stream. EventChan and Done are closed together
// when the client leaves or the manager shuts down.
type Client struct {
	ID          string
	EventChan   chan Event
	Done        chan struct{}
	ConnectedAt time.Time

	closeOnce sync.Once
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.Done)
		close(c.EventChan)
	})
}

// Manager fans events out to every connected client.
type Manager struct {
	log          *slog.Logger
	heartbeat    time.Duration
	clientBuffer int

	queue   chan Event
	running atomic.Bool
	stopped chan struct{}

	// mu guards clients and closed. Emit holds it shared while sending to
	// queue so Shutdown never closes queue under a sender.
	mu      sync.RWMutex
	clients map[string]*Client
	closed  bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithHeartbeat overrides the 30s heartbeat interval.
func WithHeartbeat(d time.Duration) Option {
	return func(m *Manager) { m.heartbeat = d }
}

// WithClientBuffer overrides the per-client queue length.
func WithClientBuffer(n int) Option {
	return func(m *Manager) { m.clientBuffer = n }
}

// NewManager creates a Manager. Events are only delivered once Start runs,
// or by the final drain in Shutdown.
func NewManager(logger *slog.Logger, opts ...Option) *Manager {
	m := &Manager{
		log:          logger,
		heartbeat:    defaultHeartbeat,
		clientBuffer: defaultClientBuffer,
		queue:        make(chan Event, queueSize),
		stopped:      make(chan struct{}),
		clients:      make(map[string]*Client),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start delivers queued events and heartbeats until ctx is done or Shutdown
// closes the queue. Run it once, in its own goroutine.
func (m *Manager) Start(ctx context.Context) {
	m.running.Store(true)
	defer close(m.stopped)
	defer m.dropClients()

	ticker := time.NewTicker(m.heartbeat)
	defer ticker.Stop()

	m.log.Info("SSE manager running", "heartbeat", m.heartbeat)
	for {
		select {
		case <-ctx.Done():
			m.log.Info("SSE manager stopped", "reason", context.Cause(ctx))
			return
		case <-ticker.C:
			m.fanOut(NewHeartbeatEvent())
		case event, ok := <-m.queue:
			if !ok {
				return
			}
			m.fanOut(event)
		}
	}
}

// Shutdown refuses new clients and events, flushes the queue and closes
// every client. If ctx ends first the remaining events are abandoned.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	close(m.queue)
	m.mu.Unlock()

	drained := true
	if m.running.Load() {
		select {
		case <-m.stopped:
		case <-ctx.Done():
			drained = false
			m.log.Warn("SSE shutdown timed out before the queue drained")
		}
	}
	// Start may have left on ctx with events still queued.
	if drained {
		for event := range m.queue {
			m.fanOut(event)
		}
	}

	m.dropClients()
	m.log.Info("SSE manager shut down")
	return nil
}

// fanOut offers event to each client. A client whose buffer is full misses
// it rather than stalling the others.
func (m *Manager) fanOut(event Event) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	missed := 0
	for _, c := range m.clients {
		select {
		case c.EventChan <- event:
		default:
			missed++
			m.log.Warn("client buffer full, event skipped",
				"client_id", c.ID, "event_type", event.Type)
		}
	}

	if event.Type != EventHeartbeat {
		m.log.Debug("event sent",
			"event_type", event.Type,
			"clients", len(m.clients),
			"missed", missed)
	}
}

// Connect opens a new client.
func (m *Manager) Connect() (*Client, error) {
	clientID, err := id.Generate(id.PrefixClient)
	if err != nil {
		return nil, err
	}
	c := &Client{
		ID:          clientID,
		EventChan:   make(chan Event, m.clientBuffer),
		Done:        make(chan struct{}),
		ConnectedAt: time.Now(),
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrShutdown
	}
	m.clients[c.ID] = c
	n := len(m.clients)
	m.mu.Unlock()

	m.log.Info("SSE client connected", "client_id", c.ID, "clients", n)
	return c, nil
}

// Disconnect closes a client. Unknown ids are ignored.
func (m *Manager) Disconnect(clientID string) {
	m.mu.Lock()
	c, ok := m.clients[clientID]
	delete(m.clients, clientID)
	n := len(m.clients)
	m.mu.Unlock()

	if !ok {
		return
	}
	c.close()
	m.log.Info("SSE client disconnected",
		"client_id", clientID,
		"connected_for", time.Since(c.ConnectedAt).Round(time.Second),
		"clients", n)
}

// Emit queues an Event for delivery. Other values, and anything emitted
// after Shutdown, are dropped.
func (m *Manager) Emit(event any) {
	e, ok := event.(Event)
	if !ok {
		m.log.Error("ignoring non-event value", "value", event)
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return
	}
	select {
	case m.queue <- e:
	default:
		m.log.Error("SSE queue full, event dropped", "event_type", e.Type)
	}
}

// ClientCount returns the number of connected clients.
func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// Healthy reports whether the manager still accepts events.
func (m *Manager) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return !m.closed
}

func (m *Manager) dropClients() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.clients {
		c.close()
	}
	clear(m.clients)
}
