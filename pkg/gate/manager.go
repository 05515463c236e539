package gate

import (
	"context"
	"sync"
	"time"

	"github.com/entrhq/anvil/pkg/tool"
	"github.com/entrhq/anvil/pkg/types"
	"github.com/google/uuid"
)

// EventEmitter is a function type for emitting events
type EventEmitter func(event *types.AppEvent)

// DefaultTimeout bounds how long a confirmation may stay pending.
const DefaultTimeout = 2 * time.Minute

// Manager runs the interactive confirmation lifecycle on top of Evaluate.
// It holds one pending confirmation per in-flight request and performs no
// error handling of its own; execution failures belong to the runner.
type Manager struct {
	config    Config
	timeout   time.Duration
	pending   map[string]*pendingConfirmation
	mu        sync.Mutex
	emitEvent EventEmitter
}

// pendingConfirmation tracks one request waiting for the user's decision
type pendingConfirmation struct {
	id        string
	toolName  string
	response  chan *types.ConfirmationResponse
	closeOnce sync.Once // Ensures channel is closed exactly once
}

// NewManager creates a confirmation manager with the given policy settings.
// A non-positive timeout falls back to DefaultTimeout.
func NewManager(config Config, timeout time.Duration, emitEvent EventEmitter) *Manager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Manager{
		config:    config,
		timeout:   timeout,
		pending:   make(map[string]*pendingConfirmation),
		emitEvent: emitEvent,
	}
}

// Config returns the policy settings the manager was built with.
func (m *Manager) Config() Config {
	return m.config
}

// Request runs the gate for one tool invocation and blocks until it reaches
// a terminal state: StateExecuted when policy lets the tool run without
// confirmation, StateConfirmed when the user granted it, StateCancelled
// when the user denied it, the request timed out, or the context ended.
func (m *Manager) Request(ctx context.Context, t tool.Tool) State {
	if Evaluate(m.config, t) == RunDirectly {
		return StateExecuted
	}

	id := uuid.New().String()
	response := make(chan *types.ConfirmationResponse, 1)

	m.addPending(id, t.Name, response)
	defer m.removePending(id)

	// The event carries the raw script so the UI can reveal it when the
	// user explicitly asks; it is not shown by default.
	m.emitEvent(types.NewConfirmationRequestEvent(id, &types.ConfirmationData{
		ToolName:    t.Name,
		Description: t.Description,
		Script:      t.Script,
		Icon:        t.Icon,
	}))

	return m.waitForDecision(ctx, id, t.Name, response)
}

// Resolve delivers the user's decision for a pending confirmation. It
// reports whether a pending request with that ID existed; stale or unknown
// IDs are ignored.
func (m *Manager) Resolve(id string, granted bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	pc, ok := m.pending[id]
	if !ok {
		return false
	}

	// Non-blocking send: cleanup may already be underway
	select {
	case pc.response <- types.NewConfirmationResponse(id, granted):
	default:
	}
	return true
}

// addPending stores the pending confirmation
func (m *Manager) addPending(id, toolName string, response chan *types.ConfirmationResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pending[id] = &pendingConfirmation{
		id:       id,
		toolName: toolName,
		response: response,
	}
}

// removePending drops the pending confirmation and closes its channel.
// Safe to call multiple times.
func (m *Manager) removePending(id string) {
	m.mu.Lock()
	pc, ok := m.pending[id]
	if ok {
		delete(m.pending, id)
	}
	m.mu.Unlock()

	if ok && pc != nil {
		pc.closeOnce.Do(func() {
			close(pc.response)
		})
	}
}
