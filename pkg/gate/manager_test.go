package gate

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/entrhq/anvil/pkg/tool"
	"github.com/entrhq/anvil/pkg/types"
)

// mockEventEmitter captures emitted events for testing
type mockEventEmitter struct {
	events []*types.AppEvent
	mu     sync.Mutex
}

func (m *mockEventEmitter) emit(event *types.AppEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *mockEventEmitter) getEvents() []*types.AppEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*types.AppEvent{}, m.events...)
}

func (m *mockEventEmitter) findType(eventType types.AppEventType) *types.AppEvent {
	for _, event := range m.getEvents() {
		if event.Type == eventType {
			return event
		}
	}
	return nil
}

func untrustedTool() tool.Tool {
	return tool.Tool{
		Name:        "Highlight Links",
		Script:      "document.links.length",
		Description: "Counts links.",
		Icon:        "🔗",
	}
}

func TestManagerDirectExecution(t *testing.T) {
	t.Run("sandbox disabled", func(t *testing.T) {
		emitter := &mockEventEmitter{}
		manager := NewManager(Config{SandboxEnabled: false}, time.Second, emitter.emit)

		state := manager.Request(context.Background(), untrustedTool())

		if state != StateExecuted {
			t.Errorf("state = %v, want StateExecuted", state)
		}
		if len(emitter.getEvents()) != 0 {
			t.Error("direct execution must not emit confirmation events")
		}
	})

	t.Run("trusted tool under sandbox", func(t *testing.T) {
		emitter := &mockEventEmitter{}
		manager := NewManager(Config{SandboxEnabled: true}, time.Second, emitter.emit)

		trusted := untrustedTool()
		trusted.IsTrusted = true

		state := manager.Request(context.Background(), trusted)

		if state != StateExecuted {
			t.Errorf("state = %v, want StateExecuted", state)
		}
		if len(emitter.getEvents()) != 0 {
			t.Error("trusted tools must never reach the confirmation step")
		}
	})
}

func TestManagerGrantedResponse(t *testing.T) {
	emitter := &mockEventEmitter{}
	manager := NewManager(Config{SandboxEnabled: true}, 5*time.Second, emitter.emit)

	go func() {
		time.Sleep(50 * time.Millisecond)
		if event := emitter.findType(types.EventTypeConfirmationRequest); event != nil {
			manager.Resolve(event.ConfirmationID, true)
		}
	}()

	state := manager.Request(context.Background(), untrustedTool())

	if state != StateConfirmed {
		t.Errorf("state = %v, want StateConfirmed", state)
	}
	if emitter.findType(types.EventTypeConfirmationRequest) == nil {
		t.Error("expected confirmation request event")
	}
	if emitter.findType(types.EventTypeConfirmationGranted) == nil {
		t.Error("expected confirmation granted event")
	}
}

func TestManagerDeniedResponse(t *testing.T) {
	emitter := &mockEventEmitter{}
	manager := NewManager(Config{SandboxEnabled: true}, 5*time.Second, emitter.emit)

	go func() {
		time.Sleep(50 * time.Millisecond)
		if event := emitter.findType(types.EventTypeConfirmationRequest); event != nil {
			manager.Resolve(event.ConfirmationID, false)
		}
	}()

	state := manager.Request(context.Background(), untrustedTool())

	if state != StateCancelled {
		t.Errorf("state = %v, want StateCancelled", state)
	}
	if emitter.findType(types.EventTypeConfirmationDenied) == nil {
		t.Error("expected confirmation denied event")
	}
}

func TestManagerTimeout(t *testing.T) {
	emitter := &mockEventEmitter{}
	manager := NewManager(Config{SandboxEnabled: true}, 100*time.Millisecond, emitter.emit)

	// No response: let it expire
	state := manager.Request(context.Background(), untrustedTool())

	if state != StateCancelled {
		t.Errorf("state = %v, want StateCancelled", state)
	}
	if emitter.findType(types.EventTypeConfirmationTimeout) == nil {
		t.Error("expected confirmation timeout event")
	}
}

func TestManagerContextCancellation(t *testing.T) {
	emitter := &mockEventEmitter{}
	manager := NewManager(Config{SandboxEnabled: true}, 5*time.Second, emitter.emit)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	state := manager.Request(ctx, untrustedTool())

	if state != StateCancelled {
		t.Errorf("state = %v, want StateCancelled", state)
	}
}

func TestManagerRequestEventCarriesReviewDetails(t *testing.T) {
	emitter := &mockEventEmitter{}
	manager := NewManager(Config{SandboxEnabled: true}, 100*time.Millisecond, emitter.emit)

	manager.Request(context.Background(), untrustedTool())

	event := emitter.findType(types.EventTypeConfirmationRequest)
	if event == nil {
		t.Fatal("expected confirmation request event")
	}
	if event.Confirmation == nil {
		t.Fatal("expected confirmation payload")
	}
	if event.Confirmation.ToolName != "Highlight Links" {
		t.Errorf("payload tool name = %q", event.Confirmation.ToolName)
	}
	if event.Confirmation.Description != "Counts links." {
		t.Errorf("payload description = %q", event.Confirmation.Description)
	}
	if event.Confirmation.Script != "document.links.length" {
		t.Errorf("payload script = %q", event.Confirmation.Script)
	}
}

func TestManagerResolveUnknownID(t *testing.T) {
	emitter := &mockEventEmitter{}
	manager := NewManager(Config{SandboxEnabled: true}, time.Second, emitter.emit)

	if manager.Resolve("no-such-id", true) {
		t.Error("Resolve should report false for unknown IDs")
	}
}

func TestManagerResolveAfterCompletion(t *testing.T) {
	emitter := &mockEventEmitter{}
	manager := NewManager(Config{SandboxEnabled: true}, 50*time.Millisecond, emitter.emit)

	manager.Request(context.Background(), untrustedTool())

	event := emitter.findType(types.EventTypeConfirmationRequest)
	if event == nil {
		t.Fatal("expected confirmation request event")
	}

	// The request already timed out, so its pending entry is gone
	if manager.Resolve(event.ConfirmationID, true) {
		t.Error("Resolve should report false once the request completed")
	}
}

func TestManagerOneOutcomePerRequest(t *testing.T) {
	emitter := &mockEventEmitter{}
	manager := NewManager(Config{SandboxEnabled: true}, 5*time.Second, emitter.emit)

	go func() {
		time.Sleep(50 * time.Millisecond)
		event := emitter.findType(types.EventTypeConfirmationRequest)
		if event == nil {
			return
		}
		// Grant, then immediately try to deny the same request
		manager.Resolve(event.ConfirmationID, true)
		manager.Resolve(event.ConfirmationID, false)
	}()

	state := manager.Request(context.Background(), untrustedTool())

	if state != StateConfirmed {
		t.Errorf("state = %v, want StateConfirmed (first decision wins)", state)
	}
	if emitter.findType(types.EventTypeConfirmationDenied) != nil {
		t.Error("second decision must not produce a denied event")
	}
}
