package gate

import (
	"context"
	"time"

	"github.com/entrhq/anvil/pkg/types"
)

// waitForDecision blocks until the user decides, the request times out, or
// the context ends. Every path lands on exactly one terminal state and
// emits at most one outcome event.
func (m *Manager) waitForDecision(ctx context.Context, id, toolName string, response chan *types.ConfirmationResponse) State {
	timer := time.NewTimer(m.timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return StateCancelled

	case <-timer.C:
		m.emitEvent(types.NewConfirmationTimeoutEvent(id, toolName))
		return StateCancelled

	case resp, ok := <-response:
		if !ok {
			// Channel closed under us, treat as denial
			m.emitEvent(types.NewConfirmationDeniedEvent(id, toolName))
			return StateCancelled
		}
		if resp.IsGranted() {
			m.emitEvent(types.NewConfirmationGrantedEvent(id, toolName))
			return StateConfirmed
		}
		m.emitEvent(types.NewConfirmationDeniedEvent(id, toolName))
		return StateCancelled
	}
}
