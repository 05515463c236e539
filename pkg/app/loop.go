package app

import (
	"context"
	"time"

	"github.com/entrhq/anvil/pkg/toolgen"
	"github.com/entrhq/anvil/pkg/types"
)

// maintenanceInterval paces the idle-session sweep.
const maintenanceInterval = time.Minute

// eventLoop is the main processing loop for the core.
func (a *App) eventLoop(ctx context.Context) {
	defer a.channels.Close()
	defer func() {
		a.runMu.Lock()
		a.running = false
		a.runMu.Unlock()
	}()

	maintenance := time.NewTicker(maintenanceInterval)
	defer maintenance.Stop()

	for {
		select {
		case <-ctx.Done():
			a.emitEvent(types.NewErrorEvent(ctx.Err()))
			return

		case <-a.channels.Shutdown:
			return

		case <-maintenance.C:
			if a.browser != nil {
				a.browser.CleanupIdleSessions()
			}

		case input := <-a.channels.Input:
			if input == nil {
				// Channel closed
				return
			}

			// Cancellation is handled synchronously so it can interrupt the
			// generation running in its own goroutine.
			if input.IsCancel() {
				a.processInput(ctx, input)
				continue
			}

			go a.processInput(ctx, input)

		case resp := <-a.channels.Confirmation:
			if resp == nil {
				// Channel closed
				return
			}

			if !a.gate.Resolve(resp.ConfirmationID, resp.IsGranted()) {
				a.logger.Debugf("confirmation %s is no longer pending", resp.ConfirmationID)
			}
		}
	}
}

// processInput handles a single input from the frontend.
func (a *App) processInput(ctx context.Context, input *types.Input) {
	if input.IsCancel() {
		a.cancelMu.Lock()
		if a.cancelStream != nil {
			a.cancelStream()
			a.cancelStream = nil
		}
		a.cancelMu.Unlock()
		return
	}

	if input.IsUserInput() {
		a.processGeneration(ctx, input.Content)
	}
}

// processGeneration runs one tool generation round-trip: stream the model's
// response out as content events, validate it into a draft, and hold the
// draft for review.
func (a *App) processGeneration(ctx context.Context, instruction string) {
	turnCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.cancelMu.Lock()
	a.cancelStream = cancel
	a.cancelMu.Unlock()

	defer func() {
		a.cancelMu.Lock()
		a.cancelStream = nil
		a.cancelMu.Unlock()
	}()

	a.emitEvent(types.NewUpdateBusyEvent(true))
	defer a.emitEvent(types.NewUpdateBusyEvent(false))

	req := toolgen.Request{
		Instruction:   instruction,
		PageContext:   a.pageContextText(turnCtx),
		ExistingTools: a.toolNames(),
	}

	a.emitEvent(types.NewGenerationStartEvent())
	draft, err := a.generator.GenerateStream(turnCtx, req, func(delta string) {
		a.emitEvent(types.NewGenerationContentEvent(delta))
	})
	if err != nil {
		// A cancelled turn was stopped by the user; stay silent.
		if turnCtx.Err() != nil {
			return
		}
		a.emitEvent(types.NewErrorEvent(err))
		return
	}
	a.emitEvent(types.NewGenerationEndEvent())

	a.draftMu.Lock()
	a.pendingDraft = draft
	a.draftMu.Unlock()

	a.emitEvent(types.NewDraftReadyEvent(&types.DraftData{
		Name:        draft.Name,
		Script:      draft.Script,
		Explanation: draft.Explanation,
		Validity:    draft.Validity.String(),
	}))
}

// pageContextText extracts the current page as generator context. Failures
// degrade to contextless generation rather than blocking the request.
func (a *App) pageContextText(ctx context.Context) string {
	if a.browser == nil || a.sessionID == "" {
		return ""
	}

	pc, err := a.browser.PageContext(ctx, a.sessionID, a.contextTokens)
	if err != nil {
		a.logger.Warnf("failed to extract page context: %v", err)
		return ""
	}
	return pc.PromptText()
}

// toolNames returns the names in the collection, in order.
func (a *App) toolNames() []string {
	tools := a.store.All()
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.Name)
	}
	return names
}

// emitEvent sends an event on the event channel. The send blocks so events
// that drive the frontend's state are never dropped; once the core has
// stopped, late events from stragglers like an expiring confirmation are
// discarded instead of blocking forever.
func (a *App) emitEvent(event *types.AppEvent) {
	select {
	case a.channels.Event <- event:
	case <-a.channels.Done:
	}
}

// emitToolsUpdate announces the current collection to the frontend.
func (a *App) emitToolsUpdate() {
	a.emitEvent(types.NewToolsUpdateEvent(a.toolNames()))
}
