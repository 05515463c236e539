package app

import (
	"context"
	"fmt"

	"github.com/entrhq/anvil/pkg/browser"
	"github.com/entrhq/anvil/pkg/config"
	"github.com/entrhq/anvil/pkg/gate"
	"github.com/entrhq/anvil/pkg/security/urlguard"
	"github.com/entrhq/anvil/pkg/tool"
	"github.com/entrhq/anvil/pkg/toolgen"
	"github.com/entrhq/anvil/pkg/types"
)

// AcceptDraft saves the draft awaiting review as a new tool. The tool is
// created untrusted, visible, and not auto-run; the user upgrades those
// flags separately once they have seen what the script does.
func (a *App) AcceptDraft() error {
	a.draftMu.Lock()
	draft := a.pendingDraft
	a.draftMu.Unlock()

	if draft == nil {
		return fmt.Errorf("no draft awaiting review")
	}
	if !draft.IsUsable() {
		return fmt.Errorf("draft failed validation and cannot be saved")
	}
	if _, exists := a.store.FindByName(draft.Name); exists {
		return fmt.Errorf("a tool named %q already exists", draft.Name)
	}

	t := toolgen.FromDraft(draft, false)
	if err := a.store.Add(t); err != nil {
		return err
	}

	a.draftMu.Lock()
	a.pendingDraft = nil
	a.draftMu.Unlock()

	a.logger.Infof("saved tool %q", t.Name)
	a.emitEvent(types.NewToolSavedEvent(t.Name))
	a.emitToolsUpdate()
	return nil
}

// DiscardDraft drops the draft awaiting review, if any.
func (a *App) DiscardDraft() {
	a.draftMu.Lock()
	a.pendingDraft = nil
	a.draftMu.Unlock()
}

// RunTool launches one gated invocation of a stored tool and returns
// immediately; the outcome arrives as events. The execution gate may hold
// the invocation pending the user's confirmation, which the frontend
// answers on the Confirmation channel.
func (a *App) RunTool(ctx context.Context, name string) {
	go a.runTool(ctx, name)
}

func (a *App) runTool(ctx context.Context, name string) {
	t, ok := a.store.FindByName(name)
	if !ok {
		a.emitEvent(types.NewErrorEvent(fmt.Errorf("tool %q not found", name)))
		return
	}
	if a.runner == nil {
		a.emitEvent(types.NewErrorEvent(fmt.Errorf("no script engine available: start a browser session first")))
		return
	}
	if a.browser != nil {
		if url := a.currentURL(); !urlguard.AllowedScriptTarget(url) {
			a.emitEvent(types.NewErrorEvent(fmt.Errorf("scripts cannot run on %q: open an http(s) page first", url)))
			return
		}
	}

	switch a.gate.Request(ctx, t) {
	case gate.StateExecuted, gate.StateConfirmed:
	default:
		// Denied, timed out, or cancelled; the gate already announced it.
		return
	}

	url := a.currentURL()
	a.emitEvent(types.NewRunStartEvent(t.Name, url))

	result := a.runner.Run(ctx, t)
	a.emitEvent(types.NewRunResultEvent(&types.RunData{
		ToolName: t.Name,
		URL:      url,
		Success:  result.Succeeded(),
		Value:    result.Value,
		Detail:   result.Detail,
		Duration: result.Duration.String(),
	}))
}

// Navigate validates the target against navigation policy and loads it in
// the primary session. The page-loaded event and any auto-run dispatch
// happen before Navigate returns.
func (a *App) Navigate(ctx context.Context, rawURL string) error {
	if a.browser == nil || a.sessionID == "" {
		return fmt.Errorf("no active browser session")
	}

	if a.guard != nil {
		if err := a.guard.Validate(rawURL); err != nil {
			return err
		}
	}

	if _, err := a.browser.Navigate(ctx, a.sessionID, rawURL, browser.NavigateOptions{}); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

// onPageLoaded is the browser load hook: it records the visit, announces
// the page, and hands the URL to auto-run dispatch.
func (a *App) onPageLoaded(ctx context.Context, info browser.PageInfo) {
	visits := info.Visits
	if b := config.GetBrowser(); b != nil {
		visits = int(b.RecordVisit())
		if err := config.Global().SaveAll(); err != nil {
			a.logger.Warnf("failed to persist visit count: %v", err)
		}
	}

	a.emitEvent(types.NewPageLoadedEvent(info.URL, info.Title, visits))

	if a.dispatcher != nil {
		a.dispatcher.PageLoaded(ctx, info.URL)
	}
}

// currentURL reports the primary session's URL, empty without a browser.
func (a *App) currentURL() string {
	if a.browser == nil {
		return ""
	}

	session, err := a.browser.Primary()
	if err != nil {
		return ""
	}
	return session.CurrentURL
}

// SetToolTrusted marks a tool as trusted or untrusted. Trusted tools skip
// the confirmation step while the sandbox is enabled.
func (a *App) SetToolTrusted(name string, trusted bool) error {
	return a.updateTool(name, func(t *tool.Tool) { t.IsTrusted = trusted })
}

// SetToolAutoRun marks a tool to run automatically on page load.
func (a *App) SetToolAutoRun(name string, auto bool) error {
	return a.updateTool(name, func(t *tool.Tool) { t.IsAutoRun = auto })
}

// SetToolVisible controls whether the tool appears on the main surface.
func (a *App) SetToolVisible(name string, visible bool) error {
	return a.updateTool(name, func(t *tool.Tool) { t.IsVisibleOnMain = visible })
}

// RestorePresets reinstates any built-in preset the user has deleted and
// reports how many came back.
func (a *App) RestorePresets() (int, error) {
	added, err := a.store.RestorePresets()
	if err != nil {
		return 0, err
	}
	if added > 0 {
		a.logger.Infof("restored %d preset tool(s)", added)
		a.emitToolsUpdate()
	}
	return added, nil
}

// RemoveTool deletes a tool from the collection.
func (a *App) RemoveTool(name string) error {
	tools := a.store.All()
	for i, t := range tools {
		if t.Name == name {
			if err := a.store.RemoveAt(i); err != nil {
				return err
			}
			a.emitToolsUpdate()
			return nil
		}
	}
	return fmt.Errorf("tool %q not found", name)
}

// updateTool applies a mutation to the named tool and persists it.
func (a *App) updateTool(name string, mutate func(*tool.Tool)) error {
	tools := a.store.All()
	for i, t := range tools {
		if t.Name == name {
			mutate(&t)
			if err := a.store.UpdateAt(i, t); err != nil {
				return err
			}
			a.emitToolsUpdate()
			return nil
		}
	}
	return fmt.Errorf("tool %q not found", name)
}
