// Package autorun dispatches auto-run tools on page-load completion.
//
// Dispatch deliberately never consults the execution gate: a tool marked
// IsAutoRun executes on every qualifying page load regardless of trust or
// sandbox mode. A page qualifies when it can host scripts at all (http or
// https) and passes the page constraint.
package autorun

import (
	"context"

	"github.com/entrhq/anvil/pkg/logging"
	"github.com/entrhq/anvil/pkg/runner"
	"github.com/entrhq/anvil/pkg/security/urlguard"
	"github.com/entrhq/anvil/pkg/tool"
	"github.com/entrhq/anvil/pkg/types"
)

// EventEmitter is a function type for emitting events
type EventEmitter func(event *types.AppEvent)

// Dispatcher runs every auto-run tool when a page finishes loading.
type Dispatcher struct {
	store      *tool.Store
	runner     *runner.Runner
	constraint *Constraint
	emitEvent  EventEmitter
	logger     *logging.Logger
}

// NewDispatcher creates a dispatcher. A nil constraint means every page
// qualifies.
func NewDispatcher(store *tool.Store, r *runner.Runner, constraint *Constraint, emitEvent EventEmitter) *Dispatcher {
	logger, _ := logging.NewLogger("autorun")
	return &Dispatcher{
		store:      store,
		runner:     r,
		constraint: constraint,
		emitEvent:  emitEvent,
		logger:     logger,
	}
}

// PageLoaded runs the auto-run tools against the newly loaded page, in
// collection order, and emits a run result event per tool. The runner
// contains each tool's faults, so one failing tool never stops the rest.
func (d *Dispatcher) PageLoaded(ctx context.Context, pageURL string) []runner.Result {
	if !urlguard.AllowedScriptTarget(pageURL) {
		d.logger.Debugf("page %s cannot host scripts, skipping dispatch", pageURL)
		return nil
	}
	if d.constraint != nil && !d.constraint.Matches(pageURL) {
		d.logger.Debugf("page %s excluded by constraint, skipping dispatch", pageURL)
		return nil
	}

	tools := d.store.AutoRun()
	if len(tools) == 0 {
		return nil
	}

	d.logger.Infof("dispatching %d auto-run tools for %s", len(tools), pageURL)

	results := make([]runner.Result, 0, len(tools))
	for _, t := range tools {
		d.emitEvent(types.NewRunStartEvent(t.Name, pageURL))

		result := d.runner.Run(ctx, t)
		results = append(results, result)

		d.emitEvent(types.NewRunResultEvent(&types.RunData{
			ToolName: t.Name,
			URL:      pageURL,
			Success:  result.Succeeded(),
			Value:    result.Value,
			Detail:   result.Detail,
			Duration: result.Duration.String(),
			AutoRun:  true,
		}))
	}
	return results
}
