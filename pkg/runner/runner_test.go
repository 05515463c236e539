package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/entrhq/anvil/pkg/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEngine returns a canned outcome and counts invocations.
type stubEngine struct {
	value     any
	err       error
	panicWith any
	calls     int
	script    string
}

func (e *stubEngine) Evaluate(ctx context.Context, script string) (any, error) {
	e.calls++
	e.script = script
	if e.panicWith != nil {
		panic(e.panicWith)
	}
	return e.value, e.err
}

func TestRunnerRun(t *testing.T) {
	demoTool := tool.Tool{Name: "Demo", Script: "document.title"}

	t.Run("string value passes through verbatim", func(t *testing.T) {
		engine := &stubEngine{value: "Example Domain"}
		result := New(engine).Run(context.Background(), demoTool)

		assert.Equal(t, StatusSuccess, result.Status)
		assert.True(t, result.Succeeded())
		assert.Equal(t, "Example Domain", result.Value)
		assert.Empty(t, result.Detail)
	})

	t.Run("structured value is JSON encoded", func(t *testing.T) {
		engine := &stubEngine{value: map[string]any{"links": 3}}
		result := New(engine).Run(context.Background(), demoTool)

		assert.Equal(t, StatusSuccess, result.Status)
		assert.JSONEq(t, `{"links":3}`, result.Value)
	})

	t.Run("numeric value is JSON encoded", func(t *testing.T) {
		engine := &stubEngine{value: float64(42)}
		result := New(engine).Run(context.Background(), demoTool)

		assert.Equal(t, StatusSuccess, result.Status)
		assert.Equal(t, "42", result.Value)
	})

	t.Run("nil value means no output", func(t *testing.T) {
		engine := &stubEngine{value: nil}
		result := New(engine).Run(context.Background(), demoTool)

		assert.Equal(t, StatusSuccess, result.Status)
		assert.Empty(t, result.Value)
	})

	t.Run("engine error becomes an error result", func(t *testing.T) {
		engine := &stubEngine{err: errors.New("ReferenceError: frob is not defined")}
		result := New(engine).Run(context.Background(), demoTool)

		assert.Equal(t, StatusError, result.Status)
		assert.False(t, result.Succeeded())
		assert.Contains(t, result.Detail, "ReferenceError")
		assert.Empty(t, result.Value)
	})

	t.Run("engine panic is contained", func(t *testing.T) {
		engine := &stubEngine{panicWith: "page went away"}
		runner := New(engine)

		var result Result
		require.NotPanics(t, func() {
			result = runner.Run(context.Background(), demoTool)
		})

		assert.Equal(t, StatusError, result.Status)
		assert.Contains(t, result.Detail, "page went away")
	})

	t.Run("script body reaches the engine unmodified", func(t *testing.T) {
		engine := &stubEngine{value: "ok"}
		New(engine).Run(context.Background(), tool.Tool{Name: "T", Script: "exact body; with ; semicolons"})

		assert.Equal(t, "exact body; with ; semicolons", engine.script)
	})

	t.Run("one evaluation per invocation", func(t *testing.T) {
		engine := &stubEngine{value: "ok"}
		New(engine).Run(context.Background(), demoTool)

		assert.Equal(t, 1, engine.calls)
	})
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "success", StatusSuccess.String())
	assert.Equal(t, "error", StatusError.String())
	assert.Equal(t, "unspecified", Status(0).String())
}
