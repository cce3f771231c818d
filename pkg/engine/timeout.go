package engine

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned when a script runs longer than the engine's
	// timeout.
	ErrTimeout = errors.New("evaluation timed out")

	// ErrSuperseded is returned to an evaluation that finished after a
	// newer one was started on the same engine.
	ErrSuperseded = errors.New("evaluation superseded by newer request")
)

type evalResult struct {
	script *Script
	errors []EvalError
	err    error
}

// wait returns the result of evaluation gen from ch, or an error once ctx
// is done. A timed-out evaluation keeps running in its goroutine; its
// result is dropped.
func (e *Engine) wait(ctx context.Context, ch <-chan evalResult, gen uint64) (*Script, []EvalError, error) {
	select {
	case res := <-ch:
		e.mu.Lock()
		current := e.generation
		e.mu.Unlock()
		if gen != current {
			return nil, nil, ErrSuperseded
		}
		return res.script, res.errors, res.err

	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, e.timeout)
		}
		return nil, nil, ctx.Err()
	}
}
