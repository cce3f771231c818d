// Package engine evaluates box parameter scripts. A script is a small
// zygomys Lisp program, run in a fresh sandbox, that may compute values
// with def and arithmetic and hands them to a single (box ...) call.
package engine

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/stackbox/pkg/params"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Script is the outcome of a parameter script: the parameters its (box ...)
// call assigned, keyed by parameter name. A script without a box call
// assigns nothing.
type Script struct {
	Values map[string]float64
}

// Keys returns the assigned parameter names in sorted order.
func (s *Script) Keys() []string {
	keys := make([]string, 0, len(s.Values))
	for k := range s.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Apply returns p with every assigned parameter overridden.
func (s *Script) Apply(p params.Params) params.Params {
	for name, v := range s.Values {
		// Keys were checked when the script ran.
		_ = p.Set(name, v)
	}
	return p
}

// DefaultTimeout bounds a single evaluation.
const DefaultTimeout = 5 * time.Second

// Engine runs parameter scripts. It is safe for concurrent use; every
// evaluation gets a fresh sandbox, so scripts cannot see each other.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	timeout    time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout sets the evaluation time limit.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// NewEngine creates an Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs a parameter script with the engine's timeout.
func (e *Engine) Evaluate(source string) (*Script, []EvalError, error) {
	return e.EvaluateContext(context.Background(), source)
}

// EvaluateContext runs a parameter script.
//
// A script that fails to parse or run returns nil and the errors found,
// with a nil error. The error is reserved for timeouts, cancellation,
// panics and evaluations superseded by a later call.
func (e *Engine) EvaluateContext(ctx context.Context, source string) (*Script, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	ch := make(chan evalResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()
		s, evalErrs, err := e.evaluate(source)
		ch <- evalResult{script: s, errors: evalErrs, err: err}
	}()

	return e.wait(ctx, ch, gen)
}

func (e *Engine) evaluate(source string) (*Script, []EvalError, error) {
	s := &Script{Values: make(map[string]float64)}

	// Empty source is a valid program that assigns nothing.
	if strings.TrimSpace(source) == "" {
		return s, nil, nil
	}

	// No filesystem or syscall access.
	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, s)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}
	return s, nil, nil
}

// linePatterns match the ways zygomys reports a line number, e.g.
// "Error on line 5: unexpected token".
var linePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`),
	regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`),
}

// parseZygomysError turns a zygomys error into EvalErrors, keeping the
// line number when the message has one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	for _, re := range linePatterns {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
