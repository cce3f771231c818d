package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateNoBox(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"empty", ""},
		{"whitespace", "   \n\t  \n  "},
		{"expression", "(+ 1 2)"},
		{"definitions", "(def x 10)\n(def y 20)\n(+ x y)"},
		{"comment only", "; nothing to see"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, evalErrs, err := NewEngine().Evaluate(tt.source)
			require.NoError(t, err)
			require.Empty(t, evalErrs)
			require.NotNil(t, s)
			assert.Empty(t, s.Values)
		})
	}
}

func TestEvaluateScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"unmatched paren", "(+ 1 2"},
		{"undefined symbol", "(+ 1 undefined-symbol)"},
		{"error on second line", "(+ 1 2)\n(+ 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, evalErrs, err := NewEngine().Evaluate(tt.source)
			require.NoError(t, err, "script errors are not fatal")
			assert.Nil(t, s)
			require.NotEmpty(t, evalErrs)
			assert.NotEmpty(t, evalErrs[0].Message)
			assert.GreaterOrEqual(t, evalErrs[0].Line, 0)
		})
	}
}

func TestEvalErrorString(t *testing.T) {
	assert.Equal(t, "line 5: something went wrong", EvalError{Line: 5, Message: "something went wrong"}.Error())
	assert.Equal(t, "no location", EvalError{Message: "no location"}.Error())
}

func TestEvaluateDeterministic(t *testing.T) {
	eng := NewEngine()
	for i := range 5 {
		s, evalErrs, err := eng.Evaluate("(box :width 40)")
		require.NoError(t, err, "iteration %d", i)
		require.Empty(t, evalErrs, "iteration %d", i)
		assert.Equal(t, map[string]float64{"width": 40}, s.Values, "iteration %d", i)
	}
}

func TestEvaluateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The result may win the race against the cancelled context.
	_, _, err := NewEngine().EvaluateContext(ctx, "(box :width 40)")
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestWaitTimeout(t *testing.T) {
	eng := NewEngine(WithTimeout(20 * time.Millisecond))
	ctx, cancel := context.WithTimeout(context.Background(), eng.timeout)
	defer cancel()

	start := time.Now()
	_, _, err := eng.wait(ctx, make(chan evalResult), 0)
	require.ErrorIs(t, err, ErrTimeout)
	assert.Contains(t, err.Error(), "20ms")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestWaitSuperseded(t *testing.T) {
	eng := NewEngine()
	eng.generation = 2

	ch := make(chan evalResult, 1)
	ch <- evalResult{script: &Script{}}
	_, _, err := eng.wait(context.Background(), ch, 1)
	assert.ErrorIs(t, err, ErrSuperseded)
}

func TestWaitCurrent(t *testing.T) {
	eng := NewEngine()
	eng.generation = 3

	want := &Script{Values: map[string]float64{"lip": 2}}
	ch := make(chan evalResult, 1)
	ch <- evalResult{script: want}
	got, evalErrs, err := eng.wait(context.Background(), ch, 3)
	require.NoError(t, err)
	assert.Empty(t, evalErrs)
	assert.Same(t, want, got)
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{"error on line", "Error on line 5: unexpected token\n", 5, "unexpected token"},
		{"no line info", "some generic error", 0, "some generic error"},
		{"lowercase", "error on line 12: missing paren", 12, "missing paren"},
		{"bare line prefix", "line 3: bad form", 3, "bad form"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errors.New(tt.msg))
			require.Len(t, errs, 1)
			assert.Equal(t, tt.wantLine, errs[0].Line)
			assert.Equal(t, tt.wantMsg, errs[0].Message)
		})
	}
}
