// Package proctest provides a scripted proc.Runner for tests.
package proctest

import (
	"context"
	"strings"
	"sync"

	"github.com/jmylchreest/hyprkit/internal/proc"
)

// Call is one recorded invocation.
type Call struct {
	Name       string
	Args       []string
	Stdin      string
	Background bool
}

// String returns the call as a single space-joined command line.
func (c Call) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

type handler struct {
	prefix string
	fn     func(Call) proc.Result
}

// Fake records every command and answers from handlers registered by
// command-line prefix. The most recently registered matching handler wins.
// Unmatched commands succeed with empty output.
type Fake struct {
	mu       sync.Mutex
	calls    []Call
	handlers []handler
	nextPID  int
}

// New creates an empty Fake.
func New() *Fake {
	return &Fake{nextPID: 1000}
}

// On answers commands starting with prefix with a fixed result.
func (f *Fake) On(prefix string, res proc.Result) *Fake {
	return f.OnFunc(prefix, func(Call) proc.Result { return res })
}

// OnFunc answers commands starting with prefix by calling fn.
func (f *Fake) OnFunc(prefix string, fn func(Call) proc.Result) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers = append(f.handlers, handler{prefix: prefix, fn: fn})
	return f
}

// Stdout is a successful result with the given output.
func Stdout(s string) proc.Result {
	return proc.Result{Stdout: s}
}

// Fail is a result with a non-zero exit code.
func Fail(code int) proc.Result {
	return proc.Result{
		ExitCode: code,
		Err:      &proc.ExitError{Command: "fake", Code: code},
	}
}

func (f *Fake) dispatch(c Call) proc.Result {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	line := c.String()
	var fn func(Call) proc.Result
	for i := len(f.handlers) - 1; i >= 0; i-- {
		if strings.HasPrefix(line, f.handlers[i].prefix) {
			fn = f.handlers[i].fn
			break
		}
	}
	f.mu.Unlock()

	if fn == nil {
		return proc.Result{}
	}
	return fn(c)
}

// Run implements proc.Runner.
func (f *Fake) Run(_ context.Context, name string, args ...string) error {
	res := f.dispatch(Call{Name: name, Args: args})
	if !res.OK() && res.Err == nil {
		return &proc.ExitError{Command: name, Code: res.ExitCode}
	}
	return res.Err
}

// Capture implements proc.Runner.
func (f *Fake) Capture(_ context.Context, name string, args ...string) proc.Result {
	return f.dispatch(Call{Name: name, Args: args})
}

// Pipe implements proc.Runner.
func (f *Fake) Pipe(_ context.Context, stdin string, name string, args ...string) proc.Result {
	return f.dispatch(Call{Name: name, Args: args, Stdin: stdin})
}

// Start implements proc.Runner.
func (f *Fake) Start(name string, args ...string) (int, error) {
	res := f.dispatch(Call{Name: name, Args: args, Background: true})
	if res.Err != nil {
		return 0, res.Err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextPID++
	return f.nextPID, nil
}

// Calls returns a copy of every recorded call.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Commands returns every recorded call as a command line.
func (f *Fake) Commands() []string {
	calls := f.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}

// Count returns how many recorded calls start with prefix.
func (f *Fake) Count(prefix string) int {
	n := 0
	for _, line := range f.Commands() {
		if strings.HasPrefix(line, prefix) {
			n++
		}
	}
	return n
}

// Called reports whether any recorded call starts with prefix.
func (f *Fake) Called(prefix string) bool {
	return f.Count(prefix) > 0
}

// Last returns the most recent call starting with prefix.
func (f *Fake) Last(prefix string) (Call, bool) {
	calls := f.Calls()
	for i := len(calls) - 1; i >= 0; i-- {
		if strings.HasPrefix(calls[i].String(), prefix) {
			return calls[i], true
		}
	}
	return Call{}, false
}

// Reset forgets the recorded calls but keeps handlers.
func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}
