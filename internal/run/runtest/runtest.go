// Package runtest provides a scripted Runner for service tests.
package runtest

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"keyfob/internal/run"
)

// Call records one invocation seen by the fake.
type Call struct {
	Name string
	Args []string
}

// Response scripts the result of one invocation. Touch lists files the fake
// creates empty before replying, standing in for tools that write to disk;
// Do runs arbitrary side effects, such as writing realistic file contents or
// flipping a tool from missing to found.
type Response struct {
	Out   []byte
	Err   error
	Touch []string
	Do    func()
}

type entry struct {
	name   string
	prefix []string
	resp   Response
}

// Runner replays scripted responses and records every call. Invocations with
// no matching script succeed with empty output, which keeps tests for chatty
// flows short. Each scripted response is consumed once, in queue order.
type Runner struct {
	mu      sync.Mutex
	script  []entry
	missing map[string]bool

	Calls []Call
}

var _ run.Runner = (*Runner)(nil)

func New() *Runner {
	return &Runner{missing: make(map[string]bool)}
}

// On queues a response for the next invocation of name whose argument list
// starts with prefix.
func (r *Runner) On(name string, prefix []string, resp Response) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.script = append(r.script, entry{name: name, prefix: prefix, resp: resp})
}

// Missing marks name as absent from PATH until Found restores it.
func (r *Runner) Missing(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.missing[name] = true
}

// Found marks name as present on PATH again.
func (r *Runner) Found(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.missing, name)
}

func (r *Runner) Run(_ context.Context, c run.Cmd) ([]byte, error) {
	r.mu.Lock()
	r.Calls = append(r.Calls, Call{Name: c.Name, Args: c.Args})
	var resp *Response
	for i, e := range r.script {
		if e.name != c.Name || !hasPrefix(c.Args, e.prefix) {
			continue
		}
		found := e.resp
		r.script = append(r.script[:i], r.script[i+1:]...)
		resp = &found
		break
	}
	// Effects run unlocked so they may call back into the runner.
	r.mu.Unlock()

	if resp == nil {
		return nil, nil
	}
	for _, p := range resp.Touch {
		if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
			return nil, err
		}
		if err := os.WriteFile(p, nil, 0o600); err != nil {
			return nil, err
		}
	}
	if resp.Do != nil {
		resp.Do()
	}
	return resp.Out, resp.Err
}

func (r *Runner) LookPath(name string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.missing[name] {
		return "", fmt.Errorf("%s: %w", name, exec.ErrNotFound)
	}
	return "/usr/bin/" + name, nil
}

// Saw reports whether any recorded call has name and the given leading args.
func (r *Runner) Saw(name string, prefix ...string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.Calls {
		if c.Name == name && hasPrefix(c.Args, prefix) {
			return true
		}
	}
	return false
}

func hasPrefix(args, prefix []string) bool {
	if len(prefix) > len(args) {
		return false
	}
	for i, p := range prefix {
		if args[i] != p {
			return false
		}
	}
	return true
}
