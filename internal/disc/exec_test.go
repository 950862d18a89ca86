package disc_test

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"sync"
)

// scriptedExec answers commands keyed by "binary arg1 arg2 ...".
type scriptedExec struct {
	mu      sync.Mutex
	replies map[string]reply
	calls   []string
}

type reply struct {
	output string
	err    error
}

func newScriptedExec() *scriptedExec {
	return &scriptedExec{replies: map[string]reply{}}
}

func (s *scriptedExec) on(command, output string) *scriptedExec {
	s.replies[command] = reply{output: output}
	return s
}

// failing answers command with output and a non-zero exit.
func (s *scriptedExec) failing(command, output string) *scriptedExec {
	s.replies[command] = reply{output: output, err: errors.New("exit status 1")}
	return s
}

func (s *scriptedExec) missing(command string) *scriptedExec {
	binary, _, _ := strings.Cut(command, " ")
	s.replies[command] = reply{err: &exec.Error{Name: binary, Err: exec.ErrNotFound}}
	return s
}

func (s *scriptedExec) Run(_ context.Context, binary string, args []string) ([]byte, error) {
	key := strings.Join(append([]string{binary}, args...), " ")
	s.mu.Lock()
	s.calls = append(s.calls, key)
	r, ok := s.replies[key]
	s.mu.Unlock()
	if !ok {
		return nil, errors.New("unexpected command: " + key)
	}
	return []byte(r.output), r.err
}

func (s *scriptedExec) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func lines(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}
