package disc

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Executor abstracts command execution for the scanners.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

// FileReader reads files produced by external tools.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// commandExecutor executes commands using os/exec. Scanners classify stderr
// text as well, so both streams are captured.
type commandExecutor struct{}

// NewCommandExecutor returns the os/exec backed Executor.
func NewCommandExecutor() Executor {
	return commandExecutor{}
}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	return cmd.CombinedOutput()
}

type timeoutExecutor struct {
	inner   Executor
	timeout time.Duration
}

// WithTimeout bounds every Run call on inner. A non-positive timeout returns
// inner unchanged.
func WithTimeout(inner Executor, timeout time.Duration) Executor {
	if timeout <= 0 {
		return inner
	}
	return timeoutExecutor{inner: inner, timeout: timeout}
}

func (t timeoutExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Run(ctx, binary, args)
}

type osFileReader struct{}

// NewFileReader returns a FileReader backed by the local filesystem.
func NewFileReader() FileReader {
	return osFileReader{}
}

func (osFileReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// failureText lists the substrings that identify each failure class for one
// tool. Checks run in field order.
type failureText struct {
	unknownDrive    []string
	wrongParameters []string
	noDisc          []string
}

// classifyOutput maps a command result onto a failure status. It returns
// false when the output should be parsed as a TOC. A failed run whose text
// matches no known failure is an error carrying its first line, whatever
// banner the tool printed first.
func classifyOutput(output []byte, runErr error, tool, device string, text failureText) (ScanStatus, bool) {
	if errors.Is(runErr, exec.ErrNotFound) {
		return statusNotInstalled(tool), true
	}
	body := strings.TrimSpace(string(output))
	if body == "" {
		if runErr != nil {
			return statusError(runErr.Error()), true
		}
		return statusNotInstalled(tool), true
	}
	if containsAny(body, text.unknownDrive) {
		return statusUnknownDrive(device), true
	}
	if containsAny(body, text.wrongParameters) {
		return statusWrongParameters(tool), true
	}
	if containsAny(body, text.noDisc) {
		return statusNoDisc(device), true
	}
	if runErr != nil {
		return statusError(firstLine(body)), true
	}
	return ScanStatus{}, false
}

func containsAny(body string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(body, needle) {
			return true
		}
	}
	return false
}

func firstLine(body string) string {
	body = strings.TrimSpace(body)
	if idx := strings.IndexByte(body, '\n'); idx >= 0 {
		return strings.TrimSpace(body[:idx])
	}
	return body
}
