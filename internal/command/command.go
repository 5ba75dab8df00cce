package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrTimeout is returned when a command outlives its deadline
var ErrTimeout = errors.New("command timed out")

// Runner executes host tools and returns their stdout
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Exec runs commands with os/exec. A zero Timeout means no deadline beyond ctx.
type Exec struct {
	Timeout time.Duration
	Log     zerolog.Logger
}

// NewExec creates an Exec runner with the given per-command timeout
func NewExec(timeout time.Duration, log zerolog.Logger) *Exec {
	return &Exec{Timeout: timeout, Log: log}
}

// Run executes name with args and returns stdout. Stderr is folded into the error.
func (e *Exec) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	line := strings.TrimSpace(name + " " + strings.Join(args, " "))
	e.Log.Debug().Str("command", line).Dur("timeout", e.Timeout).Msg("command run")

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	e.Log.Debug().Str("command", line).Dur("elapsed", time.Since(start)).Msg("command done")

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return stdout.Bytes(), fmt.Errorf("%s: %w after %s", line, ErrTimeout, e.Timeout)
		}
		return stdout.Bytes(), fmt.Errorf("command: %s - stderr: %s - error: %w",
			line, strings.TrimSpace(stderr.String()), err)
	}

	return stdout.Bytes(), nil
}
