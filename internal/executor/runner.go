// Package executor runs the test process and mirrors its output to the
// console and the captured log.
package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/creack/pty"

	"github.com/bebsworthy/testwrap/internal/debug"
	"github.com/bebsworthy/testwrap/internal/stream"
)

// RunOptions defines options for running the test process.
type RunOptions struct {
	// Working directory for the test
	WorkingDir string
	// Environment variables (in KEY=VALUE format)
	Environment []string
	// Timeout for the whole run
	Timeout time.Duration
	// Whether to inherit the wrapper's environment
	InheritEnv bool
	// UsePTY runs the test on a pseudo-terminal, for tests that change
	// behavior when not attached to one
	UsePTY bool
}

// RunResult contains the outcome of a test run.
type RunResult struct {
	// Exit code of the test process; -1 if it could not be started
	ExitCode int
	// Whether the run hit its deadline
	TimedOut bool
	// Wall-clock duration of the run
	Duration time.Duration
	// Infrastructure failure, distinct from the test's own exit code:
	// startup errors and output-mirroring errors land here
	Err error
}

// Runner executes test commands.
type Runner struct {
	defaultTimeout time.Duration
}

// NewRunner creates a Runner with the given default timeout.
func NewRunner(defaultTimeout time.Duration) *Runner {
	if defaultTimeout <= 0 {
		defaultTimeout = 15 * time.Minute
	}
	return &Runner{defaultTimeout: defaultTimeout}
}

// Run executes the test command, teeing its combined stdout and stderr to
// the console and log sinks in order. Both sinks are borrowed: the caller
// owns and closes them. The returned error covers wrapper-side failures
// before the process starts; everything after startup is reported through
// RunResult.
func (r *Runner) Run(command string, args []string, opts RunOptions, console, log io.Writer) (*RunResult, error) {
	if command == "" {
		return nil, fmt.Errorf("command cannot be empty")
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = r.defaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, command, args...)

	if opts.WorkingDir != "" {
		absPath, err := filepath.Abs(opts.WorkingDir)
		if err != nil {
			return nil, fmt.Errorf("invalid working directory: %w", err)
		}
		if _, err := os.Stat(absPath); err != nil {
			return nil, fmt.Errorf("invalid working directory: %w", err)
		}
		cmd.Dir = absPath
	}

	if env := prepareEnvironment(opts); len(env) > 0 {
		cmd.Env = env
	}

	debug.LogCommand(command, args, cmd.Dir)
	start := time.Now()

	source, err := startWithOutputSource(cmd, opts.UsePTY)
	if err != nil {
		return &RunResult{ExitCode: -1, Err: classifyStartError(err, command)}, nil
	}

	teeErr := stream.NewTee(source, console, log).Run()
	if opts.UsePTY && errors.Is(teeErr, syscall.EIO) {
		// pty masters report EIO once the child side closes
		teeErr = nil
	}
	_ = source.Close() //nolint:errcheck

	waitErr := cmd.Wait()
	result := &RunResult{Duration: time.Since(start)}

	if ctx.Err() == context.DeadlineExceeded {
		result.TimedOut = true
		_ = reapAfterTimeout(cmd) //nolint:errcheck
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
			result.Err = waitErr
		}
	}
	if result.Err == nil && teeErr != nil {
		// the test may have passed, but its output was not fully mirrored;
		// that is an infrastructure failure, not a test failure
		result.Err = teeErr
	}

	debug.LogTiming("test run", result.Duration)
	return result, nil
}

// startWithOutputSource starts cmd and returns the reader carrying its
// combined stdout and stderr.
func startWithOutputSource(cmd *exec.Cmd, usePTY bool) (io.ReadCloser, error) {
	if usePTY {
		return pty.Start(cmd)
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("creating output pipe: %w", err)
	}
	cmd.Stdout = pw
	cmd.Stderr = pw
	if err := cmd.Start(); err != nil {
		_ = pr.Close() //nolint:errcheck
		_ = pw.Close() //nolint:errcheck
		return nil, err
	}
	// the child holds the write end now; closing ours lets the read end
	// see EOF when the child exits
	_ = pw.Close() //nolint:errcheck
	return pr, nil
}

// reapAfterTimeout kills and waits out a timed-out process so it cannot
// linger as a zombie.
func reapAfterTimeout(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	if err := cmd.Process.Kill(); err != nil {
		if !strings.Contains(err.Error(), "process already finished") {
			return fmt.Errorf("failed to kill timed out test: %w", err)
		}
	}
	_, _ = cmd.Process.Wait() //nolint:errcheck
	return nil
}

// prepareEnvironment merges the inherited and explicit environment, explicit
// entries winning.
func prepareEnvironment(opts RunOptions) []string {
	var env []string
	if opts.InheritEnv {
		env = os.Environ()
	}

	envMap := make(map[string]string)
	order := make([]string, 0, len(env)+len(opts.Environment))
	add := func(entries []string) {
		for _, e := range entries {
			parts := strings.SplitN(e, "=", 2)
			if len(parts) != 2 {
				continue
			}
			if _, seen := envMap[parts[0]]; !seen {
				order = append(order, parts[0])
			}
			envMap[parts[0]] = parts[1]
		}
	}
	add(env)
	add(opts.Environment)

	merged := make([]string, 0, len(order))
	for _, k := range order {
		merged = append(merged, k+"="+envMap[k])
	}
	return merged
}
