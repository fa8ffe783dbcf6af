package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/raphi011/pre-commit-vauxoo/internal/log"
)

// RunContext executes a command and returns stderr in the error message if it fails.
// dir sets the working directory; empty means the current one.
func RunContext(ctx context.Context, dir, name string, args ...string) error {
	_, err := OutputContext(ctx, dir, name, args...)
	return err
}

// OutputContext executes a command and returns stdout, with stderr in the error if it fails.
func OutputContext(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	done := log.FromContext(ctx).Command(dir, name, args...)
	start := time.Now()
	defer func() { done(time.Since(start)) }()

	c := exec.CommandContext(ctx, name, args...)
	c.Dir = dir
	var stderr bytes.Buffer
	c.Stderr = &stderr
	output, err := c.Output()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errMsg := strings.TrimSpace(stderr.String()); errMsg != "" {
			return nil, fmt.Errorf("%s", errMsg)
		}
		return nil, err
	}
	return output, nil
}

// StatusContext executes a command with its output streamed to stdout and
// stderr and returns its exit status. A non-zero exit is not an error; the
// error is only set when the command could not be started or was cancelled.
// A command killed by a signal reports status 1.
func StatusContext(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) (int, error) {
	return StatusInputContext(ctx, dir, nil, stdout, stderr, name, args...)
}

// StatusInputContext is StatusContext with stdin fed from r. A nil r reads
// from the null device.
func StatusInputContext(ctx context.Context, dir string, r io.Reader, stdout, stderr io.Writer, name string, args ...string) (int, error) {
	done := log.FromContext(ctx).Command(dir, name, args...)
	start := time.Now()
	defer func() { done(time.Since(start)) }()

	c := exec.CommandContext(ctx, name, args...)
	c.Dir = dir
	c.Stdin = r
	c.Stdout = stdout
	c.Stderr = stderr
	err := c.Run()
	if err == nil {
		return 0, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code > 0 {
			return code, nil
		}
		return 1, nil
	}
	return -1, err
}
