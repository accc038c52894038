package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/contre95/photoimport/src/features/importing"
)

// waitDelay bounds how long Wait blocks on pipes held open by grandchildren
// after the importer itself was killed.
const waitDelay = 5 * time.Second

// CommandImporter runs the importer binary once per file with an argument
// vector; the file path is never interpolated into a shell string.
type CommandImporter struct {
	binary string
	args   []string
}

// NewCommandImporter creates an importer for binary. args come before the path.
func NewCommandImporter(binary string, args []string) *CommandImporter {
	return &CommandImporter{binary: binary, args: args}
}

// Args returns the full argument vector used for path.
func (c *CommandImporter) Args(path string) []string {
	argv := make([]string, 0, len(c.args)+1)
	argv = append(argv, c.args...)
	return append(argv, path)
}

// Import runs the command for path and captures its combined output.
func (c *CommandImporter) Import(ctx context.Context, path string, timeout time.Duration) (importing.Result, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var out syncBuffer
	cmd := exec.CommandContext(runCtx, c.binary, c.Args(path)...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	cmd.WaitDelay = waitDelay

	start := time.Now()
	err := cmd.Run()
	result := importing.Result{Output: out.String(), Elapsed: time.Since(start)}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		result.TimedOut = true
		result.ExitCode = -1
		return result, nil
	}
	if err == nil {
		return result, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	return result, fmt.Errorf("failed to run %s: %w", c.binary, err)
}

// Check verifies that the importer binary is installed and runs.
func (c *CommandImporter) Check(ctx context.Context) error {
	binPath, err := exec.LookPath(c.binary)
	if err != nil {
		return fmt.Errorf("%s not found in PATH: %w", c.binary, err)
	}
	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	output, err := exec.CommandContext(checkCtx, binPath, "--version").CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s --version failed: %w", c.binary, err)
	}
	slog.Info("Importer available", "binary", binPath, "version", strings.TrimSpace(string(output)))
	return nil
}

// syncBuffer guards a buffer shared by stdout and stderr.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
