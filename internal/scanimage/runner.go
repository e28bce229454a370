// Package scanimage executes the SANE `scanimage` command-line tool and
// captures its output.
//
// Unlike a managed daemon, scanimage runs one-shot: the runner builds the
// argument list, executes the binary with a per-run timeout, and returns the
// captured standard output as text. Standard error is folded into the
// returned error on failure, since scanimage reports backend problems there.
package scanimage

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// defaultTimeout bounds a single scanimage run. Probing a powered-off USB
// scanner can hang for minutes without it.
const defaultTimeout = 30 * time.Second

// Config holds configuration for the scanimage runner.
type Config struct {
	// Binary is the path to the scanimage executable.
	Binary string

	// Device is the SANE device string passed via -d. If empty, scanimage
	// picks the first available device.
	Device string

	// Timeout is the maximum duration for a single run.
	Timeout time.Duration
}

// Logger defines the logging interface for the runner.
type Logger interface {
	Debug(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Error(string, ...any) {}

// Runner executes scanimage one-shot and captures stdout.
type Runner struct {
	config Config
	logger Logger
}

// NewRunner creates a runner with the given configuration, applying defaults
// for zero values.
func NewRunner(cfg Config) *Runner {
	if cfg.Binary == "" {
		cfg.Binary = "scanimage"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Runner{
		config: cfg,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the runner.
func (r *Runner) SetLogger(logger Logger) {
	r.logger = logger
}

// CapabilityListing runs `scanimage -A [-d <device>]` and returns the
// captured capability listing text.
func (r *Runner) CapabilityListing(ctx context.Context) (string, error) {
	return r.run(ctx, r.capabilityArgs())
}

// capabilityArgs builds the argument list for capability enumeration.
func (r *Runner) capabilityArgs() []string {
	args := []string{"-A"}
	if r.config.Device != "" {
		args = append(args, "-d", r.config.Device)
	}
	return args
}

// run executes the binary and returns captured stdout. Execution errors carry
// trimmed stderr, which is where scanimage explains itself.
func (r *Runner) run(ctx context.Context, args []string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.config.Binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("running command",
		"binary", r.config.Binary,
		"args", args,
	)

	start := time.Now()
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		r.logger.Error("command failed",
			"binary", r.config.Binary,
			"error", err,
			"stderr", detail,
		)
		if detail != "" {
			return "", fmt.Errorf("running %s: %w: %s", r.config.Binary, err, detail)
		}
		return "", fmt.Errorf("running %s: %w", r.config.Binary, err)
	}

	r.logger.Debug("command completed",
		"binary", r.config.Binary,
		"duration_ms", time.Since(start).Milliseconds(),
		"output_bytes", stdout.Len(),
	)
	return stdout.String(), nil
}
