// Package shell runs a command line through a shell interpreter with a fixed
// payload on its standard input.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// ErrFailed marks every unsuccessful evaluation: non-zero exit, spawn error or
// I/O error. Callers do not need to tell these apart.
var ErrFailed = errors.New("command failed")

// DefaultShell is tried first by Resolve.
const DefaultShell = "bash"

// waitDelay bounds how long Evaluate waits for the output pipes after the
// children were killed.
const waitDelay = 500 * time.Millisecond

// Shell evaluates command lines with `<Path> -c <command>`.
type Shell struct {
	Path string
	// Env is appended to the parent environment of every child.
	Env []string
}

// New returns a Shell for the interpreter at path. Children get NO_COLOR and
// a non-interactive pager so they neither colorize nor grab the terminal.
func New(path string) *Shell {
	return &Shell{
		Path: path,
		Env:  []string{"NO_COLOR=1", "PAGER=cat", "GIT_PAGER=cat"},
	}
}

// Resolve finds the interpreter named by name on PATH. An empty name means
// DefaultShell, falling back to sh when bash is not installed.
func Resolve(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		if p, err := exec.LookPath(DefaultShell); err == nil {
			return p, nil
		}
		name = "sh"
	}
	p, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("shell %q: %w", name, err)
	}
	return p, nil
}

// Evaluate runs command with input as stdin and returns everything it wrote
// to stdout. The child's stderr is discarded. Only a zero exit status counts
// as success, even when the output is empty. There is no timeout: the call
// returns when the child exits or ctx is cancelled. The child runs in its own
// process group and cancellation kills the whole group, so a pipeline whose
// stages hold the output pipe cannot outlive ctx.
func (s *Shell) Evaluate(ctx context.Context, command string, input []byte) (string, error) {
	if strings.TrimSpace(command) == "" {
		return "", fmt.Errorf("%w: empty command", ErrFailed)
	}
	cmd := exec.CommandContext(ctx, s.Path, "-c", command)
	cmd.Stdin = bytes.NewReader(input)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Env = append(os.Environ(), s.Env...)
	cmd.WaitDelay = waitDelay
	killGroupOnCancel(cmd)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrFailed, err)
	}
	return out.String(), nil
}
