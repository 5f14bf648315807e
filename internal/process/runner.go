// Package process runs the external preprocessors and minifiers used by filters.
package process

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/Norgate-AV/apc/internal/codes"
)

// Commander interface for testing
type Commander interface {
	Run() error
}

// streamer is implemented by commanders that accept standard streams
type streamer interface {
	SetStreams(stdin io.Reader, stdout, stderr io.Writer)
}

// Command describes one external invocation
type Command struct {
	Name  string
	Args  []string
	Env   map[string]string
	Stdin string
}

// String renders the command line for diagnostics
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Parse splits a configured command line such as "sass --style compressed"
// into a Command and appends extra arguments. No shell is involved.
func Parse(line string, extra ...string) Command {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{Args: extra}
	}

	args := append([]string{}, fields[1:]...)
	args = append(args, extra...)

	return Command{Name: fields[0], Args: args}
}

// Result holds the captured streams of a successful run
type Result struct {
	Stdout string
	Stderr string
}

// Error is returned when a command cannot be started or exits unsuccessfully
type Error struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("command %q failed", e.Command)
	if e.ExitCode > 0 {
		msg += fmt.Sprintf(" (exit code %d: %s)", e.ExitCode, codes.GetErrorMessage(e.ExitCode))
	}

	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		return msg + ": " + stderr
	}

	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}

	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Runner executes commands, capturing stdout and stderr
type Runner struct {
	execCommand func(name string, args ...string) Commander
}

// NewRunner creates a runner backed by os/exec
func NewRunner() *Runner {
	return &Runner{
		execCommand: func(name string, args ...string) Commander {
			return exec.Command(name, args...)
		},
	}
}

// NewRunnerWith creates a runner with a custom command factory
func NewRunnerWith(execCommand func(name string, args ...string) Commander) *Runner {
	return &Runner{execCommand: execCommand}
}

// Run executes the command, feeding Stdin and returning the captured output
func (r *Runner) Run(cmd Command) (Result, error) {
	if cmd.Name == "" {
		return Result{}, &Error{Command: cmd.String(), Err: errors.New("empty command")}
	}

	var stdout, stderr bytes.Buffer

	c := r.execCommand(cmd.Name, cmd.Args...)
	switch v := c.(type) {
	case *exec.Cmd:
		v.Stdin = strings.NewReader(cmd.Stdin)
		v.Stdout = &stdout
		v.Stderr = &stderr
		v.Env = environment(cmd.Env)
	case streamer:
		v.SetStreams(strings.NewReader(cmd.Stdin), &stdout, &stderr)
	}

	if err := c.Run(); err != nil {
		perr := &Error{Command: cmd.String(), Stderr: stderr.String(), Err: err}

		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			perr.ExitCode = exitErr.ExitCode()
		}

		return Result{}, perr
	}

	return Result{Stdout: stdout.String(), Stderr: stderr.String()}, nil
}

// environment overlays extra variables onto the current process environment
func environment(extra map[string]string) []string {
	env := os.Environ()
	if len(extra) == 0 {
		return env
	}

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		env = append(env, k+"="+extra[k])
	}

	return env
}
