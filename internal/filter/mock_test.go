package filter

import (
	"fmt"
	"io"
	"testing"

	"github.com/Norgate-AV/apc/internal/process"
)

// call records one command execution
type call struct {
	Name  string
	Args  []string
	Stdin string
}

type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }
func (e exitError) ExitCode() int { return e.code }

type mockCommander struct {
	c      call
	run    func(call) (string, string, error)
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (m *mockCommander) SetStreams(stdin io.Reader, stdout, stderr io.Writer) {
	m.stdin, m.stdout, m.stderr = stdin, stdout, stderr
}

func (m *mockCommander) Run() error {
	data, _ := io.ReadAll(m.stdin)
	m.c.Stdin = string(data)

	stdout, stderr, err := m.run(m.c)
	_, _ = io.WriteString(m.stdout, stdout)
	_, _ = io.WriteString(m.stderr, stderr)

	return err
}

// mockRunner returns a runner whose commands are answered by run
func mockRunner(t *testing.T, run func(call) (string, string, error)) *process.Runner {
	t.Helper()

	return process.NewRunnerWith(func(name string, args ...string) process.Commander {
		return &mockCommander{c: call{Name: name, Args: args}, run: run}
	})
}

// recordingRunner records every call and answers with stdout
func recordingRunner(t *testing.T, calls *[]call, stdout string) *process.Runner {
	t.Helper()

	return mockRunner(t, func(c call) (string, string, error) {
		*calls = append(*calls, c)
		return stdout, "", nil
	})
}
