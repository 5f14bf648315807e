package process

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCommander implements Commander and streamer for testing
type mockCommander struct {
	runFunc func(stdin io.Reader, stdout, stderr io.Writer) error
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

func (m *mockCommander) SetStreams(stdin io.Reader, stdout, stderr io.Writer) {
	m.stdin, m.stdout, m.stderr = stdin, stdout, stderr
}

func (m *mockCommander) Run() error {
	return m.runFunc(m.stdin, m.stdout, m.stderr)
}

type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }
func (e exitError) ExitCode() int { return e.code }

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		extra    []string
		wantName string
		wantArgs []string
	}{
		{"single binary", "/bin/cat", nil, "/bin/cat", []string{}},
		{"binary with options", "sass --style compressed", []string{"a.scss"}, "sass", []string{"--style", "compressed", "a.scss"}},
		{"empty line", "   ", []string{"x"}, "", []string{"x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := Parse(tt.line, tt.extra...)
			assert.Equal(t, tt.wantName, cmd.Name)
			assert.Equal(t, tt.wantArgs, cmd.Args)
		})
	}
}

func TestRunner_Run_Mock(t *testing.T) {
	var gotName string
	var gotArgs []string

	runner := NewRunnerWith(func(name string, args ...string) Commander {
		gotName, gotArgs = name, args
		return &mockCommander{runFunc: func(stdin io.Reader, stdout, stderr io.Writer) error {
			data, _ := io.ReadAll(stdin)
			_, _ = fmt.Fprintf(stdout, "compiled:%s", data)
			_, _ = fmt.Fprint(stderr, "warning: deprecated")
			return nil
		}}
	})

	res, err := runner.Run(Command{Name: "uglifyjs", Args: []string{"-"}, Stdin: "var a = 1;"})
	require.NoError(t, err)

	assert.Equal(t, "uglifyjs", gotName)
	assert.Equal(t, []string{"-"}, gotArgs)
	assert.Equal(t, "compiled:var a = 1;", res.Stdout)
	assert.Equal(t, "warning: deprecated", res.Stderr)
}

func TestRunner_Run_FailureCarriesStderr(t *testing.T) {
	runner := NewRunnerWith(func(name string, args ...string) Commander {
		return &mockCommander{runFunc: func(stdin io.Reader, stdout, stderr io.Writer) error {
			_, _ = fmt.Fprint(stderr, "Error: Undefined variable $brand\n")
			return exitError{code: 65}
		}}
	})

	_, err := runner.Run(Command{Name: "sass", Args: []string{"app.scss"}})
	require.Error(t, err)

	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 65, perr.ExitCode)
	assert.Equal(t, "sass app.scss", perr.Command)
	assert.Contains(t, err.Error(), "Data format error")
	assert.Contains(t, err.Error(), "Undefined variable $brand")
}

func TestRunner_Run_EmptyCommand(t *testing.T) {
	_, err := NewRunner().Run(Command{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty command")
}

func TestRunner_Run_RealProcess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX cat")
	}

	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}

	res, err := NewRunner().Run(Command{Name: "cat", Stdin: "body { color: red; }"})
	require.NoError(t, err)
	assert.Equal(t, "body { color: red; }", res.Stdout)
}

func TestRunner_Run_MissingBinary(t *testing.T) {
	_, err := NewRunner().Run(Command{Name: "definitely-not-a-real-binary-apc"})
	require.Error(t, err)

	var perr *Error
	assert.True(t, errors.As(err, &perr))
}

func TestEnvironment(t *testing.T) {
	env := environment(map[string]string{"NODE_PATH": "/usr/lib/node", "A": "1"})
	require.GreaterOrEqual(t, len(env), 2)
	assert.Equal(t, "A=1", env[len(env)-2])
	assert.Equal(t, "NODE_PATH=/usr/lib/node", env[len(env)-1])
}
