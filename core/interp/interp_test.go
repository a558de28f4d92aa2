package interp

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"josephlewis.net/gosh/core/config"
	"josephlewis.net/gosh/core/history"
)

func newTestInterp(stdin io.Reader) (*Interp, *bytes.Buffer, *bytes.Buffer) {
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	cfg := &config.Configuration{
		Color:             config.ColorNever,
		MaxArgs:           64,
		MaxPipelineStages: 16,
	}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return New(cfg, history.NewLog(), afero.NewMemMapFs(), stdin, stdout, stderr), stdout, stderr
}

func TestRunLineBuiltin(t *testing.T) {
	in, stdout, stderr := newTestInterp(nil)

	status := in.RunLine("echo hello   world")
	assert.Equal(t, 0, status)
	assert.Equal(t, "hello world\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRunLineBlank(t *testing.T) {
	in, stdout, _ := newTestInterp(nil)

	assert.Equal(t, 0, in.RunLine("   \t "))
	assert.Empty(t, stdout.String())
}

func TestRunLineCommandNotFound(t *testing.T) {
	in, stdout, _ := newTestInterp(nil)

	status := in.RunLine("doesnotexist123")
	assert.Equal(t, 1, status)
	// The observed shell prints resolution failures on stdout.
	assert.Equal(t, "doesnotexist123: command not found\n", stdout.String())
}

func TestRunLineParseError(t *testing.T) {
	in, stdout, stderr := newTestInterp(nil)

	status := in.RunLine(`echo "abc`)
	assert.Equal(t, 1, status)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "unclosed quote")
}

func TestRunLineExternalStatus(t *testing.T) {
	in, _, _ := newTestInterp(nil)

	assert.Equal(t, 0, in.RunLine("sh -c 'exit 0'"))
	assert.Equal(t, 3, in.RunLine("sh -c 'exit 3'"))
}

func TestRunLineExternalOutput(t *testing.T) {
	in, stdout, _ := newTestInterp(nil)

	status := in.RunLine("sh -c 'echo external'")
	assert.Equal(t, 0, status)
	assert.Equal(t, "external\n", stdout.String())
}

func TestRunLineExitRequest(t *testing.T) {
	in, _, _ := newTestInterp(nil)

	status := in.RunLine("exit 7")
	assert.Equal(t, 7, status)

	code, requested := in.TakeExitRequest()
	assert.True(t, requested)
	assert.Equal(t, 7, code)

	// The request is consumed.
	_, requested = in.TakeExitRequest()
	assert.False(t, requested)
}

func TestRedirectTruncate(t *testing.T) {
	in, stdout, _ := newTestInterp(nil)
	out := filepath.Join(t.TempDir(), "out.txt")

	// Run twice: truncate must not accumulate.
	for i := 0; i < 2; i++ {
		status := in.RunLine("echo hi > " + out)
		require.Equal(t, 0, status)

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, "hi\n", string(data))
	}
	assert.Empty(t, stdout.String())
}

func TestRedirectAppend(t *testing.T) {
	in, _, _ := newTestInterp(nil)
	out := filepath.Join(t.TempDir(), "f")

	require.Equal(t, 0, in.RunLine("echo a >> "+out))
	require.Equal(t, 0, in.RunLine("echo b >> "+out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", string(data))
}

func TestRedirectStderr(t *testing.T) {
	in, stdout, stderr := newTestInterp(nil)
	errFile := filepath.Join(t.TempDir(), "err")

	status := in.RunLine("sh -c 'echo oops >&2' 2> " + errFile)
	assert.Equal(t, 0, status)
	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())

	data, err := os.ReadFile(errFile)
	require.NoError(t, err)
	assert.Equal(t, "oops\n", string(data))
}

func TestRedirectExternalStdout(t *testing.T) {
	in, _, _ := newTestInterp(nil)
	out := filepath.Join(t.TempDir(), "out")

	status := in.RunLine("sh -c 'echo from-child' 1> " + out)
	assert.Equal(t, 0, status)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "from-child\n", string(data))
}

func TestRedirectMissingTarget(t *testing.T) {
	in, _, stderr := newTestInterp(nil)

	status := in.RunLine("echo hi >")
	assert.Equal(t, 1, status)
	assert.Contains(t, stderr.String(), "missing redirection target")
}

func TestRunLineArgLimit(t *testing.T) {
	in, _, stderr := newTestInterp(nil)
	line := "echo " + strings.Repeat("x ", 100)

	status := in.RunLine(line)
	assert.Equal(t, 1, status)
	assert.Contains(t, stderr.String(), "too many arguments")
}
