package interp

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineTwoStages(t *testing.T) {
	in, stdout, _ := newTestInterp(nil)

	status := in.RunLine("echo hello | cat")
	assert.Equal(t, 0, status)
	assert.Equal(t, "hello\n", stdout.String())
}

func TestPipelineThreeStages(t *testing.T) {
	in, stdout, _ := newTestInterp(nil)

	status := in.RunLine("echo one | cat | cat")
	assert.Equal(t, 0, status)
	assert.Equal(t, "one\n", stdout.String())
}

func TestPipelineExternalStages(t *testing.T) {
	in, stdout, _ := newTestInterp(nil)

	status := in.RunLine("sh -c 'echo b; echo a' | sort")
	assert.Equal(t, 0, status)
	assert.Equal(t, "a\nb\n", stdout.String())
}

func TestPipelineStatusIsLastStage(t *testing.T) {
	in, _, _ := newTestInterp(nil)

	// Failing middle stages don't decide the status; the last stage does.
	assert.Equal(t, 3, in.RunLine("echo x | sh -c 'exit 3'"))
	assert.Equal(t, 0, in.RunLine("sh -c 'exit 3' | cat"))
}

func TestPipelineNotFoundStage(t *testing.T) {
	t.Run("producer missing", func(t *testing.T) {
		in, stdout, _ := newTestInterp(nil)

		// The message flows through the stage's stdout, i.e. the pipe.
		status := in.RunLine("doesnotexist123 | cat")
		assert.Equal(t, 0, status)
		assert.Equal(t, "doesnotexist123: command not found\n", stdout.String())
	})

	t.Run("consumer missing", func(t *testing.T) {
		in, _, _ := newTestInterp(nil)

		status := in.RunLine("echo hi | doesnotexist123")
		assert.Equal(t, 1, status)
	})
}

func TestPipelineRedirectErrorStage(t *testing.T) {
	t.Run("producer dies alone", func(t *testing.T) {
		in, stdout, stderr := newTestInterp(nil)

		// Only the stage with the broken redirection is abandoned; the
		// other stage still runs and decides the status.
		status := in.RunLine("echo hi > | sh -c 'echo survivor'")
		assert.Equal(t, 0, status)
		assert.Equal(t, "survivor\n", stdout.String())
		assert.Contains(t, stderr.String(), "missing redirection target")
	})

	t.Run("consumer dies alone", func(t *testing.T) {
		in, _, stderr := newTestInterp(nil)

		status := in.RunLine("sh -c 'echo x' | cat >")
		assert.Equal(t, 1, status)
		assert.Contains(t, stderr.String(), "missing redirection target")
	})
}

// Two builtin stages run as concurrent goroutines; their writes to the
// interpreter's shared streams must interleave whole, never corrupt.
func TestPipelineConcurrentBuiltinStages(t *testing.T) {
	in, _, stderr := newTestInterp(nil)

	status := in.RunLine("type | type")
	assert.Equal(t, 1, status)
	assert.Equal(t, 2, strings.Count(stderr.String(), "type: missing argument\n"))
}

// A bounded consumer must finish even when its producer never stops: once
// the consumer exits and every copy of the pipe's write end is closed, the
// producer dies on a broken pipe instead of blocking the shell forever.
func TestPipelineBoundedConsumer(t *testing.T) {
	in, stdout, _ := newTestInterp(nil)

	status := in.RunLine("cat /dev/zero | head -c 16")
	assert.Equal(t, 0, status)
	assert.Len(t, stdout.Bytes(), 16)
}

func TestPipelineBuiltinLastStage(t *testing.T) {
	in, stdout, _ := newTestInterp(nil)

	status := in.RunLine("sh -c 'echo ignored' | echo done")
	assert.Equal(t, 0, status)
	assert.Equal(t, "done\n", stdout.String())
}

func TestPipelineExitStageDoesNotStopShell(t *testing.T) {
	in, _, _ := newTestInterp(nil)

	status := in.RunLine("echo a | exit 5")
	assert.Equal(t, 5, status)

	_, requested := in.TakeExitRequest()
	assert.False(t, requested, "exit inside a pipeline only ends its stage")
}

func TestPipelineStageRedirection(t *testing.T) {
	in, stdout, _ := newTestInterp(nil)
	out := filepath.Join(t.TempDir(), "f")

	status := in.RunLine("sh -c 'echo x' | cat > " + out)
	assert.Equal(t, 0, status)
	assert.Empty(t, stdout.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "x\n", string(data))
}

func TestPipelineStageLimit(t *testing.T) {
	in, _, stderr := newTestInterp(nil)
	in.cfg.MaxPipelineStages = 2

	status := in.RunLine("echo a | cat | cat")
	assert.Equal(t, 1, status)
	assert.Contains(t, stderr.String(), "too many pipeline stages")
}
