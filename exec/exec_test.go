package exec_test

import (
	"testing"

	"github.com/byte4ever/gibr/exec"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEx_success(t *testing.T) {
	t.Parallel()

	out, err := exec.Ex("", "echo", "hello")

	require.NoError(t, err)
	assert.Contains(t, out, "hello")
}

func TestEx_with_dir(t *testing.T) {
	t.Parallel()

	out, err := exec.Ex("/tmp", "pwd")

	require.NoError(t, err)
	assert.Contains(t, out, "/tmp")
}

func TestEx_failure(t *testing.T) {
	t.Parallel()

	_, err := exec.Ex("", "false")

	assert.Error(t, err)
}

func TestOut_trims(t *testing.T) {
	t.Parallel()

	out, err := exec.Out("", "echo", "hello")

	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestOut_failure(t *testing.T) {
	t.Parallel()

	out, err := exec.Out("", "false")

	assert.Error(t, err)
	assert.Empty(t, out)
}
