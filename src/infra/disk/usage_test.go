package disk

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProbe_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	probe, err := NewProbe("~")
	require.NoError(t, err)
	assert.Equal(t, home, probe.Path())

	probe, err = NewProbe("~/Pictures")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Pictures"), probe.Path())
}

func TestFreeBytes(t *testing.T) {
	probe, err := NewProbe(t.TempDir())
	require.NoError(t, err)

	free, err := probe.FreeBytes(context.Background())
	require.NoError(t, err)
	assert.Greater(t, free, uint64(0))
}
