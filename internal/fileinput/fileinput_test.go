package fileinput

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadReturnsNameAndText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.rorth")
	require.NoError(t, os.WriteFile(path, []byte("1 2 + .\n"), 0o644))

	src, err := Read(path)
	require.NoError(t, err)
	require.Equal(t, path, src.Name)
	require.Equal(t, "1 2 + .\n", src.Text)
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.rorth"))
	require.Error(t, err)
}
