package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSaveCreatesDirectories(t *testing.T) {
	base := filepath.Join(t.TempDir(), "exports")
	store := NewLocal(base)

	path, err := store.Save(filepath.Join("2024", "grades.csv"), []byte("id\n1\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "2024", "grades.csv"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id\n1\n", string(raw))
}

func TestLocalPathKeepsAbsoluteNames(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "fees.pdf")
	store := NewLocal("ignored")
	assert.Equal(t, abs, store.Path(abs))
	assert.Equal(t, filepath.Join(".", "fees.pdf"), NewLocal("").Path("fees.pdf"))
}
