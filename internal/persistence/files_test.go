package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/citysim/internal/engine"
	"github.com/talgya/citysim/internal/world"
)

func TestFileStoreSaveLoad(t *testing.T) {
	for _, compress := range []bool{false, true} {
		name := "plain"
		if compress {
			name = "zstd"
		}
		t.Run(name, func(t *testing.T) {
			store := NewFileStore(filepath.Join(t.TempDir(), "saves"), compress)
			c := builtCity(t)

			path, err := store.Save("slot1", c)
			require.NoError(t, err)
			assert.Equal(t, store.Path("slot1"), path)
			assert.FileExists(t, path)
			assert.NoFileExists(t, path+".tmp")

			got, err := store.Load("slot1")
			require.NoError(t, err)
			assertSameCity(t, c, got)
		})
	}
}

func TestFileStoreCompressedIsSmaller(t *testing.T) {
	dir := t.TempDir()
	c := builtCity(t)

	plain, err := NewFileStore(dir, false).Save("a", c)
	require.NoError(t, err)
	packed, err := NewFileStore(dir, true).Save("b", c)
	require.NoError(t, err)

	pi, err := os.Stat(plain)
	require.NoError(t, err)
	zi, err := os.Stat(packed)
	require.NoError(t, err)
	assert.Less(t, zi.Size(), pi.Size())
	assert.Equal(t, ".zst", filepath.Ext(packed))
}

func TestFileStoreSwitchingFormatRemovesStaleSlot(t *testing.T) {
	dir := t.TempDir()
	c := engine.NewCity("Switch", 4)

	_, err := NewFileStore(dir, false).Save("slot", c)
	require.NoError(t, err)

	require.NoError(t, c.Build(1, 1, world.CodePark))
	zpath, err := NewFileStore(dir, true).Save("slot", c)
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(dir, "slot.json"))
	assert.FileExists(t, zpath)

	// Either store finds the compressed slot.
	got, err := NewFileStore(dir, false).Load("slot")
	require.NoError(t, err)
	assert.Equal(t, world.CodePark, got.Grid.Get(world.C(1, 1)))
}

func TestFileStoreLoadErrors(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, false)

	_, err := store.Load("missing")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	_, err = store.Load("../escape")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{\"name\": "), 0o644))
	_, err = store.Load("broken")
	assert.ErrorIs(t, err, ErrSnapshotCorrupt)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "garbled.json.zst"), []byte("not zstd at all"), 0o644))
	_, err = store.Load("garbled")
	assert.ErrorIs(t, err, ErrSnapshotCorrupt)
}

func TestFileStoreSaveRejectsBadNames(t *testing.T) {
	store := NewFileStore(t.TempDir(), false)
	c := engine.NewCity("Names", 3)

	for _, name := range []string{"", ".", "..", "a/b", `a\b`} {
		_, err := store.Save(name, c)
		assert.Error(t, err, name)
	}
}

func TestFileStoreList(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "saves"), false)

	names, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	c := engine.NewCity("Listed", 3)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := store.Save(name, c)
		require.NoError(t, err)
	}
	_, err = NewFileStore(store.Dir, true).Save("packed", c)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(store.Dir, "old.json"), 0o755))

	names, err = store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "packed", "zeta"}, names)
}
