package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return fs
}

func TestLoadMissingCollectionIsEmpty(t *testing.T) {
	fs := newTestStore(t)

	records, err := fs.Load("drafts")
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NotNil(t, records)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	fs := newTestStore(t)

	records := map[string]json.RawMessage{
		"a": json.RawMessage(`{"n":1}`),
		"b": json.RawMessage(`"text"`),
	}
	require.NoError(t, fs.Save("drafts", records))

	loaded, err := fs.Load("drafts")
	require.NoError(t, err)
	assert.Equal(t, records, loaded)
}

func TestLoadCorruptFileReturnsErrCorrupt(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "drafts.json"), []byte("{not json"), 0644))

	_, err = fs.Load("drafts")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestUpdateMutatesAndPersists(t *testing.T) {
	fs := newTestStore(t)

	err := fs.Update("drafts", func(records map[string]json.RawMessage) error {
		records["x"] = json.RawMessage(`1`)
		return nil
	})
	require.NoError(t, err)

	loaded, err := fs.Load("drafts")
	require.NoError(t, err)
	assert.Contains(t, loaded, "x")
}

func TestConcurrentUpdatesDoNotLoseWrites(t *testing.T) {
	fs := newTestStore(t)

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			err := fs.Update("counts", func(records map[string]json.RawMessage) error {
				key := string(rune('a' + n))
				records[key] = json.RawMessage(`true`)
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	loaded, err := fs.Load("counts")
	require.NoError(t, err)
	assert.Len(t, loaded, writers)
}

func TestCollectionsAreIndependent(t *testing.T) {
	fs := newTestStore(t)

	require.NoError(t, fs.Save("drafts", map[string]json.RawMessage{"d": json.RawMessage(`1`)}))
	require.NoError(t, fs.Save("reviews", map[string]json.RawMessage{"r": json.RawMessage(`2`)}))

	drafts, err := fs.Load("drafts")
	require.NoError(t, err)
	reviews, err := fs.Load("reviews")
	require.NoError(t, err)

	assert.Contains(t, drafts, "d")
	assert.NotContains(t, drafts, "r")
	assert.Contains(t, reviews, "r")
}
