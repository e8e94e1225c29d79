package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

// ErrCorrupt marks a collection whose backing file exists but cannot be
// decoded. Callers must treat this differently from an absent collection:
// overwriting a corrupt file would discard prior data.
var ErrCorrupt = errors.New("corrupt collection")

// Store is a collection-oriented key-value store. Load and Save move whole
// collections; Update runs a load-mutate-save cycle while holding the
// collection's lock, which is the only safe way to do a read-modify-write.
type Store interface {
	Load(collection string) (map[string]json.RawMessage, error)
	Save(collection string, records map[string]json.RawMessage) error
	Update(collection string, fn func(records map[string]json.RawMessage) error) error
}

// FileStore keeps one JSON object file per collection under a directory.
// A missing file reads as an empty collection.
type FileStore struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &FileStore{
		dir:   dir,
		locks: make(map[string]*sync.Mutex),
	}, nil
}

func (fs *FileStore) collectionLock(collection string) *sync.Mutex {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	l, ok := fs.locks[collection]
	if !ok {
		l = &sync.Mutex{}
		fs.locks[collection] = l
	}
	return l
}

func (fs *FileStore) path(collection string) string {
	return filepath.Join(fs.dir, collection+".json")
}

func (fs *FileStore) Load(collection string) (map[string]json.RawMessage, error) {
	l := fs.collectionLock(collection)
	l.Lock()
	defer l.Unlock()
	return fs.load(collection)
}

func (fs *FileStore) Save(collection string, records map[string]json.RawMessage) error {
	l := fs.collectionLock(collection)
	l.Lock()
	defer l.Unlock()
	return fs.save(collection, records)
}

// Update holds the collection lock for the whole load-mutate-save cycle.
func (fs *FileStore) Update(collection string, fn func(records map[string]json.RawMessage) error) error {
	l := fs.collectionLock(collection)
	l.Lock()
	defer l.Unlock()

	records, err := fs.load(collection)
	if err != nil {
		return err
	}
	if err := fn(records); err != nil {
		return err
	}
	return fs.save(collection, records)
}

func (fs *FileStore) load(collection string) (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(fs.path(collection))
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]json.RawMessage), nil
		}
		return nil, fmt.Errorf("failed to read collection %s: %w", collection, err)
	}

	var records map[string]json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, collection, err)
	}
	if records == nil {
		records = make(map[string]json.RawMessage)
	}
	return records, nil
}

func (fs *FileStore) save(collection string, records map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal collection %s: %w", collection, err)
	}

	perm := os.FileMode(0644)
	if runtime.GOOS == "windows" {
		perm = 0666
	}

	if err := os.WriteFile(fs.path(collection), data, perm); err != nil {
		return fmt.Errorf("failed to write collection %s: %w", collection, err)
	}
	return nil
}
