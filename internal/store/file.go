package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// FileStore keeps all keys in one TOML file. Every write rewrites the whole
// file through a temp file and rename, so readers never observe a partial update.
type FileStore struct {
	path string
	mu   sync.Mutex
}

type fileState struct {
	Values map[string]string `toml:"values"`
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := state.Values[key]
	return v, ok, nil
}

func (f *FileStore) Set(ctx context.Context, key, value string) error {
	return f.SetMany(ctx, map[string]string{key: value})
}

func (f *FileStore) SetMany(ctx context.Context, values map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.load()
	if err != nil {
		return err
	}
	for k, v := range values {
		state.Values[k] = v
	}
	return f.save(state)
}

func (f *FileStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := state.Values[key]; !ok {
		return nil
	}
	delete(state.Values, key)
	return f.save(state)
}

func (f *FileStore) Close() error {
	return nil
}

func (f *FileStore) load() (*fileState, error) {
	state := &fileState{}
	if _, err := os.Stat(f.path); os.IsNotExist(err) {
		state.Values = make(map[string]string)
		return state, nil
	}

	if _, err := toml.DecodeFile(f.path, state); err != nil {
		// an unreadable file would otherwise block every later write
		aside := f.path + ".corrupt"
		if rerr := os.Rename(f.path, aside); rerr != nil {
			return nil, fmt.Errorf("error decoding state file: %w", err)
		}
		log.Warn("state file is corrupt, starting from empty state", "path", f.path, "moved_to", aside, "err", err)
		state = &fileState{}
	}
	if state.Values == nil {
		state.Values = make(map[string]string)
	}
	return state, nil
}

func (f *FileStore) save(state *fileState) error {
	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".state-*.toml")
	if err != nil {
		return fmt.Errorf("error creating temp state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(state); err != nil {
		tmp.Close()
		return fmt.Errorf("error encoding state: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("error syncing state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error writing state: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("error replacing state file: %w", err)
	}
	return nil
}
