package persistence

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/talgya/citysim/internal/engine"
)

const (
	extJSON = ".json"
	extZstd = ".json.zst"
)

// FileStore keeps named save slots as snapshot files in one directory.
type FileStore struct {
	Dir      string
	Compress bool // Write zstd-compressed slots
}

// NewFileStore creates a store rooted at dir. The directory is created on
// the first save.
func NewFileStore(dir string, compress bool) *FileStore {
	return &FileStore{Dir: dir, Compress: compress}
}

func validSlotName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid save name %q", name)
	}
	return nil
}

// Path returns the file a save under name is written to.
func (s *FileStore) Path(name string) string {
	if s.Compress {
		return filepath.Join(s.Dir, name+extZstd)
	}
	return filepath.Join(s.Dir, name+extJSON)
}

// Save writes the city under name and returns the file path. A slot written
// in the other format is removed so that Load cannot pick up stale data.
func (s *FileStore) Save(name string, city *engine.City) (string, error) {
	if err := validSlotName(name); err != nil {
		return "", err
	}
	data, err := Encode(city)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", name, err)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}

	path := s.Path(name)
	tmp := path + ".tmp"
	if err := writeSlot(tmp, data, s.Compress); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", err
	}

	stale := filepath.Join(s.Dir, name+extJSON)
	if !s.Compress {
		stale = filepath.Join(s.Dir, name+extZstd)
	}
	if err := os.Remove(stale); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not remove stale save", "path", stale, "error", err)
	}

	slog.Info("game saved", "city", city.Name, "path", path, "turn", city.Turn)
	return path, nil
}

func writeSlot(path string, data []byte, compress bool) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if !compress {
		if _, err := f.Write(data); err != nil {
			return err
		}
		return f.Close()
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return f.Close()
}

// Load reads the slot saved under name, plain or compressed. A missing slot
// is ErrSnapshotNotFound; anything unreadable is ErrSnapshotCorrupt.
func (s *FileStore) Load(name string) (*engine.City, error) {
	if err := validSlotName(name); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotNotFound, err)
	}

	for _, ext := range []string{extJSON, extZstd} {
		path := filepath.Join(s.Dir, name+ext)
		data, err := readSlot(path, ext == extZstd)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrSnapshotCorrupt, path, err)
		}
		city, err := Decode(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		slog.Info("game loaded", "city", city.Name, "path", path, "turn", city.Turn)
		return city, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, filepath.Join(s.Dir, name+extJSON))
}

func readSlot(path string, compressed bool) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if !compressed {
		return io.ReadAll(f)
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return io.ReadAll(dec)
}

// List returns the saved slot names in sorted order. A missing directory
// holds no saves.
func (s *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		var name string
		switch n := e.Name(); {
		case strings.HasSuffix(n, extZstd):
			name = strings.TrimSuffix(n, extZstd)
		case strings.HasSuffix(n, extJSON):
			name = strings.TrimSuffix(n, extJSON)
		default:
			continue
		}
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
