package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/wricardo/mcp-training/gridworld/game/engine"
)

// FileStore keeps one <id>.json file per game in a directory.
type FileStore struct {
	dir string

	mu     sync.Mutex
	lastID int64
}

// NewFileStore creates a file-backed store rooted at dir
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Init creates the directory and picks up the highest existing id
func (s *FileStore) Init(context.Context) error {
	if s.dir == "" {
		return fmt.Errorf("file store directory is required")
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create games directory: %w", err)
	}

	ids, err := s.ids()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(ids); n > 0 && ids[n-1] > s.lastID {
		s.lastID = ids[n-1]
	}
	return nil
}

func (s *FileStore) path(id int64) string {
	return filepath.Join(s.dir, strconv.FormatInt(id, 10)+".json")
}

// ids returns the ids of every game file, ascending
func (s *FileStore) ids() ([]int64, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read games directory: %w", err)
	}

	var ids []int64
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSuffix(name, ".json"), 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *FileStore) List(ctx context.Context) ([]Entry, error) {
	ids, err := s.ids()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		game, ok, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			entries = append(entries, Entry{ID: id, Game: game})
		}
	}
	return entries, nil
}

func (s *FileStore) Get(_ context.Context, id int64) (*engine.Game, bool, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read game file: %w", err)
	}
	game, err := DecodeGame(data)
	if err != nil {
		return nil, false, fmt.Errorf("game %d: %w", id, err)
	}
	return game, true, nil
}

func (s *FileStore) Create(_ context.Context, game *engine.Game) (int64, error) {
	data, err := EncodeGame(game)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.lastID + 1
	if err := s.write(id, data); err != nil {
		return 0, err
	}
	s.lastID = id
	return id, nil
}

func (s *FileStore) Update(_ context.Context, id int64, game *engine.Game) (bool, error) {
	data, err := EncodeGame(game)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := os.Stat(s.path(id)); os.IsNotExist(err) {
		return false, nil
	}
	if err := s.write(id, data); err != nil {
		return false, err
	}
	return true, nil
}

// write replaces the game file through a temp file and a rename
func (s *FileStore) write(id int64, data []byte) error {
	tmp := s.path(id) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write game file: %w", err)
	}
	if err := os.Rename(tmp, s.path(id)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace game file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to remove game file: %w", err)
	}
	return true, nil
}

func (s *FileStore) Close() error { return nil }
