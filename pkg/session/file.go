package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/deiva0304/BUDS-Crochet/pkg/errors"
	"github.com/deiva0304/BUDS-Crochet/pkg/pattern"
)

// Saved is the on-disk form of an editing session: the actions that rebuild
// its pattern.
type Saved struct {
	Name    string           `json:"name"`
	Actions []pattern.Action `json:"actions"`
	SavedAt time.Time        `json:"saved_at"`
}

// FileStore saves editing sessions as JSON files in a config directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based session store.
// If baseDir is empty, defaults to ~/.config/crochet/sessions/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "crochet", "sessions")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) sessionPath(name string) string {
	return filepath.Join(s.baseDir, name+".json")
}

// Save writes the undoable history of p under name.
func (s *FileStore) Save(ctx context.Context, name string, p *pattern.Pattern) error {
	if err := errors.ValidateSessionID(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(Saved{
		Name:    name,
		Actions: p.History(),
		SavedAt: time.Now().UTC(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(s.sessionPath(name), data, 0600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Load reads the session saved under name and replays it onto p, which
// should be empty. It fails with SESSION_NOT_FOUND if nothing was saved.
func (s *FileStore) Load(ctx context.Context, name string, p *pattern.Pattern) (*Saved, error) {
	if err := errors.ValidateSessionID(name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	data, err := os.ReadFile(s.sessionPath(name))
	s.mu.RUnlock()
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "no saved session %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var saved Saved
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse session %q", name)
	}
	if err := p.Replay(ctx, saved.Actions); err != nil {
		return nil, fmt.Errorf("replay session %q: %w", name, err)
	}
	return &saved, nil
}

// Delete removes a saved session. Deleting a missing session is not an error.
func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := errors.ValidateSessionID(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.sessionPath(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// List returns the names of saved sessions in alphabetical order.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read session dir: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	slices.Sort(names)
	return names, nil
}

// Path returns the base directory for session files.
func (s *FileStore) Path() string {
	return s.baseDir
}
