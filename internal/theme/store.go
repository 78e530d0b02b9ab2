package theme

import (
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/fleetdeck/fleetdeck/internal/logger"
)

// storageFile is the persisted selection, a one-key yaml document.
type storageFile struct {
	Theme string `yaml:"theme"`
}

// Store holds the current theme and notifies subscribers when it
// changes. It is constructed once at startup and passed to consumers
// explicitly; the persistence file lives under the user config dir.
type Store struct {
	mu      sync.Mutex
	current ID
	path    string
	log     logger.Logger
	subs    map[int]func(ID)
	nextID  int
}

// DefaultPath returns the default persistence path
// (~/.config/fleetdeck/theme.yaml). Falls back to the working directory
// when the home dir cannot be resolved.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "theme.yaml"
	}
	return filepath.Join(home, ".config", "fleetdeck", "theme.yaml")
}

// NewStore loads the persisted selection from path. A missing file or
// an unrecognized stored value silently falls back to Default rather
// than failing startup.
func NewStore(path string, log logger.Logger) *Store {
	if log == nil {
		log = logger.Noop()
	}
	s := &Store{
		current: Default,
		path:    path,
		log:     log,
		subs:    make(map[int]func(ID)),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("theme store unreadable: %v", err)
		}
		return s
	}

	var file storageFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		log.Warn("theme store corrupt, using default: %v", err)
		return s
	}

	id, err := Parse(file.Theme)
	if err != nil {
		// Unrecognized stored value: ignore it, keep the default.
		log.Warn("ignoring stored theme %q", file.Theme)
		return s
	}
	s.current = id
	return s
}

// Current returns the active theme.
func (s *Store) Current() ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Palette returns the active theme's palette.
func (s *Store) Palette() Palette {
	return PaletteFor(s.Current())
}

// Set validates raw, persists it, and notifies subscribers. Unknown
// values are rejected without touching the current selection.
func (s *Store) Set(raw string) error {
	id, err := Parse(raw)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if id == s.current {
		s.mu.Unlock()
		return nil
	}
	s.current = id
	subs := make([]func(ID), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	if err := s.persist(id); err != nil {
		s.log.Warn("theme not persisted: %v", err)
	}
	for _, fn := range subs {
		fn(id)
	}
	return nil
}

// Subscribe registers fn for change notification and returns an
// unsubscribe func. After unsubscribe returns, fn is never called again.
func (s *Store) Subscribe(fn func(ID)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// persist writes the selection to the storage file.
func (s *Store) persist(id ID) error {
	data, err := yaml.Marshal(storageFile{Theme: string(id)})
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, data, 0o644)
}
