package roster

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/KatrinTsesko/birthday-bot/internal/domain"
)

var ErrSourceNotFound = errors.New("import file not found")

// Store owns the roster: an in-memory copy plus the primary file and
// its CSV export, which are rewritten together on every save.
type Store struct {
	mu         sync.Mutex
	path       string
	exportPath string
	codec      codec
	log        *zap.Logger
	roster     *domain.Roster
}

// Open loads the roster at path, creating an empty one if it does not exist yet.
func Open(path, exportPath string, log *zap.Logger) (*Store, error) {
	s := &Store{
		path:       path,
		exportPath: exportPath,
		codec:      codecFor(path),
		log:        log.With(zap.String("component", "roster")),
	}
	if _, err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load re-reads the primary file. A missing file yields an empty roster,
// which is persisted immediately.
func (s *Store) Load() (*domain.Roster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		r := domain.NewRoster()
		if err := s.persist(r); err != nil {
			return nil, err
		}
		s.roster = r
		s.log.Info("created empty roster", zap.String("path", s.path))
		return r.Clone(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	r, skipped, err := s.codec.decode(b)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	// Invalid entries stay in the file until the next save.
	for _, e := range skipped {
		s.log.Warn("skipping invalid roster entry", zap.String("path", s.path), zap.Error(e))
	}
	s.roster = r
	s.log.Info("roster loaded", zap.String("path", s.path), zap.Int("entries", r.Len()))
	return r.Clone(), nil
}

// Save replaces the roster and persists both representations.
func (s *Store) Save(r *domain.Roster) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := r.Clone()
	if err := s.persist(next); err != nil {
		return err
	}
	s.roster = next
	return nil
}

// Sync rewrites both files from the in-memory roster.
func (s *Store) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist(s.roster)
}

// Snapshot returns a copy safe to read without holding the store.
func (s *Store) Snapshot() *domain.Roster {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roster.Clone()
}

// Add validates and persists one entry. On any error the roster is unchanged.
func (s *Store) Add(name string, day, month int) (domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.roster.Clone()
	e, err := next.Add(name, day, month)
	if err != nil {
		return domain.Entry{}, err
	}
	if err := s.persist(next); err != nil {
		return domain.Entry{}, err
	}
	s.roster = next
	s.log.Info("entry added", zap.String("name", e.Name), zap.String("date", e.Date()))
	return e, nil
}

// Import merges the rows of the interchange file into the roster and
// returns how many rows were accepted.
func (s *Store) Import() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.exportPath)
	if errors.Is(err, os.ErrNotExist) {
		return 0, fmt.Errorf("%w: %s", ErrSourceNotFound, s.exportPath)
	}
	if err != nil {
		return 0, err
	}
	rows, err := decodeCSV(f)
	_ = f.Close()
	if err != nil {
		return 0, err
	}

	next := s.roster.Clone()
	for _, row := range rows {
		if _, err := next.Set(row.name, row.date); err != nil {
			return 0, err
		}
	}
	if err := s.persist(next); err != nil {
		return 0, err
	}
	s.roster = next
	s.log.Info("roster imported", zap.Int("imported", len(rows)), zap.Int("entries", next.Len()))
	return len(rows), nil
}

// persist writes the primary file, then regenerates the CSV export.
// Callers hold s.mu.
func (s *Store) persist(r *domain.Roster) error {
	primary, err := s.codec.encode(r)
	if err != nil {
		return fmt.Errorf("encode roster: %w", err)
	}
	export, err := encodeCSV(r)
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	if err := writeFileAtomic(s.path, primary); err != nil {
		return fmt.Errorf("write roster: %w", err)
	}
	if err := writeFileAtomic(s.exportPath, export); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// writeFileAtomic writes to a temp file in the same directory and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
