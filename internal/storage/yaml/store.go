package yaml

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/all-dot-files/wifiprov/internal/models"
	"github.com/all-dot-files/wifiprov/internal/storage"
	"github.com/all-dot-files/wifiprov/pkg/fileio"
)

// history is the on-disk document
type history struct {
	Runs []models.Run `yaml:"runs"`
}

// Store implements storage.Store for YAML file
type Store struct {
	path string
	mu   sync.RWMutex
}

// NewStore creates a new YAML store
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.save(&history{Runs: []models.Run{}}); err != nil {
			return nil, fmt.Errorf("failed to create history file: %w", err)
		}
	}
	return s, nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) Runs() storage.RunStore {
	return &runStore{s}
}

func (s *Store) load() (*history, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	var h history
	if err := yaml.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("failed to parse history: %w", err)
	}
	if h.Runs == nil {
		h.Runs = []models.Run{}
	}
	return &h, nil
}

func (s *Store) save(h *history) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := yaml.Marshal(h)
	if err != nil {
		return err
	}

	return fileio.WriteFile(s.path, data, 0600)
}

// --- RunStore ---

type runStore struct {
	s *Store
}

func (r *runStore) Add(ctx context.Context, run models.Run) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	h, err := r.s.load()
	if err != nil {
		return err
	}
	h.Runs = append(h.Runs, run)
	return r.s.save(h)
}

func (r *runStore) Get(ctx context.Context, id string) (*models.Run, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	h, err := r.s.load()
	if err != nil {
		return nil, err
	}
	for _, run := range h.Runs {
		if run.ID == id {
			return &run, nil
		}
	}
	return nil, fmt.Errorf("run not found: %s", id)
}

func (r *runStore) List(ctx context.Context, limit int) ([]models.Run, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	h, err := r.s.load()
	if err != nil {
		return nil, err
	}
	runs := newestFirst(h.Runs)
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func (r *runStore) Prune(ctx context.Context, keep int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	h, err := r.s.load()
	if err != nil {
		return err
	}
	if keep <= 0 || len(h.Runs) <= keep {
		return nil
	}
	runs := newestFirst(h.Runs)[:keep]
	// stored oldest first
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].StartedAt.Before(runs[j].StartedAt) })
	h.Runs = runs
	return r.s.save(h)
}

func newestFirst(runs []models.Run) []models.Run {
	out := append([]models.Run(nil), runs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out
}
