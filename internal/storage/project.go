package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rivo/uniseg"

	"crossgrid/internal/clue"
	"crossgrid/internal/grid"
)

var (
	// ErrNotFound is returned when no project matches an id or name.
	ErrNotFound = errors.New("project not found")
	// ErrInvalidProject is returned for documents without a usable size
	// and grid.
	ErrInvalidProject = errors.New("invalid project data")
)

// Project is a named, saved puzzle.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Data      Data      `json:"data"`
}

// Data is the puzzle payload of a project. Numbers stored in Grid are not
// trusted; Document recomputes them through the caller.
type Data struct {
	Size  *grid.Size  `json:"size"`
	Grid  grid.Grid   `json:"grid"`
	Clues []clue.Clue `json:"clues"`
}

// NewProject returns a project with a fresh id and creation time.
func NewProject(name string, data Data) *Project {
	now := time.Now().UTC()
	return &Project{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
		Data:      data,
	}
}

// NewData builds a project payload. The clue list should already be
// limited to active words.
func NewData(size grid.Size, g grid.Grid, clues []clue.Clue) Data {
	return Data{Size: &size, Grid: g.Clone(), Clues: clues}
}

// Validate checks that d carries a size within bounds and a grid of that
// size.
func Validate(d Data) error {
	if d.Size == nil || d.Grid == nil {
		return fmt.Errorf("%w: missing size or grid", ErrInvalidProject)
	}
	if !d.Size.Valid() {
		return fmt.Errorf("%w: size %v out of range", ErrInvalidProject, *d.Size)
	}
	if !d.Grid.Fits(*d.Size) {
		return fmt.Errorf("%w: grid does not match size %v", ErrInvalidProject, *d.Size)
	}
	return nil
}

// Document validates d and returns its contents ready to install. Black
// squares lose any character and cells hold at most one grapheme.
func (d Data) Document() (grid.Size, grid.Grid, clue.Map, error) {
	if err := Validate(d); err != nil {
		return grid.Size{}, nil, nil, err
	}
	g := d.Grid.Clone()
	for r := range g {
		for c := range g[r] {
			cell := &g[r][c]
			if cell.IsBlack {
				cell.Char = ""
				continue
			}
			if cell.Char != "" {
				first, _, _, _ := uniseg.FirstGraphemeClusterInString(cell.Char, -1)
				cell.Char = first
			}
		}
	}
	return *d.Size, g, clue.Import(d.Clues), nil
}

// ProjectStore keeps each project as <id>.json inside one directory.
type ProjectStore struct {
	dir string
	log *slog.Logger
	now func() time.Time
}

// NewProjectStore returns a store rooted at dir. The directory is created
// on first save.
func NewProjectStore(dir string, log *slog.Logger) *ProjectStore {
	if log == nil {
		log = slog.Default()
	}
	return &ProjectStore{
		dir: dir,
		log: log,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Dir returns the directory holding the project files.
func (s *ProjectStore) Dir() string {
	return s.dir
}

// List returns all projects, most recently updated first. Files that
// cannot be read or parsed are skipped.
func (s *ProjectStore) List(ctx context.Context) ([]*Project, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading project directory %s: %w", s.dir, err)
	}

	var list []*Project
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, ".") {
			continue
		}
		p, err := s.readFile(filepath.Join(s.dir, name))
		if err != nil {
			s.log.Warn("skipping unreadable project", "file", name, "err", err)
			continue
		}
		if id := strings.TrimSuffix(name, ".json"); p.ID != id {
			s.log.Warn("project id does not match file name", "file", name, "id", p.ID)
		}
		list = append(list, p)
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].UpdatedAt.After(list[j].UpdatedAt)
	})
	return list, nil
}

// Save writes p, stamping its update time.
func (s *ProjectStore) Save(ctx context.Context, p *Project) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(p.ID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating project directory: %w", err)
	}

	saved := *p
	saved.UpdatedAt = s.now()
	data, err := json.MarshalIndent(&saved, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding project %s: %w", p.ID, err)
	}
	if err := writeFileAtomic(s.dir, path, data); err != nil {
		return fmt.Errorf("saving project %q: %w", p.Name, err)
	}
	p.UpdatedAt = saved.UpdatedAt
	s.log.Info("project saved", "id", p.ID, "name", p.Name)
	return nil
}

// Load reads the project with the given id.
func (s *ProjectStore) Load(ctx context.Context, id string) (*Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}
	p, err := s.readFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p, err
}

// Delete removes the project with the given id. A missing project is not
// an error.
func (s *ProjectStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting project %s: %w", id, err)
	}
	s.log.Info("project deleted", "id", id)
	return nil
}

// Find resolves ref as an id, a name (case-insensitive) or a unique id
// prefix, in that order.
func (s *ProjectStore) Find(ctx context.Context, ref string) (*Project, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty reference", ErrNotFound)
	}
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		if p.ID == ref {
			return p, nil
		}
	}
	for _, p := range list {
		if strings.EqualFold(p.Name, ref) {
			return p, nil
		}
	}
	var match *Project
	for _, p := range list {
		if strings.HasPrefix(p.ID, ref) {
			if match != nil {
				return nil, fmt.Errorf("%w: %q is ambiguous", ErrNotFound, ref)
			}
			match = p
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	return match, nil
}

func (s *ProjectStore) path(id string) (string, error) {
	if id == "" || strings.HasPrefix(id, ".") || filepath.Base(id) != id {
		return "", fmt.Errorf("%w: bad project id %q", ErrNotFound, id)
	}
	return filepath.Join(s.dir, id+".json"), nil
}

func (s *ProjectStore) readFile(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return &p, nil
}

func writeFileAtomic(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".tmp-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
