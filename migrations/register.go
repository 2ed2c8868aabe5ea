package migrations

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	tableview "github.com/goliatone/go-tableview"
)

// StateSource names the built in view state migrations.
const StateSource = "tableview_state"

// Dialects every source must provide migrations for. PostgreSQL files live at
// the source root and SQLite overrides under sqlite/.
var Dialects = []string{"postgres", "sqlite"}

var (
	ErrSourceNameRequired = errors.New("migrations: source name required")
	ErrSourceFSRequired   = errors.New("migrations: source filesystem required")
	ErrDuplicateSource    = errors.New("migrations: source already registered")
)

// Source is a named migration filesystem laid out for dialect aware runners.
type Source struct {
	Name string
	FS   fs.FS
}

var (
	mu    sync.RWMutex
	extra []Source
)

// StateFS returns the view state migrations rooted at their dialect layout.
func StateFS() (fs.FS, error) {
	return fs.Sub(tableview.GetMigrationsFS(), "data/sql/migrations")
}

// Register adds a host migration source that runs after the view state
// migrations, for example a table that joins against tableview_state.
func Register(name string, fsys fs.FS) error {
	if name == "" {
		return ErrSourceNameRequired
	}
	if fsys == nil {
		return ErrSourceFSRequired
	}
	if err := checkDialects(name, fsys); err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	if name == StateSource {
		return fmt.Errorf("%w: %s", ErrDuplicateSource, name)
	}
	for _, src := range extra {
		if src.Name == name {
			return fmt.Errorf("%w: %s", ErrDuplicateSource, name)
		}
	}
	extra = append(extra, Source{Name: name, FS: fsys})
	return nil
}

// Sources returns the view state source followed by host sources in
// registration order.
func Sources() ([]Source, error) {
	stateFS, err := StateFS()
	if err != nil {
		return nil, err
	}
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Source, 0, len(extra)+1)
	out = append(out, Source{Name: StateSource, FS: stateFS})
	return append(out, extra...), nil
}

// Filesystems returns the filesystems of Sources, ready to hand to a
// persistence client.
func Filesystems() []fs.FS {
	sources, err := Sources()
	if err != nil {
		return nil
	}
	out := make([]fs.FS, 0, len(sources))
	for _, src := range sources {
		out = append(out, src.FS)
	}
	return out
}

func checkDialects(name string, fsys fs.FS) error {
	for _, dialect := range Dialects {
		pattern := "*.up.sql"
		if dialect != "postgres" {
			pattern = dialect + "/*.up.sql"
		}
		matches, err := fs.Glob(fsys, pattern)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			return fmt.Errorf("migrations: source %s has no %s migrations", name, dialect)
		}
	}
	return nil
}
