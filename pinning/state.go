package pinning

import (
	"context"
	"time"

	"github.com/goliatone/go-tableview/pkg/types"
)

// StateKey returns the persistence key of a table's pinning state.
func StateKey(tableID string) string {
	return "table-pinning-" + tableID
}

// Preferences is the last saved pin arrangement. It is a derived cache of
// the table handle, never the source of truth.
type Preferences struct {
	PinnedColumns []string      `json:"pinnedColumns"`
	PinnedRows    []string      `json:"pinnedRows"`
	Columns       ColumnPinning `json:"columns"`
	Rows          RowPinning    `json:"rows"`
	LastUpdated   time.Time     `json:"lastUpdated"`
}

func (p *Preferences) clone() *Preferences {
	if p == nil {
		return nil
	}
	out := *p
	out.PinnedColumns = cloneIDs(p.PinnedColumns)
	out.PinnedRows = cloneIDs(p.PinnedRows)
	out.Columns = p.Columns.Clone()
	out.Rows = p.Rows.Clone()
	return &out
}

// State is the persisted pinning container of one table.
type State struct {
	Settings        Settings     `json:"settings"`
	UserPreferences *Preferences `json:"userPreferences,omitempty"`
}

// Clone returns a detached copy.
func (s State) Clone() State {
	return State{Settings: s.Settings, UserPreferences: s.UserPreferences.clone()}
}

func snapshot(cols ColumnPinning, rows RowPinning, now time.Time) *Preferences {
	return &Preferences{
		PinnedColumns: cols.All(),
		PinnedRows:    rows.All(),
		Columns:       cols.Clone(),
		Rows:          rows.Clone(),
		LastUpdated:   now,
	}
}

// StateStore reads and writes a table's pinning state through a types.Store.
// The value is always written as a whole.
type StateStore struct {
	store  types.Store
	key    string
	logger types.Logger
}

// NewStateStore binds the store to a table. A nil store keeps state in
// memory only.
func NewStateStore(store types.Store, tableID string, logger types.Logger) *StateStore {
	if logger == nil {
		logger = types.NopLogger{}
	}
	return &StateStore{store: store, key: StateKey(tableID), logger: logger}
}

// Key returns the persistence key.
func (s *StateStore) Key() string { return s.key }

// Load returns the persisted state and whether a usable value was found.
// Missing or malformed values yield the defaults; only store failures are
// returned as errors.
func (s *StateStore) Load(ctx context.Context) (State, bool, error) {
	state := State{Settings: DefaultSettings()}
	if s.store == nil {
		return state, false, nil
	}
	raw, ok, err := s.store.Get(ctx, s.key)
	if err != nil {
		return state, false, err
	}
	if !ok || len(raw) == 0 {
		return state, false, nil
	}
	decoded := State{Settings: DefaultSettings()}
	if err := types.DecodeStoreValue(raw, &decoded); err != nil {
		s.logger.Warn("pinning state malformed, using defaults", "key", s.key, "error", err)
		return state, false, nil
	}
	decoded.Settings = decoded.Settings.normalized()
	if decoded.UserPreferences != nil {
		decoded.UserPreferences = decoded.UserPreferences.clone()
	}
	return decoded, true, nil
}

// Save writes the state.
func (s *StateStore) Save(ctx context.Context, state State) error {
	if s.store == nil {
		return nil
	}
	value, err := types.EncodeStoreValue(state)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, s.key, value)
}
