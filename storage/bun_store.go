package storage

import (
	"context"
	"errors"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-tableview/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var keyNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/goliatone/go-tableview/state"))

// KeyID returns the deterministic row ID of a store key, after any
// WithKeyPrefix scoping.
func KeyID(key string) uuid.UUID {
	return uuid.NewSHA1(keyNamespace, []byte(strings.TrimSpace(key)))
}

// BunStoreConfig wires dependencies for the Bun backed store.
type BunStoreConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*StateRecord]
	Clock      types.Clock
}

type stateRepository interface {
	repository.Repository[*StateRecord]
}

// BunStore persists view state as JSON documents keyed by store key. Every
// write bumps the row version.
type BunStore struct {
	stateRepository
	clock   types.Clock
	options storeOptions
}

// NewBunStore constructs the store from a DB or an existing repository.
func NewBunStore(cfg BunStoreConfig, opts ...Option) (*BunStore, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("storage: db or repository required")
	}
	repo := cfg.Repository
	if repo == nil {
		repo = NewStateRepository(cfg.DB)
	}
	options := collectOptions(opts)
	repo, err := options.decorate(repo)
	if err != nil {
		return nil, err
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	return &BunStore{stateRepository: repo, clock: clock, options: options}, nil
}

// NewStateRepository builds the base repository for StateRecord.
func NewStateRepository(db *bun.DB) repository.Repository[*StateRecord] {
	return repository.NewRepository(db, repository.ModelHandlers[*StateRecord]{
		NewRecord: func() *StateRecord { return &StateRecord{} },
		GetID: func(rec *StateRecord) uuid.UUID {
			if rec == nil {
				return uuid.Nil
			}
			return rec.ID
		},
		SetID: func(rec *StateRecord, id uuid.UUID) {
			if rec != nil {
				rec.ID = id
			}
		},
	})
}

var _ types.Store = (*BunStore)(nil)

// Get implements types.Store.
func (s *BunStore) Get(ctx context.Context, key string) (map[string]any, bool, error) {
	record, err := s.find(ctx, key)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return deepCopy(record.Value), true, nil
}

// Set implements types.Store.
func (s *BunStore) Set(ctx context.Context, key string, value map[string]any) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("storage: key required")
	}
	now := s.clock.Now()
	existing, err := s.find(ctx, key)
	switch {
	case err == nil && existing != nil:
		existing.Value = deepCopy(value)
		existing.Version++
		existing.UpdatedAt = now
		_, err = s.Update(ctx, existing)
		return err
	case repository.IsRecordNotFound(err):
		_, err = s.Create(ctx, &StateRecord{
			ID:        KeyID(s.options.scoped(key)),
			Key:       s.options.scoped(key),
			Value:     deepCopy(value),
			Version:   1,
			CreatedAt: now,
			UpdatedAt: now,
		})
		return err
	default:
		return err
	}
}

// Delete implements types.Store. Missing keys are not an error.
func (s *BunStore) Delete(ctx context.Context, key string) error {
	existing, err := s.find(ctx, key)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil
		}
		return err
	}
	return s.stateRepository.Delete(ctx, existing)
}

// Version returns the write count of a key, or zero when it is absent.
func (s *BunStore) Version(ctx context.Context, key string) (int, error) {
	record, err := s.find(ctx, key)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return 0, nil
		}
		return 0, err
	}
	return record.Version, nil
}

func (s *BunStore) find(ctx context.Context, key string) (*StateRecord, error) {
	record, err := s.GetByID(ctx, KeyID(s.options.scoped(key)).String())
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, repository.NewRecordNotFound()
	}
	return record, nil
}
