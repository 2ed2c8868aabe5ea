package storage

import (
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
)

// Option tunes a BunStore.
type Option func(*storeOptions)

type storeOptions struct {
	cache     bool
	cacheCfg  cache.Config
	keyPrefix string
}

// WithCache puts a read cache in front of the state repository. Without cfg
// the cache defaults apply. Writes go through the decorator and invalidate it.
func WithCache(cfg ...cache.Config) Option {
	return func(opts *storeOptions) {
		opts.cache = true
		opts.cacheCfg = cache.DefaultConfig()
		if len(cfg) > 0 {
			opts.cacheCfg = cfg[0]
		}
	}
}

// WithKeyPrefix scopes every state key, so several owners (users, tenants)
// can keep separate pinning and view state for the same table.
func WithKeyPrefix(prefix string) Option {
	return func(opts *storeOptions) {
		opts.keyPrefix = strings.TrimSpace(prefix)
	}
}

func collectOptions(options []Option) storeOptions {
	var opts storeOptions
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}
	return opts
}

// decorate wraps repo with the cache unless caching is off or repo is
// already cached.
func (o storeOptions) decorate(repo repository.Repository[*StateRecord]) (repository.Repository[*StateRecord], error) {
	if !o.cache {
		return repo, nil
	}
	if _, cached := repo.(*repositorycache.CachedRepository[*StateRecord]); cached {
		return repo, nil
	}
	service, err := cache.NewCacheService(o.cacheCfg)
	if err != nil {
		return nil, err
	}
	return repositorycache.New(repo, service, cache.NewDefaultKeySerializer()), nil
}

func (o storeOptions) scoped(key string) string {
	key = strings.TrimSpace(key)
	if o.keyPrefix == "" {
		return key
	}
	return o.keyPrefix + ":" + key
}
