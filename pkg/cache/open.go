package cache

import (
	"context"

	lperrors "github.com/matzehuels/letterpress/pkg/errors"
)

// Options selects and configures a backend for [Open].
type Options struct {
	Backend       string
	Dir           string
	RedisAddr     string
	MongoURI      string
	MongoDatabase string
}

// Open creates the cache named by opts.Backend.
func Open(ctx context.Context, opts Options) (Cache, error) {
	if err := lperrors.ValidateCacheBackend(opts.Backend); err != nil {
		return nil, err
	}

	switch opts.Backend {
	case lperrors.BackendNone:
		return NewNullCache(), nil
	case lperrors.BackendRedis:
		c, err := NewRedisCache(ctx, opts.RedisAddr)
		if err != nil {
			return nil, lperrors.Wrap(lperrors.ErrCodeNetwork, err, "cannot connect to redis")
		}
		return c, nil
	case lperrors.BackendMongo:
		c, err := NewMongoCache(ctx, opts.MongoURI, opts.MongoDatabase)
		if err != nil {
			return nil, lperrors.Wrap(lperrors.ErrCodeNetwork, err, "cannot connect to mongodb")
		}
		return c, nil
	default:
		dir := opts.Dir
		if dir == "" {
			d, err := DefaultDir()
			if err != nil {
				return nil, lperrors.Wrap(lperrors.ErrCodeInternal, err, "cannot locate cache directory")
			}
			dir = d
		}
		c, err := NewFileCache(dir)
		if err != nil {
			return nil, lperrors.Wrap(lperrors.ErrCodeInternal, err, "cannot create cache directory")
		}
		return c, nil
	}
}
