package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const profileCacheTTL = 5 * time.Minute

// cachedDirectory fronts another Directory with a redis profile cache.
// Concurrent misses for the same user are collapsed through singleflight so a
// burst of lookups produces a single upstream query. Cache failures degrade
// to the upstream, never to an error.
type cachedDirectory struct {
	next   Directory
	rdb    *redis.Client
	group  singleflight.Group
	logger *zap.Logger
}

func NewCachedDirectory(next Directory, rdb *redis.Client, logger ...*zap.Logger) Directory {
	l := zap.L().Named("directory.cache")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("directory.cache")
	}
	return &cachedDirectory{next: next, rdb: rdb, logger: l}
}

func profileCacheKey(userID uuid.UUID) string {
	return fmt.Sprintf("directory:profile:%s", userID)
}

func (d *cachedDirectory) Resolve(ctx context.Context, userID uuid.UUID) (Profile, error) {
	key := profileCacheKey(userID)

	if raw, err := d.rdb.Get(ctx, key).Result(); err == nil {
		var p Profile
		if err := json.Unmarshal([]byte(raw), &p); err == nil {
			return p, nil
		}
		d.logger.Warn("corrupt cached profile, refetching", zap.String("user_id", userID.String()))
	}

	v, err, _ := d.group.Do(key, func() (any, error) {
		p, err := d.next.Resolve(ctx, userID)
		if err != nil {
			return Profile{}, err
		}

		if raw, err := json.Marshal(p); err == nil {
			if err := d.rdb.Set(ctx, key, raw, profileCacheTTL).Err(); err != nil {
				d.logger.Warn("profile cache write failed", zap.Error(err))
			}
		}
		return p, nil
	})
	if err != nil {
		return Profile{}, err
	}
	return v.(Profile), nil
}

func (d *cachedDirectory) ResolveMany(ctx context.Context, userIDs []uuid.UUID) ([]Profile, error) {
	// Batch lookups are rare (list enrichment); skip the cache.
	return d.next.ResolveMany(ctx, userIDs)
}

func (d *cachedDirectory) ListDepartment(ctx context.Context, department string) ([]uuid.UUID, error) {
	return d.next.ListDepartment(ctx, department)
}

func (d *cachedDirectory) FindDepartmentSuperUser(ctx context.Context, department string) (*Profile, error) {
	return d.next.FindDepartmentSuperUser(ctx, department)
}
