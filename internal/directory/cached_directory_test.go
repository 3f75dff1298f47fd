package directory_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"leaveflow/internal/directory"
)

type fakeUpstream struct {
	resolveCalls int
	resolveFn    func(ctx context.Context, userID uuid.UUID) (directory.Profile, error)
}

func (f *fakeUpstream) Resolve(ctx context.Context, userID uuid.UUID) (directory.Profile, error) {
	f.resolveCalls++
	if f.resolveFn != nil {
		return f.resolveFn(ctx, userID)
	}
	return directory.Profile{}, directory.ErrUserNotFound
}

func (f *fakeUpstream) ResolveMany(ctx context.Context, userIDs []uuid.UUID) ([]directory.Profile, error) {
	return nil, nil
}

func (f *fakeUpstream) ListDepartment(ctx context.Context, department string) ([]uuid.UUID, error) {
	return nil, nil
}

func (f *fakeUpstream) FindDepartmentSuperUser(ctx context.Context, department string) (*directory.Profile, error) {
	return nil, nil
}

func TestCachedDirectory_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips upstream", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		upstream := &fakeUpstream{}

		userID := uuid.New()
		cached := directory.Profile{ID: userID, FullName: "Dana Smith", Department: "Engineering"}
		raw, err := json.Marshal(cached)
		assert.NoError(t, err)
		redisMock.ExpectGet(fmt.Sprintf("directory:profile:%s", userID)).SetVal(string(raw))

		dir := directory.NewCachedDirectory(upstream, rdb)
		got, err := dir.Resolve(ctx, userID)

		assert.NoError(t, err)
		assert.Equal(t, cached, got)
		assert.Equal(t, 0, upstream.resolveCalls)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("cache miss falls through and populates", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		userID := uuid.New()
		fresh := directory.Profile{ID: userID, FullName: "Dana Smith", Department: "Engineering"}
		upstream := &fakeUpstream{
			resolveFn: func(ctx context.Context, id uuid.UUID) (directory.Profile, error) {
				assert.Equal(t, userID, id)
				return fresh, nil
			},
		}

		key := fmt.Sprintf("directory:profile:%s", userID)
		raw, err := json.Marshal(fresh)
		assert.NoError(t, err)
		redisMock.ExpectGet(key).RedisNil()
		redisMock.ExpectSet(key, raw, 5*time.Minute).SetVal("OK")

		dir := directory.NewCachedDirectory(upstream, rdb)
		got, err := dir.Resolve(ctx, userID)

		assert.NoError(t, err)
		assert.Equal(t, fresh, got)
		assert.Equal(t, 1, upstream.resolveCalls)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("cache write failure degrades to upstream value", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		userID := uuid.New()
		fresh := directory.Profile{ID: userID, FullName: "Dana Smith"}
		upstream := &fakeUpstream{
			resolveFn: func(ctx context.Context, id uuid.UUID) (directory.Profile, error) {
				return fresh, nil
			},
		}

		key := fmt.Sprintf("directory:profile:%s", userID)
		raw, err := json.Marshal(fresh)
		assert.NoError(t, err)
		redisMock.ExpectGet(key).RedisNil()
		redisMock.ExpectSet(key, raw, 5*time.Minute).SetErr(errors.New("redis down"))

		dir := directory.NewCachedDirectory(upstream, rdb)
		got, err := dir.Resolve(ctx, userID)

		assert.NoError(t, err)
		assert.Equal(t, fresh, got)
	})

	t.Run("corrupt cache entry refetches", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		userID := uuid.New()
		fresh := directory.Profile{ID: userID, FullName: "Dana Smith"}
		upstream := &fakeUpstream{
			resolveFn: func(ctx context.Context, id uuid.UUID) (directory.Profile, error) {
				return fresh, nil
			},
		}

		key := fmt.Sprintf("directory:profile:%s", userID)
		raw, err := json.Marshal(fresh)
		assert.NoError(t, err)
		redisMock.ExpectGet(key).SetVal("{not json")
		redisMock.ExpectSet(key, raw, 5*time.Minute).SetVal("OK")

		dir := directory.NewCachedDirectory(upstream, rdb)
		got, err := dir.Resolve(ctx, userID)

		assert.NoError(t, err)
		assert.Equal(t, fresh, got)
		assert.Equal(t, 1, upstream.resolveCalls)
	})

	t.Run("negative upstream miss propagates", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		userID := uuid.New()
		upstream := &fakeUpstream{}

		redisMock.ExpectGet(fmt.Sprintf("directory:profile:%s", userID)).RedisNil()

		dir := directory.NewCachedDirectory(upstream, rdb)
		_, err := dir.Resolve(ctx, userID)

		assert.ErrorIs(t, err, directory.ErrUserNotFound)
	})
}
