package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client, mr
}

func lockers(t *testing.T) map[string]Locker {
	client, _ := setupTestRedis(t)
	return map[string]Locker{
		"local": NewLocalLocker(),
		"redis": NewRedisLocker(client, time.Second, 5*time.Millisecond, nil),
	}
}

func TestMutualExclusion(t *testing.T) {
	for name, l := range lockers(t) {
		t.Run(name, func(t *testing.T) {
			var inside, maxInside int32
			var wg sync.WaitGroup

			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					unlock, err := l.Lock(context.Background(), 1)
					if !assert.NoError(t, err) {
						return
					}

					n := atomic.AddInt32(&inside, 1)
					for {
						m := atomic.LoadInt32(&maxInside)
						if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
							break
						}
					}
					time.Sleep(2 * time.Millisecond)
					atomic.AddInt32(&inside, -1)
					unlock()
				}()
			}
			wg.Wait()

			assert.Equal(t, int32(1), maxInside)
		})
	}
}

func TestLockTimesOut(t *testing.T) {
	for name, l := range lockers(t) {
		t.Run(name, func(t *testing.T) {
			unlock, err := l.Lock(context.Background(), 2)
			require.NoError(t, err)
			defer unlock()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
			defer cancel()

			_, err = l.Lock(ctx, 2)
			assert.ErrorIs(t, err, ErrLockTimeout)
		})
	}
}

func TestDifferentContractorsDoNotBlock(t *testing.T) {
	for name, l := range lockers(t) {
		t.Run(name, func(t *testing.T) {
			unlockA, err := l.Lock(context.Background(), 3)
			require.NoError(t, err)
			defer unlockA()

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			unlockB, err := l.Lock(ctx, 4)
			require.NoError(t, err)
			unlockB()
		})
	}
}

func TestRedisUnlockKeepsForeignToken(t *testing.T) {
	client, mr := setupTestRedis(t)
	l := NewRedisLocker(client, time.Second, 5*time.Millisecond, nil)

	unlock, err := l.Lock(context.Background(), 5)
	require.NoError(t, err)

	// lock expired and was taken by another holder
	key := defaultKeyPrefix + "5"
	mr.Del(key)
	require.NoError(t, mr.Set(key, "someone-else"))

	unlock()

	value, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "someone-else", value)
}

func TestLocalLockerCleansUp(t *testing.T) {
	l := NewLocalLocker()

	unlock, err := l.Lock(context.Background(), 6)
	require.NoError(t, err)
	unlock()
	unlock()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Empty(t, l.locks)
}

func TestTimeoutLockerBoundsWait(t *testing.T) {
	inner := NewLocalLocker()
	bounded := WithTimeout(inner, 20*time.Millisecond)

	release, err := bounded.Lock(context.Background(), 1)
	require.NoError(t, err)

	start := time.Now()
	_, err = bounded.Lock(context.Background(), 1)
	assert.ErrorIs(t, err, ErrLockTimeout)
	assert.Less(t, time.Since(start), time.Second)

	release()
	release, err = bounded.Lock(context.Background(), 1)
	require.NoError(t, err)
	release()
}
