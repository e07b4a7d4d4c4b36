package lock

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/ticketbari/ticketbari/config"
)

type RedLock struct {
	clients     []*redis.Client
	ctx         context.Context
	mu          sync.Mutex
	locks       map[string]string // lock name -> fencing token
	timeout     time.Duration
	retries     int
	clusterSize int
}

// NewRedLock connects to every configured lock node.
func NewRedLock() (*RedLock, error) {
	ctx := context.Background()

	var clients []*redis.Client
	for _, addr := range config.AppConfig.Redis.LockAddresses {
		client := redis.NewClient(&redis.Options{
			Addr:         addr,
			Password:     config.AppConfig.Redis.Password,
			DB:           config.AppConfig.Redis.DB,
			PoolSize:     config.AppConfig.Redis.PoolSize,
			MaxRetries:   config.AppConfig.Redis.MaxRetries,
			DialTimeout:  config.AppConfig.Redis.Timeout,
			ReadTimeout:  config.AppConfig.Redis.Timeout,
			WriteTimeout: config.AppConfig.Redis.Timeout,
		})

		if err := client.Ping(ctx).Err(); err != nil {
			for _, c := range clients {
				c.Close()
			}
			return nil, fmt.Errorf("ping redis lock node %s: %w", addr, err)
		}

		clients = append(clients, client)
	}

	return &RedLock{
		clients:     clients,
		ctx:         ctx,
		locks:       make(map[string]string),
		timeout:     config.AppConfig.Booking.LockTimeout,
		retries:     config.AppConfig.Booking.LockRetryCount,
		clusterSize: len(config.AppConfig.Redis.LockAddresses),
	}, nil
}

// AcquireLock runs the Redlock algorithm: the lock is held once SetNX
// succeeds on a majority of nodes within the validity window.
func (r *RedLock) AcquireLock(lockName string, timeout time.Duration) (bool, error) {
	token := fmt.Sprintf("%d-%d", time.Now().UnixNano(), time.Now().Unix())

	for attempt := 0; attempt < r.retries; attempt++ {
		success := 0
		start := time.Now()

		for i, client := range r.clients {
			ok, err := client.SetNX(r.ctx, lockName, token, timeout).Result()
			if err != nil {
				slog.Warn("acquire lock on node failed",
					"node", config.AppConfig.Redis.LockAddresses[i], "lock", lockName, "error", err)
				continue
			}
			if ok {
				success++
			}
		}

		elapsed := time.Since(start)
		validityTime := timeout - elapsed

		if success >= (r.clusterSize/2+1) && validityTime > 0 {
			r.mu.Lock()
			r.locks[lockName] = token
			r.mu.Unlock()
			return true, nil
		}

		// majority not reached, roll back partial acquisitions
		r.unlockAll(lockName, token)
		time.Sleep(time.Millisecond * 100)
	}

	return false, nil
}

// RefreshLock extends a held lock via a compare-and-expire script so
// only our own token is refreshed.
func (r *RedLock) RefreshLock(lockName string, timeout time.Duration) (bool, error) {
	r.mu.Lock()
	token, exists := r.locks[lockName]
	r.mu.Unlock()
	if !exists {
		return false, fmt.Errorf("lock %s is not held", lockName)
	}

	script := `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("PEXPIRE", KEYS[1], ARGV[2])
		else
			return 0
		end
	`

	success := 0
	for i, client := range r.clients {
		result, err := client.Eval(r.ctx, script, []string{lockName}, token, int(timeout/time.Millisecond)).Result()
		if err != nil {
			slog.Warn("refresh lock on node failed",
				"node", config.AppConfig.Redis.LockAddresses[i], "lock", lockName, "error", err)
			continue
		}

		if result.(int64) == 1 {
			success++
		}
	}

	if success >= (r.clusterSize/2 + 1) {
		return true, nil
	}

	r.mu.Lock()
	delete(r.locks, lockName)
	r.mu.Unlock()
	return false, nil
}

// ReleaseLock releases a held lock on every node.
func (r *RedLock) ReleaseLock(lockName string) error {
	r.mu.Lock()
	token, exists := r.locks[lockName]
	delete(r.locks, lockName)
	r.mu.Unlock()
	if !exists {
		return fmt.Errorf("lock %s is not held", lockName)
	}

	r.unlockAll(lockName, token)
	return nil
}

// unlockAll deletes the lock on all nodes, guarded by token so another
// holder's lock is never removed.
func (r *RedLock) unlockAll(lockName string, token string) {
	script := `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("DEL", KEYS[1])
		else
			return 0
		end
	`

	for i, client := range r.clients {
		if _, err := client.Eval(r.ctx, script, []string{lockName}, token).Result(); err != nil {
			slog.Warn("release lock on node failed",
				"node", config.AppConfig.Redis.LockAddresses[i], "lock", lockName, "error", err)
		}
	}
}

// ReleaseAllLocks releases every held lock.
func (r *RedLock) ReleaseAllLocks() {
	r.mu.Lock()
	held := r.locks
	r.locks = make(map[string]string)
	r.mu.Unlock()

	for name, token := range held {
		r.unlockAll(name, token)
	}
}

// Close releases held locks and closes every client.
func (r *RedLock) Close() error {
	r.ReleaseAllLocks()

	for _, client := range r.clients {
		if err := client.Close(); err != nil {
			slog.Warn("close redis lock client failed", "error", err)
		}
	}
	return nil
}
