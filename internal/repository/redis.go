package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/ticketbari/ticketbari/config"
	"github.com/ticketbari/ticketbari/internal/model"
)

const (
	// Redis key prefixes
	TicketCacheKey    = "ticket:"
	TicketListKey     = "tickets:list:"
	VendorStatsKey    = "stats:vendor:"
	RefreshSessionKey = "session:refresh:"

	// list cache names
	ListLatest     = "latest"
	ListAdvertised = "advertised"
)

type RedisRepository struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisRepository() (*RedisRepository, error) {
	ctx := context.Background()

	client := redis.NewClient(&redis.Options{
		Addr:         config.AppConfig.Redis.DataAddress,
		Password:     config.AppConfig.Redis.Password,
		DB:           config.AppConfig.Redis.DB,
		PoolSize:     config.AppConfig.Redis.PoolSize,
		MaxRetries:   config.AppConfig.Redis.MaxRetries,
		DialTimeout:  config.AppConfig.Redis.Timeout,
		ReadTimeout:  config.AppConfig.Redis.Timeout,
		WriteTimeout: config.AppConfig.Redis.Timeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis data node: %w", err)
	}

	return &RedisRepository{
		client: client,
		ctx:    ctx,
	}, nil
}

// ---- ticket caches ----

// GetTicketCache returns a cached ticket, with a hit flag.
func (r *RedisRepository) GetTicketCache(id string) (*model.Ticket, bool, error) {
	data, err := r.client.Get(r.ctx, TicketCacheKey+id).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil // cache miss
		}
		return nil, false, fmt.Errorf("get ticket cache: %w", err)
	}

	var t model.Ticket
	if err := json.Unmarshal([]byte(data), &t); err != nil {
		return nil, false, fmt.Errorf("decode ticket cache: %w", err)
	}
	return &t, true, nil
}

// SetTicketCache caches one ticket for the configured TTL.
func (r *RedisRepository) SetTicketCache(t *model.Ticket) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode ticket: %w", err)
	}
	if err := r.client.Set(r.ctx, TicketCacheKey+t.ID, data, config.AppConfig.Booking.CacheTTL).Err(); err != nil {
		return fmt.Errorf("set ticket cache: %w", err)
	}
	return nil
}

// DeleteTicketCache drops a cached ticket after a mutation.
func (r *RedisRepository) DeleteTicketCache(id string) error {
	if err := r.client.Del(r.ctx, TicketCacheKey+id).Err(); err != nil {
		return fmt.Errorf("delete ticket cache: %w", err)
	}
	return nil
}

// GetTicketList returns a cached listing page (latest, advertised).
func (r *RedisRepository) GetTicketList(name string) ([]*model.Ticket, bool, error) {
	data, err := r.client.Get(r.ctx, TicketListKey+name).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get ticket list cache: %w", err)
	}

	var tickets []*model.Ticket
	if err := json.Unmarshal([]byte(data), &tickets); err != nil {
		return nil, false, fmt.Errorf("decode ticket list cache: %w", err)
	}
	return tickets, true, nil
}

// SetTicketList caches a listing page for the configured TTL.
func (r *RedisRepository) SetTicketList(name string, tickets []*model.Ticket) error {
	data, err := json.Marshal(tickets)
	if err != nil {
		return fmt.Errorf("encode ticket list: %w", err)
	}
	if err := r.client.Set(r.ctx, TicketListKey+name, data, config.AppConfig.Booking.CacheTTL).Err(); err != nil {
		return fmt.Errorf("set ticket list cache: %w", err)
	}
	return nil
}

// DeleteTicketLists drops every cached listing page. Called after any
// ticket mutation; callers refetch on the next read.
func (r *RedisRepository) DeleteTicketLists() error {
	keys := []string{TicketListKey + ListLatest, TicketListKey + ListAdvertised}
	if err := r.client.Del(r.ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete ticket list caches: %w", err)
	}
	return nil
}

// ---- vendor stats cache ----

// GetVendorStatsCache returns cached revenue stats, with a hit flag.
func (r *RedisRepository) GetVendorStatsCache(vendorEmail string) (*model.VendorStats, bool, error) {
	data, err := r.client.Get(r.ctx, VendorStatsKey+vendorEmail).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get vendor stats cache: %w", err)
	}

	var stats model.VendorStats
	if err := json.Unmarshal([]byte(data), &stats); err != nil {
		return nil, false, fmt.Errorf("decode vendor stats cache: %w", err)
	}
	return &stats, true, nil
}

// SetVendorStatsCache caches one vendor's stats for the configured TTL.
func (r *RedisRepository) SetVendorStatsCache(stats *model.VendorStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode vendor stats: %w", err)
	}
	if err := r.client.Set(r.ctx, VendorStatsKey+stats.VendorEmail, data, config.AppConfig.Booking.CacheTTL).Err(); err != nil {
		return fmt.Errorf("set vendor stats cache: %w", err)
	}
	return nil
}

// DeleteVendorStatsCache drops cached stats after a paid booking.
func (r *RedisRepository) DeleteVendorStatsCache(vendorEmail string) error {
	if err := r.client.Del(r.ctx, VendorStatsKey+vendorEmail).Err(); err != nil {
		return fmt.Errorf("delete vendor stats cache: %w", err)
	}
	return nil
}

// ---- refresh sessions ----

// RefreshSession is the server-side state of one issued refresh token.
type RefreshSession struct {
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

// SaveRefreshSession stores a refresh token with its TTL. Logout and
// rotation delete it, so presenting a token not in Redis fails refresh.
func (r *RedisRepository) SaveRefreshSession(token string, sess *RefreshSession, ttl time.Duration) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode refresh session: %w", err)
	}
	if err := r.client.Set(r.ctx, RefreshSessionKey+token, data, ttl).Err(); err != nil {
		return fmt.Errorf("save refresh session: %w", err)
	}
	return nil
}

// GetRefreshSession returns the session a refresh token belongs to.
func (r *RedisRepository) GetRefreshSession(token string) (*RefreshSession, bool, error) {
	data, err := r.client.Get(r.ctx, RefreshSessionKey+token).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get refresh session: %w", err)
	}

	var sess RefreshSession
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, false, fmt.Errorf("decode refresh session: %w", err)
	}
	return &sess, true, nil
}

// DeleteRefreshSession revokes a refresh token.
func (r *RedisRepository) DeleteRefreshSession(token string) error {
	if err := r.client.Del(r.ctx, RefreshSessionKey+token).Err(); err != nil {
		return fmt.Errorf("delete refresh session: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (r *RedisRepository) Close() error {
	return r.client.Close()
}
