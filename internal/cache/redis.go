package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/flightwizard/config"
	"github.com/Domenick1991/flightwizard/internal/domain"
	"github.com/Domenick1991/flightwizard/internal/service/session"
	"github.com/redis/go-redis/v9"
)

// RedisCache backs two concerns: the flights-by-route cache and the durable
// keyed store for in-progress wizard sessions.
type RedisCache struct {
	client     *redis.Client
	flightsTTL time.Duration
	sessionTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL, sessionTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightsTTL: flightsTTL,
		sessionTTL: sessionTTL,
	}
}

func (c *RedisCache) GetRouteFlights(ctx context.Context, from, to string, date *time.Time) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, routeKey(from, to, date)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetRouteFlights(ctx context.Context, from, to string, date *time.Time, flights []domain.Flight) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, routeKey(from, to, date), payload, c.flightsTTL).Err()
}

func (c *RedisCache) SaveSession(ctx context.Context, s *session.Session) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, sessionKey(s.Draft.SessionID), payload, c.sessionTTL).Err()
}

func (c *RedisCache) GetSession(ctx context.Context, sessionID string) (*session.Session, error) {
	data, err := c.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, session.ErrSessionNotFound
		}
		return nil, err
	}

	var s session.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *RedisCache) DeleteSession(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, sessionKey(sessionID)).Err()
}

func routeKey(from, to string, date *time.Time) string {
	if date == nil {
		return fmt.Sprintf("cache:flights:%s:%s", from, to)
	}
	return fmt.Sprintf("cache:flights:%s:%s:%s", from, to, date.Format("2006-01-02"))
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

var _ session.DraftStore = (*RedisCache)(nil)
