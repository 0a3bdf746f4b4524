// Package rds wraps a rueidis client with the few hash operations the search tally needs
package rds

import (
	"context"
	"strings"

	perr "bazaar/internal/platform/errors"

	"github.com/redis/rueidis"
)

// Config configures the client
type Config struct {
	Addr     string
	Username string
	Password string
	DB       int
}

// Client is a thin typed surface over rueidis
type Client struct {
	c rueidis.Client
}

var newClient = rueidis.NewClient

// Open connects and pings
func Open(ctx context.Context, cfg Config) (*Client, error) {
	c, err := newClient(rueidis.ClientOption{
		InitAddress:  []string{cfg.Addr},
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
	})
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "redis connect %s", cfg.Addr)
	}
	cl := New(c)
	if err := cl.Ping(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return cl, nil
}

// New wraps an existing rueidis client
func New(c rueidis.Client) *Client { return &Client{c: c} }

// HIncrBy adds by to field of the hash at key and returns the new value
func (c *Client) HIncrBy(ctx context.Context, key, field string, by int64) (int64, error) {
	cmd := c.c.B().Hincrby().Key(key).Field(field).Increment(by).Build()
	n, err := c.c.Do(ctx, cmd).AsInt64()
	if err != nil {
		return 0, perr.Wrapf(err, perr.ErrorCodeUnavailable, "redis hincrby %s", key)
	}
	return n, nil
}

// HDrain atomically moves the hash at key aside and returns its integer fields
// Increments racing the drain land in a fresh hash and are picked up next time.
// A missing key drains to an empty map.
func (c *Client) HDrain(ctx context.Context, key string) (map[string]int64, error) {
	aside := key + ":draining"
	err := c.c.Do(ctx, c.c.B().Rename().Key(key).Newkey(aside).Build()).Error()
	if err != nil {
		if re, ok := rueidis.IsRedisErr(err); ok && strings.Contains(strings.ToLower(re.Error()), "no such key") {
			return map[string]int64{}, nil
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "redis rename %s", key)
	}

	out, err := c.c.Do(ctx, c.c.B().Hgetall().Key(aside).Build()).AsIntMap()
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "redis hgetall %s", aside)
	}
	if err := c.c.Do(ctx, c.c.B().Del().Key(aside).Build()).Error(); err != nil {
		return out, perr.Wrapf(err, perr.ErrorCodeUnavailable, "redis del %s", aside)
	}
	return out, nil
}

// Ping checks the server answers
func (c *Client) Ping(ctx context.Context) error {
	if err := c.c.Do(ctx, c.c.B().Ping().Build()).Error(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "redis ping")
	}
	return nil
}

// Close releases the connection
func (c *Client) Close() error {
	c.c.Close()
	return nil
}
