package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config describes the Redis connection, sourced from environment variables.
type Config struct {
	URL          string `split_words:"true" required:"true"`
	ReadTimeout  int    `split_words:"true" default:"3"`
	WriteTimeout int    `split_words:"true" default:"3"`
	DialTimeout  int    `split_words:"true" default:"5"`
}

// New builds a Redis client from the URL and verifies connectivity with a ping.
func (r *Config) New() (*redis.Client, error) {
	opts, err := redis.ParseURL(r.URL)
	if err != nil {
		return nil, err
	}

	opts.ReadTimeout = time.Duration(r.ReadTimeout) * time.Second
	opts.WriteTimeout = time.Duration(r.WriteTimeout) * time.Second
	opts.DialTimeout = time.Duration(r.DialTimeout) * time.Second

	client := redis.NewClient(opts)

	cmd := client.Ping(context.Background())
	if cmd.Err() != nil {
		return nil, cmd.Err()
	}

	return client, nil
}

// MustNew is New that panics on failure, for wiring code that cannot proceed
// without a working connection.
func (r *Config) MustNew() *redis.Client {
	client, err := r.New()
	if err != nil {
		panic(err)
	}

	return client
}
