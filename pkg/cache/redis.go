package cache

import (
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-redis/redis/v7"
	"github.com/pkg/errors"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Timeout  time.Duration
	MaxConns int
	Logger   log.Logger
}

// RedisClient keeps entries in a single redis server, where several
// realtyd replicas can share them.
type RedisClient struct {
	client *redis.Client
	logger log.Logger
}

func NewRedisClient(config RedisConfig) *RedisClient {
	return &RedisClient{
		client: redis.NewClient(&redis.Options{
			Addr:         config.Addr,
			Password:     config.Password,
			DB:           config.DB,
			DialTimeout:  config.Timeout,
			ReadTimeout:  config.Timeout,
			WriteTimeout: config.Timeout,
			PoolSize:     config.MaxConns,
		}),
		logger: config.Logger,
	}
}

func (r *RedisClient) GetKey(k Keyer) ([]byte, time.Time, error) {
	b, err := r.client.Get(k.Key()).Bytes()
	switch {
	case err == redis.Nil:
		return nil, time.Time{}, ErrNotCached
	case err != nil:
		r.logger.Log("err", errors.Wrap(err, "fetching from redis"), "key", k.Key())
		return nil, time.Time{}, err
	}
	return DecodeEntry(b)
}

func (r *RedisClient) SetKey(k Keyer, deadline time.Time, v []byte) error {
	err := r.client.Set(k.Key(), EncodeEntry(deadline, v), Expiry(time.Now(), deadline)).Err()
	if err != nil {
		r.logger.Log("err", errors.Wrap(err, "storing in redis"), "key", k.Key())
		return err
	}
	return nil
}

// Stop closes the connection pool.
func (r *RedisClient) Stop() {
	r.client.Close()
}
