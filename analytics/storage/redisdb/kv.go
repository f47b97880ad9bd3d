// Package redisdb shares the tracker state between processes through Redis
package redisdb

import (
	"errors"
	"fmt"

	"github.com/splitio/go-toolkit/v5/logging"
	"github.com/splitio/go-toolkit/v5/redis"
	"github.com/splitio/go-toolkit/v5/redis/helpers"
)

// RedisKeyValueStorage redis implementation of storage.KeyValueStorage
type RedisKeyValueStorage struct {
	client *redis.PrefixedRedisClient
	logger logging.LoggerInterface
}

// NewRedisKeyValueStorage returns an instance of RedisKeyValueStorage.
// Keys are namespaced by the prefix of the client.
func NewRedisKeyValueStorage(client *redis.PrefixedRedisClient, logger logging.LoggerInterface) *RedisKeyValueStorage {
	return &RedisKeyValueStorage{
		client: client,
		logger: logger,
	}
}

// NewPrefixedRedisClient connects to the redis server at addr and checks the connection
func NewPrefixedRedisClient(addr string, password string, db int, prefix string) (client *redis.PrefixedRedisClient, err error) {
	rClient, err := redis.NewClient(&redis.UniversalOptions{
		Addrs:    []string{addr},
		Password: password,
		DB:       db,
	})
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			client = nil
			err = fmt.Errorf("%v", r)
		}
	}()
	helpers.EnsureConnected(rClient)

	return redis.NewPrefixedRedisClient(rClient, prefix)
}

// Get returns the value stored under key
func (r *RedisKeyValueStorage) Get(key string) (string, bool, error) {
	value, err := r.client.Get(key)
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		r.logger.Error("Error reading", key, "from redis", err.Error())
		return "", false, err
	}
	return value, true, nil
}

// Set stores value under key, without expiration
func (r *RedisKeyValueStorage) Set(key string, value string) error {
	if err := r.client.Set(key, value, 0); err != nil {
		r.logger.Error("Error writing", key, "to redis", err.Error())
		return err
	}
	return nil
}
