// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/libris/internal/core/book"
	"github.com/taibuivan/libris/internal/platform/constants"
	platformredis "github.com/taibuivan/libris/internal/platform/redis"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RedisCache stores filter results under the current catalog generation.
// Invalidate bumps the generation; stale entries expire through their TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (cache *RedisCache) Get(context context.Context, key string) ([]*book.Book, int64, bool, error) {
	generation, err := cache.generation(context)
	if err != nil {
		return nil, 0, false, err
	}

	data, err := cache.client.Get(context, entryKey(generation, key)).Bytes()
	if platformredis.IsMiss(err) {
		return nil, generation, false, nil
	}
	if err != nil {
		return nil, generation, false, fmt.Errorf("search cache: get failed: %w", err)
	}

	var books []*book.Book
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, generation, false, fmt.Errorf("search cache: decode failed: %w", err)
	}
	return books, generation, true, nil
}

// Set stores books under generation as returned by the Get that missed.
// It does not re-read the generation.
func (cache *RedisCache) Set(context context.Context, generation int64, key string, books []*book.Book) error {
	data, err := json.Marshal(books)
	if err != nil {
		return fmt.Errorf("search cache: encode failed: %w", err)
	}

	if err := cache.client.Set(context, entryKey(generation, key), data, cache.ttl).Err(); err != nil {
		return fmt.Errorf("search cache: set failed: %w", err)
	}
	return nil
}

// Invalidate implements book.Invalidator.
func (cache *RedisCache) Invalidate(context context.Context) error {
	if err := cache.client.Incr(context, constants.RedisKeySearchGeneration).Err(); err != nil {
		return fmt.Errorf("search cache: invalidate failed: %w", err)
	}
	return nil
}

func (cache *RedisCache) generation(context context.Context) (int64, error) {
	generation, err := cache.client.Get(context, constants.RedisKeySearchGeneration).Int64()
	if platformredis.IsMiss(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("search cache: read generation failed: %w", err)
	}
	return generation, nil
}

func entryKey(generation int64, key string) string {
	return fmt.Sprintf("%s%d:%s", constants.RedisPrefixSearchFilter, generation, key)
}
