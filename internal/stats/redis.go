package stats

import (
	"context"
	"fmt"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const redisPrefix = "rps:stats:"

// RedisStore keeps each document in a hash and announces changes on a
// pub/sub channel named after the document.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// DialRedis connects and pings so a bad address fails at startup.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func hashKey(key string) string { return redisPrefix + key }

func channelFor(key string) string { return redisPrefix + "changed:" + key }

func (s *RedisStore) Increment(ctx context.Context, key, field string) error {
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, hashKey(key), field, 1)
		pipe.Publish(ctx, channelFor(key), key)
		return nil
	})
	return err
}

func (s *RedisStore) Set(ctx context.Context, key string, fields Document) error {
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for f, v := range fields {
			pipe.HSetNX(ctx, hashKey(key), f, v)
		}
		pipe.Publish(ctx, channelFor(key), key)
		return nil
	})
	return err
}

func (s *RedisStore) load(ctx context.Context, key string) (Document, error) {
	raw, err := s.client.HGetAll(ctx, hashKey(key)).Result()
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	doc := make(Document, len(raw))
	for f, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f, err)
		}
		doc[f] = n
	}
	return doc, nil
}

func (s *RedisStore) Subscribe(ctx context.Context, key string, onUpdate func(Document), onError func(error)) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)
	pubsub := s.client.Subscribe(ctx, channelFor(key))
	if _, err := pubsub.Receive(ctx); err != nil {
		cancel()
		pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", key, err)
	}

	deliver := func() {
		doc, err := s.load(ctx, key)
		if err != nil {
			if ctx.Err() == nil {
				onError(err)
			}
			return
		}
		onUpdate(doc)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		deliver()
		for range pubsub.Channel() {
			deliver()
		}
	}()

	return func() {
		cancel()
		pubsub.Close()
		<-done
	}, nil
}
