// README: Offer candidate pools backed by Redis sets.
package offer

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const (
	driverPoolKey = "offer:drivers"
	carPoolKey    = "offer:cars"
)

type Store struct {
	redis *redis.Client
}

func NewStore(redis *redis.Client) *Store {
	return &Store{redis: redis}
}

func (s *Store) RandomDriver(ctx context.Context) (string, error) {
	return s.randomMember(ctx, driverPoolKey)
}

func (s *Store) RandomCar(ctx context.Context) (string, error) {
	return s.randomMember(ctx, carPoolKey)
}

// SeedDefaults loads the built-in candidates into the pools so operators
// start from a working set and can extend it with SADD.
func (s *Store) SeedDefaults(ctx context.Context) error {
	return s.Seed(ctx, defaultDrivers, defaultCars)
}

// Seed adds candidates to the pools; existing members are untouched.
func (s *Store) Seed(ctx context.Context, drivers, cars []string) error {
	pipe := s.redis.Pipeline()
	if len(drivers) > 0 {
		pipe.SAdd(ctx, driverPoolKey, toMembers(drivers)...)
	}
	if len(cars) > 0 {
		pipe.SAdd(ctx, carPoolKey, toMembers(cars)...)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) randomMember(ctx context.Context, key string) (string, error) {
	v, err := s.redis.SRandMember(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

func toMembers(values []string) []interface{} {
	members := make([]interface{}, len(values))
	for i, v := range values {
		members[i] = v
	}
	return members
}
