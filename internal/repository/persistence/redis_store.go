package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"deal-alert-be/internal/entity"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "dealalert:"

// RedisStore keeps each section as one JSON blob under a prefixed key. It is
// a drop-in alternative to the file store for deployments that already run
// redis.
type RedisStore struct {
	rdb     *redis.Client
	timeout time.Duration
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, timeout: 5 * time.Second}
}

func (s *RedisStore) read(section string, out interface{}) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	data, err := s.rdb.Get(ctx, redisKeyPrefix+section).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", section, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", section, err)
	}
	return true, nil
}

func (s *RedisStore) write(section string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", section, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.rdb.Set(ctx, redisKeyPrefix+section, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", section, err)
	}
	return nil
}

func (s *RedisStore) LoadViewed() (map[string]time.Time, error) {
	viewed := make(map[string]time.Time)
	if _, err := s.read(sectionViewed, &viewed); err != nil {
		return nil, err
	}
	return viewed, nil
}

func (s *RedisStore) SaveViewed(viewed map[string]time.Time) error {
	return s.write(sectionViewed, viewed)
}

func (s *RedisStore) LoadPrices() (map[string]int, error) {
	prices := make(map[string]int)
	if _, err := s.read(sectionPrices, &prices); err != nil {
		return nil, err
	}
	return prices, nil
}

func (s *RedisStore) SavePrices(prices map[string]int) error {
	return s.write(sectionPrices, prices)
}

func (s *RedisStore) LoadBanned() (map[string]entity.BannedProduct, error) {
	banned := make(map[string]entity.BannedProduct)
	if _, err := s.read(sectionBanned, &banned); err != nil {
		return nil, err
	}
	return banned, nil
}

func (s *RedisStore) SaveBanned(banned map[string]entity.BannedProduct) error {
	return s.write(sectionBanned, banned)
}

func (s *RedisStore) LoadSettings() (*entity.Settings, error) {
	var settings entity.Settings
	found, err := s.read(sectionSettings, &settings)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &settings, nil
}

func (s *RedisStore) SaveSettings(settings entity.Settings) error {
	return s.write(sectionSettings, settings)
}

func (s *RedisStore) LoadProducts() ([]entity.Product, error) {
	var products []entity.Product
	if _, err := s.read(sectionProducts, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *RedisStore) SaveProducts(products []entity.Product) error {
	return s.write(sectionProducts, products)
}

func (s *RedisStore) LoadAlerts() (entity.AlertMap, error) {
	alerts := entity.EmptyAlertMap()
	if _, err := s.read(sectionAlerts, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

func (s *RedisStore) SaveAlerts(alerts entity.AlertMap) error {
	return s.write(sectionAlerts, alerts)
}
