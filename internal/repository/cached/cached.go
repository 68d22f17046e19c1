// Package cached - cache-aside декораторы репозиториев поверх Redis.
// Кэшируются только горячие чтения движка отметок: станция по ID и карта по номеру.
package cached

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/frontandrew/stationtime/internal/pkg/logger"
	"github.com/frontandrew/stationtime/internal/pkg/redis"
	"github.com/frontandrew/stationtime/internal/repository"
)

const (
	stationCachePrefix = "station:"
	cardCachePrefix    = "card:number:"
	cacheTTL           = 1 * time.Minute
)

// Cache - операции кэша, которые нужны декораторам (реализуется redis.Client)
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// store оборачивает репозитории станций, карт и сотрудников, остальные отдает как есть
type store struct {
	repository.Store
	cache Cache
	log   logger.Logger

	// pending задан только внутри транзакции
	pending *pendingKeys
}

// NewStore создает кэшируемый набор репозиториев
func NewStore(inner repository.Store, cache Cache, log logger.Logger) repository.Store {
	return &store{Store: inner, cache: cache, log: log}
}

func (s *store) Stations() repository.WeatherStationRepository {
	repo := NewStationRepository(s.Store.Stations(), s.cache, s.log)
	repo.pending = s.pending
	return repo
}

func (s *store) Cards() repository.EmployeeCardRepository {
	repo := NewCardRepository(s.Store.Cards(), s.cache, s.log)
	repo.pending = s.pending
	return repo
}

func (s *store) Employees() repository.EmployeeRepository {
	repo := NewEmployeeRepository(s.Store.Employees(), s.Store.Cards(), s.cache)
	repo.pending = s.pending
	return repo
}

type txManager struct {
	inner repository.TxManager
	cache Cache
	log   logger.Logger
}

// NewTxManager оборачивает набор репозиториев каждой транзакции в кэширующий.
// Ключи, затронутые записью, удаляются из кэша только после завершения транзакции.
func NewTxManager(inner repository.TxManager, cache Cache, log logger.Logger) repository.TxManager {
	return &txManager{inner: inner, cache: cache, log: log}
}

func (m *txManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, s repository.Store) error) error {
	pending := newPendingKeys()
	err := m.inner.WithinTransaction(ctx, func(ctx context.Context, s repository.Store) error {
		return fn(ctx, &store{Store: s, cache: m.cache, log: m.log, pending: pending})
	})

	// сбрасываем и после отката
	if keys := pending.drain(); len(keys) > 0 {
		if delErr := m.cache.Del(ctx, keys...); delErr != nil {
			m.log.Warn("Cache invalidation failed", map[string]interface{}{"keys": keys, "error": delErr.Error()})
		}
	}

	return err
}

// pendingKeys - ключи, которые транзакция пометила к сбросу
type pendingKeys struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newPendingKeys() *pendingKeys {
	return &pendingKeys{keys: make(map[string]struct{})}
}

func (p *pendingKeys) add(keys ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, k := range keys {
		p.keys[k] = struct{}{}
	}
}

// has безопасен для nil (вне транзакции)
func (p *pendingKeys) has(key string) bool {
	if p == nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.keys[key]
	return ok
}

func (p *pendingKeys) drain() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, 0, len(p.keys))
	for k := range p.keys {
		keys = append(keys, k)
	}
	p.keys = make(map[string]struct{})
	return keys
}

// invalidate сбрасывает ключи сразу, а внутри транзакции откладывает до ее завершения
func invalidate(ctx context.Context, c Cache, pending *pendingKeys, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if pending != nil {
		pending.add(keys...)
		return
	}
	_ = c.Del(ctx, keys...)
}

// load читает JSON из кэша; false при промахе или ошибке кэша
func load(ctx context.Context, c Cache, log logger.Logger, key string, dst interface{}) bool {
	raw, err := c.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redis.ErrCacheMiss) {
			// ошибка кэша не критична, идем в БД
			log.Warn("Cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		log.Warn("Cache entry is corrupted", map[string]interface{}{"key": key, "error": err.Error()})
		_ = c.Del(ctx, key)
		return false
	}
	return true
}

func save(ctx context.Context, c Cache, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = c.Set(ctx, key, raw, cacheTTL)
}
