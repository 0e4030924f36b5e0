// Package cache guarda resultados de consultas de relatório por um tempo limitado.
package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/records-api/internal/observability"
	"golang.org/x/sync/singleflight"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// ResultCache é um cache em memória com TTL e invalidação total.
// Cálculos concorrentes para a mesma chave são executados uma única vez.
type ResultCache struct {
	mu         sync.Mutex
	entries    map[Key]entry
	generation uint64
	group      singleflight.Group
	defaultTTL time.Duration
	now        func() time.Time
}

type Option func(*ResultCache)

// WithClock substitui o relógio usado para calcular expirações
func WithClock(now func() time.Time) Option {
	return func(c *ResultCache) {
		c.now = now
	}
}

func New(defaultTTL time.Duration, opts ...Option) *ResultCache {
	c := &ResultCache{
		entries:    make(map[Key]entry),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// GetOrCompute devolve o valor em cache para key ou executa compute e guarda o resultado por ttl.
// ttl <= 0 usa o TTL padrão do cache. Erros nunca são guardados.
func GetOrCompute[T any](ctx context.Context, c *ResultCache, key Key, ttl time.Duration, compute func(context.Context) (T, error)) (T, error) {
	if value, ok := c.get(key); ok {
		if typed, ok := value.(T); ok {
			observability.RecordCacheHit()
			return typed, nil
		}
	}

	observability.RecordCacheMiss()

	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	generation := c.currentGeneration()
	flightKey := strconv.FormatUint(generation, 10) + "#" + key.String()

	// O cálculo é compartilhado; o cancelamento de quem o iniciou não derruba os demais
	shared := context.WithoutCancel(ctx)

	value, err, _ := c.group.Do(flightKey, func() (any, error) {
		result, err := compute(shared)
		if err != nil {
			return nil, err
		}

		c.set(key, result, ttl, generation)
		return result, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return value.(T), nil
}

func (c *ResultCache) get(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		observability.SetCacheEntries(len(c.entries))
		return nil, false
	}

	return e.value, true
}

// set descarta resultados calculados antes da última invalidação
func (c *ResultCache) set(key Key, value any, ttl time.Duration, generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation {
		logrus.WithField("key", key.String()).Debug("Resultado descartado: cache invalidado durante o cálculo")
		return
	}

	c.entries[key] = entry{value: value, expiresAt: c.now().Add(ttl)}
	observability.SetCacheEntries(len(c.entries))
}

func (c *ResultCache) currentGeneration() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// InvalidateAll remove todas as entradas
func (c *ResultCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[Key]entry)
	c.generation++

	observability.RecordCacheInvalidation()
	observability.SetCacheEntries(0)
}

// PurgeExpired remove as entradas vencidas e devolve quantas foram removidas
func (c *ResultCache) PurgeExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	purged := 0
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
			purged++
		}
	}

	observability.RecordCachePurge(purged)
	observability.SetCacheEntries(len(c.entries))
	return purged
}

func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
