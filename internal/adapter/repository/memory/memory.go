// Package memory provides a thread-safe in-memory URL repository.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vadimbarashkov/html-url-shortener/internal/entity"
	"github.com/vadimbarashkov/html-url-shortener/pkg/base62"
)

type URLRepository struct {
	mu          sync.RWMutex
	lastID      int64
	byLongURL   map[string]*entity.URL
	byShortCode map[string]*entity.URL
	now         func() time.Time
}

func NewURLRepository() *URLRepository {
	return &URLRepository{
		byLongURL:   make(map[string]*entity.URL),
		byShortCode: make(map[string]*entity.URL),
		now:         time.Now,
	}
}

// GetOrCreate returns the record for longURL, creating it under the write lock
// when it does not exist. Id assignment and code finalization happen atomically.
func (r *URLRepository) GetOrCreate(ctx context.Context, longURL string) (*entity.URL, error) {
	const op = "adapter.repository.memory.URLRepository.GetOrCreate"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r.mu.RLock()
	url, ok := r.byLongURL[longURL]
	r.mu.RUnlock()

	if ok {
		return clone(url), nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if url, ok := r.byLongURL[longURL]; ok {
		return clone(url), nil
	}

	r.lastID++
	url = &entity.URL{
		ID:        r.lastID,
		LongURL:   longURL,
		ShortCode: base62.Encode(uint64(r.lastID)),
		CreatedAt: r.now(),
	}

	r.byLongURL[url.LongURL] = url
	r.byShortCode[url.ShortCode] = url

	return clone(url), nil
}

func (r *URLRepository) RetrieveByShortCode(ctx context.Context, shortCode string) (*entity.URL, error) {
	const op = "adapter.repository.memory.URLRepository.RetrieveByShortCode"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	url, ok := r.byShortCode[shortCode]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
	}

	return clone(url), nil
}

// Len returns the number of stored records.
func (r *URLRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byLongURL)
}

func clone(url *entity.URL) *entity.URL {
	c := *url
	return &c
}
