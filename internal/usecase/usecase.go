package usecase

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/vadimbarashkov/html-url-shortener/internal/entity"
	"github.com/vadimbarashkov/html-url-shortener/pkg/base62"
	"github.com/vadimbarashkov/html-url-shortener/pkg/urlscan"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const maxRetries = 5

var (
	ErrMaxRetriesExceeded = errors.New("maximum retries exceeded for allocating short code")
	ErrTooManyURLs        = errors.New("too many urls")
)

type urlRepository interface {
	GetOrCreate(ctx context.Context, longURL string) (*entity.URL, error)
	RetrieveByShortCode(ctx context.Context, shortCode string) (*entity.URL, error)
}

// HTMLResult is a document with every embedded URL replaced by its short link.
type HTMLResult struct {
	HTML string
	URLs []*entity.URL
}

type Option func(*URLUseCase)

// WithBaseURL sets the origin short links are built from.
func WithBaseURL(baseURL string) Option {
	return func(uc *URLUseCase) {
		uc.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithBatchConcurrency limits the number of urls of one batch allocated in parallel.
func WithBatchConcurrency(n int) Option {
	return func(uc *URLUseCase) {
		if n > 0 {
			uc.batchConcurrency = n
		}
	}
}

// WithMaxBatchSize limits the number of urls accepted in one batch. Zero means no limit.
func WithMaxBatchSize(n int) Option {
	return func(uc *URLUseCase) {
		uc.maxBatchSize = n
	}
}

type URLUseCase struct {
	baseURL          string
	batchConcurrency int
	maxBatchSize     int
	urlRepo          urlRepository
	group            singleflight.Group
}

func New(urlRepo urlRepository, opts ...Option) *URLUseCase {
	uc := &URLUseCase{
		batchConcurrency: runtime.GOMAXPROCS(0),
		urlRepo:          urlRepo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// ShortURL returns the short link for shortCode.
func (uc *URLUseCase) ShortURL(shortCode string) string {
	if uc.baseURL == "" {
		return shortCode
	}
	return uc.baseURL + "/" + shortCode
}

// ShortenURLs returns the record of every long url, in input order. Duplicates
// resolve to the same record. If any url fails, the whole batch fails.
func (uc *URLUseCase) ShortenURLs(ctx context.Context, longURLs []string) ([]*entity.URL, error) {
	const op = "usecase.URLUseCase.ShortenURLs"

	if uc.maxBatchSize > 0 && len(longURLs) > uc.maxBatchSize {
		return nil, fmt.Errorf("%s: %d urls, limit is %d: %w", op, len(longURLs), uc.maxBatchSize, ErrTooManyURLs)
	}

	urls := make([]*entity.URL, len(longURLs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.batchConcurrency)

	for i, longURL := range longURLs {
		i, longURL := i, longURL
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			url, err := uc.shortenURL(ctx, longURL)
			if err != nil {
				return err
			}

			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: failed to shorten urls: %w", op, err)
	}

	return urls, nil
}

// shortenURL coalesces concurrent calls for the same long url within the process.
func (uc *URLUseCase) shortenURL(ctx context.Context, longURL string) (*entity.URL, error) {
	v, err, _ := uc.group.Do(longURL, func() (any, error) {
		// The call is shared by every waiter, so one caller leaving must not cancel it.
		return uc.getOrCreate(context.WithoutCancel(ctx), longURL)
	})
	if err != nil {
		return nil, err
	}

	url := *v.(*entity.URL)
	return &url, nil
}

func (uc *URLUseCase) getOrCreate(ctx context.Context, longURL string) (*entity.URL, error) {
	const op = "usecase.URLUseCase.getOrCreate"

	for i := 0; i < maxRetries; i++ {
		url, err := uc.urlRepo.GetOrCreate(ctx, longURL)
		if err != nil {
			if errors.Is(err, entity.ErrAllocationConflict) {
				continue
			}

			return nil, fmt.Errorf("%s: failed to shorten url: %w", op, err)
		}

		return url, nil
	}

	return nil, fmt.Errorf("%s: %w", op, ErrMaxRetriesExceeded)
}

// ShortenHTML shortens every url embedded in html and returns the rewritten
// document. No partial document is returned on failure.
func (uc *URLUseCase) ShortenHTML(ctx context.Context, html string) (*HTMLResult, error) {
	const op = "usecase.URLUseCase.ShortenHTML"

	longURLs := urlscan.Extract(html)
	if len(longURLs) == 0 {
		return &HTMLResult{HTML: html, URLs: []*entity.URL{}}, nil
	}

	urls, err := uc.ShortenURLs(ctx, longURLs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	urlToShort := make(map[string]string, len(urls))
	for _, url := range urls {
		urlToShort[url.LongURL] = uc.ShortURL(url.ShortCode)
	}

	return &HTMLResult{
		HTML: urlscan.Rewrite(html, urlToShort),
		URLs: urls,
	}, nil
}

// ResolveShortCode returns the record for shortCode or entity.ErrURLNotFound.
func (uc *URLUseCase) ResolveShortCode(ctx context.Context, shortCode string) (*entity.URL, error) {
	const op = "usecase.URLUseCase.ResolveShortCode"

	if _, err := base62.Decode(shortCode); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, entity.ErrURLNotFound, err)
	}

	url, err := uc.urlRepo.RetrieveByShortCode(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve short code: %w", op, err)
	}

	return url, nil
}
