package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/vadimbarashkov/html-url-shortener/internal/adapter/repository/memory"
	"github.com/vadimbarashkov/html-url-shortener/internal/entity"
	"github.com/vadimbarashkov/html-url-shortener/mocks/usecase"
)

type URLUseCaseTestSuite struct {
	suite.Suite
	errUnknown  error
	urlRepoMock *usecase.MockUrlRepository
	uc          *URLUseCase
}

func (suite *URLUseCaseTestSuite) SetupSuite() {
	suite.errUnknown = errors.New("unknown error")
}

func (suite *URLUseCaseTestSuite) SetupSubTest() {
	suite.urlRepoMock = usecase.NewMockUrlRepository(suite.T())
	suite.uc = New(suite.urlRepoMock, WithBaseURL("http://s.io/"), WithMaxBatchSize(3))
}

func (suite *URLUseCaseTestSuite) TearDownSubTest() {
	suite.urlRepoMock.AssertExpectations(suite.T())
}

func (suite *URLUseCaseTestSuite) TestShortenURLs() {
	suite.Run("too many urls", func() {
		urls, err := suite.uc.ShortenURLs(context.Background(), []string{"https://a.com", "https://b.com", "https://c.com", "https://d.com"})

		suite.ErrorIs(err, ErrTooManyURLs)
		suite.Nil(urls)
	})

	suite.Run("empty batch", func() {
		urls, err := suite.uc.ShortenURLs(context.Background(), nil)

		suite.NoError(err)
		suite.Empty(urls)
	})

	suite.Run("maximum retries error", func() {
		suite.urlRepoMock.
			On("GetOrCreate", mock.Anything, "https://example.com").
			Times(maxRetries).
			Return(nil, entity.ErrAllocationConflict)

		urls, err := suite.uc.ShortenURLs(context.Background(), []string{"https://example.com"})

		suite.ErrorIs(err, ErrMaxRetriesExceeded)
		suite.Nil(urls)
	})

	suite.Run("conflict is retried", func() {
		suite.urlRepoMock.
			On("GetOrCreate", mock.Anything, "https://example.com").
			Once().
			Return(nil, entity.ErrAllocationConflict)
		suite.urlRepoMock.
			On("GetOrCreate", mock.Anything, "https://example.com").
			Once().
			Return(&entity.URL{ID: 1, ShortCode: "1", LongURL: "https://example.com"}, nil)

		urls, err := suite.uc.ShortenURLs(context.Background(), []string{"https://example.com"})

		suite.NoError(err)
		suite.Len(urls, 1)
		suite.Equal("1", urls[0].ShortCode)
	})

	suite.Run("storage error aborts batch", func() {
		suite.urlRepoMock.
			On("GetOrCreate", mock.Anything, "https://a.com").
			Maybe().
			Return(&entity.URL{ID: 1, ShortCode: "1", LongURL: "https://a.com"}, nil)
		suite.urlRepoMock.
			On("GetOrCreate", mock.Anything, "https://b.com").
			Once().
			Return(nil, fmt.Errorf("%w: %w", entity.ErrStorageUnavailable, suite.errUnknown))

		urls, err := suite.uc.ShortenURLs(context.Background(), []string{"https://a.com", "https://b.com"})

		suite.ErrorIs(err, entity.ErrStorageUnavailable)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(urls)
	})

	suite.Run("keeps input order", func() {
		suite.urlRepoMock.
			On("GetOrCreate", mock.Anything, "https://a.com").
			Return(&entity.URL{ID: 1, ShortCode: "1", LongURL: "https://a.com"}, nil)
		suite.urlRepoMock.
			On("GetOrCreate", mock.Anything, "https://b.com").
			Return(&entity.URL{ID: 2, ShortCode: "2", LongURL: "https://b.com"}, nil)

		urls, err := suite.uc.ShortenURLs(context.Background(), []string{"https://b.com", "https://a.com", "https://b.com"})

		suite.NoError(err)
		suite.Len(urls, 3)
		suite.Equal("https://b.com", urls[0].LongURL)
		suite.Equal("https://a.com", urls[1].LongURL)
		suite.Equal("https://b.com", urls[2].LongURL)
		suite.Equal(urls[0].ShortCode, urls[2].ShortCode)
	})
}

func (suite *URLUseCaseTestSuite) TestShortenHTML() {
	suite.Run("no urls", func() {
		res, err := suite.uc.ShortenHTML(context.Background(), "<p>plain</p>")

		suite.NoError(err)
		suite.Equal("<p>plain</p>", res.HTML)
		suite.Empty(res.URLs)
	})

	suite.Run("storage error", func() {
		suite.urlRepoMock.
			On("GetOrCreate", mock.Anything, "https://example.com").
			Once().
			Return(nil, suite.errUnknown)

		res, err := suite.uc.ShortenHTML(context.Background(), `<a href="https://example.com">x</a>`)

		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(res)
	})

	suite.Run("success", func() {
		suite.urlRepoMock.
			On("GetOrCreate", mock.Anything, "https://example.com").
			Once().
			Return(&entity.URL{ID: 125, ShortCode: "21", LongURL: "https://example.com"}, nil)

		res, err := suite.uc.ShortenHTML(context.Background(), `<a href="https://example.com">x</a><a href="https://example.com">y</a>`)

		suite.NoError(err)
		suite.Equal(`<a href="http://s.io/21">x</a><a href="http://s.io/21">y</a>`, res.HTML)
		suite.Len(res.URLs, 1)
	})
}

func (suite *URLUseCaseTestSuite) TestResolveShortCode() {
	suite.Run("malformed code", func() {
		url, err := suite.uc.ResolveShortCode(context.Background(), "not-a-code")

		suite.ErrorIs(err, entity.ErrURLNotFound)
		suite.Nil(url)
	})

	suite.Run("url not found", func() {
		suite.urlRepoMock.
			On("RetrieveByShortCode", mock.Anything, "zzz999").
			Once().
			Return(nil, entity.ErrURLNotFound)

		url, err := suite.uc.ResolveShortCode(context.Background(), "zzz999")

		suite.ErrorIs(err, entity.ErrURLNotFound)
		suite.Nil(url)
	})

	suite.Run("unknown error", func() {
		suite.urlRepoMock.
			On("RetrieveByShortCode", mock.Anything, "21").
			Once().
			Return(nil, suite.errUnknown)

		url, err := suite.uc.ResolveShortCode(context.Background(), "21")

		suite.ErrorIs(err, suite.errUnknown)
		suite.NotErrorIs(err, entity.ErrURLNotFound)
		suite.Nil(url)
	})

	suite.Run("success", func() {
		suite.urlRepoMock.
			On("RetrieveByShortCode", mock.Anything, "21").
			Once().
			Return(&entity.URL{ID: 125, ShortCode: "21", LongURL: "https://example.com"}, nil)

		url, err := suite.uc.ResolveShortCode(context.Background(), "21")

		suite.NoError(err)
		suite.Equal("https://example.com", url.LongURL)
	})
}

func TestURLUseCase(t *testing.T) {
	suite.Run(t, new(URLUseCaseTestSuite))
}

func TestURLUseCase_ShortURL(t *testing.T) {
	assert.Equal(t, "21", New(nil).ShortURL("21"))
	assert.Equal(t, "http://s.io/21", New(nil, WithBaseURL("http://s.io")).ShortURL("21"))
	assert.Equal(t, "http://s.io/21", New(nil, WithBaseURL("http://s.io/")).ShortURL("21"))
}

func TestURLUseCase_DuplicateBatch(t *testing.T) {
	repo := memory.NewURLRepository()
	uc := New(repo)

	urls, err := uc.ShortenURLs(context.Background(), []string{"https://a.com/x", "https://a.com/x"})

	require.NoError(t, err)
	require.Len(t, urls, 2)
	assert.Equal(t, urls[0].ShortCode, urls[1].ShortCode)
	assert.Equal(t, 1, repo.Len())
}

func TestURLUseCase_ConcurrentCallers(t *testing.T) {
	repo := memory.NewURLRepository()
	uc := New(repo)

	const callers = 150

	var wg sync.WaitGroup
	codes := make([]string, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			urls, err := uc.ShortenURLs(context.Background(), []string{"https://brand-new.example.com"})
			if err != nil {
				errs[i] = err
				return
			}
			codes[i] = urls[0].ShortCode
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, codes[0], codes[i])
	}
	assert.Equal(t, 1, repo.Len())

	url, err := uc.ResolveShortCode(context.Background(), codes[0])
	require.NoError(t, err)
	assert.Equal(t, "https://brand-new.example.com", url.LongURL)
}

func TestURLUseCase_ConflictingRepository(t *testing.T) {
	repo := &racingRepository{URLRepository: memory.NewURLRepository(), conflicts: 3}
	uc := New(repo)

	urls, err := uc.ShortenURLs(context.Background(), []string{"https://a.com"})

	require.NoError(t, err)
	assert.Equal(t, "1", urls[0].ShortCode)
	assert.Equal(t, 4, repo.calls)
}

// racingRepository reports an allocation conflict for the first calls, as a
// store does when another writer wins the insert race.
type racingRepository struct {
	*memory.URLRepository
	mu        sync.Mutex
	conflicts int
	calls     int
}

func (r *racingRepository) GetOrCreate(ctx context.Context, longURL string) (*entity.URL, error) {
	r.mu.Lock()
	r.calls++
	conflict := r.calls <= r.conflicts
	r.mu.Unlock()

	if conflict {
		return nil, entity.ErrAllocationConflict
	}
	return r.URLRepository.GetOrCreate(ctx, longURL)
}
