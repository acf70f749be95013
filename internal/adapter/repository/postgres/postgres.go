package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/html-url-shortener/internal/entity"
	"github.com/vadimbarashkov/html-url-shortener/pkg/base62"
)

const (
	uniqueViolationErrCode      = "23505"
	serializationFailureErrCode = "40001"
	deadlockDetectedErrCode     = "40P01"
)

func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.SQLState()
	}
	return ""
}

// isConflictError reports whether err is caused by a concurrent writer and
// the transaction can be retried.
func isConflictError(err error) bool {
	switch pgErrCode(err) {
	case uniqueViolationErrCode, serializationFailureErrCode, deadlockDetectedErrCode:
		return true
	default:
		return false
	}
}

func classifyError(err error) error {
	if isConflictError(err) {
		return fmt.Errorf("%w: %w", entity.ErrAllocationConflict, err)
	}
	return fmt.Errorf("%w: %w", entity.ErrStorageUnavailable, err)
}

type urlDB struct {
	ID        int64     `db:"id"`
	LongURL   string    `db:"long_url"`
	ShortCode string    `db:"short_code"`
	CreatedAt time.Time `db:"created_at"`
}

func (u *urlDB) toEntity() *entity.URL {
	return &entity.URL{
		ID:        u.ID,
		LongURL:   u.LongURL,
		ShortCode: u.ShortCode,
		CreatedAt: u.CreatedAt,
	}
}

type URLRepository struct {
	db *sqlx.DB
}

func NewURLRepository(db *sqlx.DB) *URLRepository {
	return &URLRepository{db: db}
}

// GetOrCreate returns the record for longURL, creating and finalizing it in a
// single transaction when it does not exist yet. A record inserted by a
// concurrent transaction is returned instead of a new one.
func (r *URLRepository) GetOrCreate(ctx context.Context, longURL string) (*entity.URL, error) {
	const op = "adapter.repository.postgres.URLRepository.GetOrCreate"

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, classifyError(err))
	}
	defer tx.Rollback()

	url, err := r.getOrCreate(ctx, tx, longURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, classifyError(err))
	}

	return url.toEntity(), nil
}

func (r *URLRepository) getOrCreate(ctx context.Context, tx *sqlx.Tx, longURL string) (*urlDB, error) {
	url, err := r.retrieveByLongURL(ctx, tx, longURL)
	if err == nil {
		return url, nil
	}
	if !errors.Is(err, entity.ErrURLNotFound) {
		return nil, err
	}

	const insertQuery = `INSERT INTO urls(long_url) VALUES ($1)
		ON CONFLICT ((md5(long_url))) DO NOTHING
		RETURNING id, created_at`

	created := urlDB{LongURL: longURL}

	if err := tx.GetContext(ctx, &created, insertQuery, longURL); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("failed to insert into urls table: %w", classifyError(err))
		}

		// Another transaction committed the same long url after our lookup.
		url, err := r.retrieveByLongURL(ctx, tx, longURL)
		if err != nil {
			if errors.Is(err, entity.ErrURLNotFound) {
				return nil, entity.ErrAllocationConflict
			}
			return nil, err
		}

		return url, nil
	}

	const updateQuery = `UPDATE urls SET short_code = $1 WHERE id = $2`

	created.ShortCode = base62.Encode(uint64(created.ID))

	if _, err := tx.ExecContext(ctx, updateQuery, created.ShortCode, created.ID); err != nil {
		return nil, fmt.Errorf("failed to set short code: %w", classifyError(err))
	}

	return &created, nil
}

func (r *URLRepository) retrieveByLongURL(ctx context.Context, tx *sqlx.Tx, longURL string) (*urlDB, error) {
	const query = `SELECT id, long_url, short_code, created_at FROM urls
		WHERE long_url = $1 AND md5(long_url) = md5($1) AND short_code IS NOT NULL`

	var url urlDB

	if err := tx.GetContext(ctx, &url, query, longURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrURLNotFound
		}

		return nil, fmt.Errorf("failed to get row from urls table: %w", classifyError(err))
	}

	return &url, nil
}

// RetrieveByShortCode returns the finalized record with the given short code.
func (r *URLRepository) RetrieveByShortCode(ctx context.Context, shortCode string) (*entity.URL, error) {
	const op = "adapter.repository.postgres.URLRepository.RetrieveByShortCode"
	const query = `SELECT id, long_url, short_code, created_at FROM urls WHERE short_code = $1`

	var url urlDB

	if err := r.db.GetContext(ctx, &url, query, shortCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from urls table: %w", op, classifyError(err))
	}

	return url.toEntity(), nil
}
