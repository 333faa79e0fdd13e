package history

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rm-hull/nl-fuel-prices/internal/models"
)

const latestSampleSQL = `SELECT recorded_at FROM price_samples WHERE location_key = ? ORDER BY recorded_at DESC LIMIT 1`
const insertSampleSQL = `INSERT INTO price_samples (location_key, recorded_at, price, station_id) VALUES (?, ?, ?, ?)`
const pruneSamplesSQL = `DELETE FROM price_samples WHERE location_key = ? AND recorded_at < ?`
const windowSamplesSQL = `SELECT recorded_at, price, station_id FROM price_samples WHERE location_key = ? AND recorded_at BETWEEN ? AND ? ORDER BY recorded_at`
const allSamplesSQL = `SELECT recorded_at, price, station_id FROM price_samples WHERE location_key = ? ORDER BY recorded_at`
const forgetSamplesSQL = `DELETE FROM price_samples WHERE location_key = ?`

type sqliteStore struct {
	db  *sql.DB
	now Clock
}

// NewSQLiteStore expects a migrated database. Timestamps are stored as unix milliseconds.
func NewSQLiteStore(db *sql.DB, now Clock) Store {
	if now == nil {
		now = time.Now
	}
	return &sqliteStore{db: db, now: now}
}

func (store *sqliteStore) Record(ctx context.Context, locationKey string, sample models.PriceSample) (stored bool, err error) {
	tx, err := store.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Printf("error rolling back transaction: %v", rbErr)
			}
		}
	}()

	var latest int64
	err = tx.QueryRowContext(ctx, latestSampleSQL, locationKey).Scan(&latest)
	switch {
	case err == sql.ErrNoRows:
		err = nil
		stored = true
	case err != nil:
		return false, fmt.Errorf("failed to query latest sample: %w", err)
	default:
		stored = sample.Timestamp.Sub(time.UnixMilli(latest)) >= DEDUPE_WINDOW
	}

	if stored {
		if _, err = tx.ExecContext(ctx, insertSampleSQL, locationKey, sample.Timestamp.UnixMilli(), sample.Price.String(), sample.StationID); err != nil {
			return false, fmt.Errorf("failed to insert sample: %w", err)
		}
	}

	cutoff := store.now().Add(-RETENTION)
	if _, err = tx.ExecContext(ctx, pruneSamplesSQL, locationKey, cutoff.UnixMilli()); err != nil {
		return false, fmt.Errorf("failed to prune samples: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return stored, nil
}

func (store *sqliteStore) PriceApproximatelyDaysAgo(ctx context.Context, locationKey string, daysAgo, toleranceDays float64) (decimal.Decimal, bool, error) {
	target := store.now().Add(-days(daysAgo))
	tolerance := days(toleranceDays)

	samples, err := store.query(ctx, windowSamplesSQL, locationKey, target.Add(-tolerance).UnixMilli(), target.Add(tolerance).UnixMilli())
	if err != nil {
		return decimal.Zero, false, err
	}

	price, ok := closest(samples, target, tolerance)
	return price, ok, nil
}

func (store *sqliteStore) Samples(ctx context.Context, locationKey string) ([]models.PriceSample, error) {
	return store.query(ctx, allSamplesSQL, locationKey)
}

func (store *sqliteStore) Forget(ctx context.Context, locationKey string) error {
	if _, err := store.db.ExecContext(ctx, forgetSamplesSQL, locationKey); err != nil {
		return fmt.Errorf("failed to delete samples: %w", err)
	}
	return nil
}

func (store *sqliteStore) Close() error {
	return store.db.Close()
}

func (store *sqliteStore) Ping() error {
	return store.db.Ping()
}

func (store *sqliteStore) query(ctx context.Context, query string, args ...any) ([]models.PriceSample, error) {
	rows, err := store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute sample query: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("failed to close rows: %v", err)
		}
	}()

	samples := make([]models.PriceSample, 0)
	for rows.Next() {
		var recordedAt int64
		var sample models.PriceSample
		if err := rows.Scan(&recordedAt, &sample.Price, &sample.StationID); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		sample.Timestamp = time.UnixMilli(recordedAt).UTC()
		samples = append(samples, sample)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}

	return samples, nil
}
