package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aurumview/metals-backend/internal/models"
)

// DailyPriceRepo archives one row per market date in Postgres.
//
// Schema:
//
//	CREATE TABLE daily_prices (
//	    date       DATE PRIMARY KEY,
//	    ts         TIMESTAMPTZ NOT NULL,
//	    gold_oz    DOUBLE PRECISION NOT NULL,
//	    silver_oz  DOUBLE PRECISION NOT NULL,
//	    source     TEXT NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
type DailyPriceRepo struct {
	pool *pgxpool.Pool
}

func NewDailyPriceRepo(pool *pgxpool.Pool) *DailyPriceRepo {
	return &DailyPriceRepo{pool: pool}
}

// Upsert inserts or replaces the row for rec.Date.
func (r *DailyPriceRepo) Upsert(ctx context.Context, rec models.DailyPrice) (*models.DailyPrice, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO daily_prices (date, ts, gold_oz, silver_oz, source, updated_at)
		 VALUES ($1, $2, $3, $4, $5, NOW())
		 ON CONFLICT (date) DO UPDATE SET
		     ts = EXCLUDED.ts,
		     gold_oz = EXCLUDED.gold_oz,
		     silver_oz = EXCLUDED.silver_oz,
		     source = EXCLUDED.source,
		     updated_at = NOW()
		 RETURNING date, ts, gold_oz, silver_oz, source`,
		rec.Date, time.UnixMilli(rec.Timestamp).UTC(), rec.GoldOz, rec.SilverOz, rec.Source,
	)
	return scanDaily(row)
}

func (r *DailyPriceRepo) GetByDate(ctx context.Context, date string) (*models.DailyPrice, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT date, ts, gold_oz, silver_oz, source FROM daily_prices WHERE date = $1`,
		date,
	)
	rec, err := scanDaily(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (r *DailyPriceRepo) GetLatest(ctx context.Context) (*models.DailyPrice, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT date, ts, gold_oz, silver_oz, source FROM daily_prices ORDER BY date DESC LIMIT 1`,
	)
	rec, err := scanDaily(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

// GetHistory returns up to limit rows, ascending by date.
func (r *DailyPriceRepo) GetHistory(ctx context.Context, limit int) ([]models.DailyPrice, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT date, ts, gold_oz, silver_oz, source FROM daily_prices
		 ORDER BY date ASC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.DailyPrice
	for rows.Next() {
		rec, err := scanDaily(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// --- scan helpers ---

type scannable interface {
	Scan(dest ...any) error
}

func scanDaily(row scannable) (*models.DailyPrice, error) {
	var rec models.DailyPrice
	var date, ts time.Time
	if err := row.Scan(&date, &ts, &rec.GoldOz, &rec.SilverOz, &rec.Source); err != nil {
		return nil, err
	}
	rec.Date = date.Format("2006-01-02")
	rec.Timestamp = ts.UTC().UnixMilli()
	return &rec, nil
}
