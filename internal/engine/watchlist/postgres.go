package watchlist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anatolykoptev/go_viral/internal/engine"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgSchema = `CREATE TABLE IF NOT EXISTS watchlist (
	id        BIGSERIAL PRIMARY KEY,
	video_id  TEXT NOT NULL UNIQUE,
	title     TEXT NOT NULL,
	channel   TEXT NOT NULL,
	url       TEXT NOT NULL,
	thumbnail TEXT NOT NULL DEFAULT '',
	views     BIGINT NOT NULL,
	vph       BIGINT NOT NULL,
	keyword   TEXT NOT NULL DEFAULT '',
	note      TEXT NOT NULL DEFAULT '',
	saved_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PGStore keeps the watchlist in Postgres.
type PGStore struct {
	pool *pgxpool.Pool
}

// ConnectPostgres creates a pgx pool and ensures the schema exists.
func ConnectPostgres(ctx context.Context, databaseURL string) (*PGStore, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	config.MaxConns = 5
	config.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("watchlist schema: %w", err)
	}

	slog.Info("watchlist postgres connected", slog.String("addr", config.ConnConfig.Host))
	return &PGStore{pool: pool}, nil
}

func (s *PGStore) Add(ctx context.Context, e Entry) (Entry, error) {
	if e.VideoID == "" {
		return Entry{}, ErrMissingVideoID
	}
	if e.URL == "" {
		e.URL = engine.ShortsURL(e.VideoID)
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO watchlist (video_id, title, channel, url, thumbnail, views, vph, keyword, note, saved_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		 ON CONFLICT (video_id) DO UPDATE SET
		   title = EXCLUDED.title, channel = EXCLUDED.channel, url = EXCLUDED.url,
		   thumbnail = EXCLUDED.thumbnail, views = EXCLUDED.views, vph = EXCLUDED.vph,
		   keyword = EXCLUDED.keyword, note = EXCLUDED.note, saved_at = now()
		 RETURNING id, saved_at`,
		e.VideoID, e.Title, e.Channel, e.URL, e.Thumbnail, e.Views, e.VPH, e.Keyword, e.Note,
	).Scan(&e.ID, &e.SavedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("watchlist: insert: %w", err)
	}
	engine.IncrWatchlistWrites()
	return e, nil
}

func (s *PGStore) List(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, video_id, title, channel, url, thumbnail, views, vph, keyword, note, saved_at
		 FROM watchlist ORDER BY saved_at DESC, id DESC LIMIT $1`,
		normLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("watchlist: query: %w", err)
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Entry, error) {
		var e Entry
		var savedAt time.Time
		err := row.Scan(&e.ID, &e.VideoID, &e.Title, &e.Channel, &e.URL, &e.Thumbnail,
			&e.Views, &e.VPH, &e.Keyword, &e.Note, &savedAt)
		e.SavedAt = savedAt.UTC()
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("watchlist: scan: %w", err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

func (s *PGStore) Remove(ctx context.Context, videoID string) (bool, error) {
	if videoID == "" {
		return false, ErrMissingVideoID
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM watchlist WHERE video_id = $1`, videoID)
	if err != nil {
		return false, fmt.Errorf("watchlist: delete: %w", err)
	}
	if tag.RowsAffected() > 0 {
		engine.IncrWatchlistWrites()
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PGStore) Close() error {
	s.pool.Close()
	return nil
}
