package watchlist

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/anatolykoptev/go_viral/internal/engine"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the watchlist in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// DefaultSQLitePath is ~/.go_viral/watchlist.db.
func DefaultSQLitePath() string {
	return filepath.Join(os.Getenv("HOME"), ".go_viral", "watchlist.db")
}

// OpenSQLite opens (or creates) the SQLite watchlist database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		path = DefaultSQLitePath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("watchlist: mkdir %s: %w", filepath.Dir(path), err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("watchlist: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS watchlist (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		video_id  TEXT NOT NULL UNIQUE,
		title     TEXT NOT NULL,
		channel   TEXT NOT NULL,
		url       TEXT NOT NULL,
		thumbnail TEXT,
		views     INTEGER NOT NULL,
		vph       INTEGER NOT NULL,
		keyword   TEXT,
		note      TEXT,
		saved_at  TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("watchlist: init schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Add(ctx context.Context, e Entry) (Entry, error) {
	if e.VideoID == "" {
		return Entry{}, ErrMissingVideoID
	}
	if e.URL == "" {
		e.URL = engine.ShortsURL(e.VideoID)
	}
	e.SavedAt = time.Now().UTC().Truncate(time.Second)

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO watchlist (video_id, title, channel, url, thumbnail, views, vph, keyword, note, saved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(video_id) DO UPDATE SET
		   title=excluded.title, channel=excluded.channel, url=excluded.url,
		   thumbnail=excluded.thumbnail, views=excluded.views, vph=excluded.vph,
		   keyword=excluded.keyword, note=excluded.note, saved_at=excluded.saved_at
		 RETURNING id`,
		e.VideoID, e.Title, e.Channel, e.URL, e.Thumbnail, e.Views, e.VPH,
		e.Keyword, e.Note, e.SavedAt.Format(time.RFC3339),
	).Scan(&e.ID)
	if err != nil {
		return Entry{}, fmt.Errorf("watchlist: insert: %w", err)
	}
	engine.IncrWatchlistWrites()
	return e, nil
}

func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, video_id, title, channel, url, thumbnail, views, vph, keyword, note, saved_at
		 FROM watchlist ORDER BY saved_at DESC, id DESC LIMIT ?`,
		normLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("watchlist: query: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var thumb, keyword, note sql.NullString
		var savedAt string
		if err := rows.Scan(&e.ID, &e.VideoID, &e.Title, &e.Channel, &e.URL, &thumb,
			&e.Views, &e.VPH, &keyword, &note, &savedAt); err != nil {
			return nil, fmt.Errorf("watchlist: scan: %w", err)
		}
		e.Thumbnail = thumb.String
		e.Keyword = keyword.String
		e.Note = note.String
		e.SavedAt, _ = time.Parse(time.RFC3339, savedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) Remove(ctx context.Context, videoID string) (bool, error) {
	if videoID == "" {
		return false, ErrMissingVideoID
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM watchlist WHERE video_id = ?`, videoID)
	if err != nil {
		return false, fmt.Errorf("watchlist: delete: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		engine.IncrWatchlistWrites()
	}
	return n > 0, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
