package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/makadiyavatsall/reddit-narrative-spread-analysis/pkg/source"
)

// ListOpts controls post listing.
type ListOpts struct {
	Subreddit string
	Source    source.SourceType
	Limit     int
}

// Store is the corpus persistence interface. Only raw posts are stored;
// aggregates are always recomputed from them.
type Store interface {
	UpsertPost(ctx context.Context, p *source.Post) error
	UpsertPosts(ctx context.Context, posts []source.Post) error
	ListPosts(ctx context.Context, opts ListOpts) ([]source.Post, error)
	CountPosts(ctx context.Context) (int, error)
	CountPostsBySubreddit(ctx context.Context) (map[string]int, error)

	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// New opens a SQLite database and runs migrations.
func New(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertPost(ctx context.Context, p *source.Post) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO posts (id, source, subreddit, author, created_utc, title, selftext, ingested_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			selftext = excluded.selftext,
			ingested_at = excluded.ingested_at
	`, p.ID, p.Source, p.Subreddit, p.Author, p.CreatedUTC, p.Title, p.Selftext, p.IngestedAt)
	if err != nil {
		return fmt.Errorf("upsert post %s: %w", p.ID, err)
	}
	return nil
}

func (s *SQLiteStore) UpsertPosts(ctx context.Context, posts []source.Post) error {
	for i := range posts {
		if err := s.UpsertPost(ctx, &posts[i]); err != nil {
			return err
		}
	}
	return nil
}

// ListPosts returns posts in ascending creation order with the ID as a
// tiebreaker, so every load sees the same encounter order.
func (s *SQLiteStore) ListPosts(ctx context.Context, opts ListOpts) ([]source.Post, error) {
	query := "SELECT * FROM posts WHERE 1=1"
	var args []any

	if opts.Subreddit != "" {
		query += " AND subreddit = ?"
		args = append(args, opts.Subreddit)
	}
	if opts.Source != "" {
		query += " AND source = ?"
		args = append(args, opts.Source)
	}

	query += " ORDER BY created_utc, id"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	var posts []source.Post
	if err := s.db.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (s *SQLiteStore) CountPosts(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM posts"); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) CountPostsBySubreddit(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT subreddit, COUNT(*) as cnt FROM posts GROUP BY subreddit")
	if err != nil {
		return nil, fmt.Errorf("count posts by subreddit: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var sub string
		var cnt int
		if err := rows.Scan(&sub, &cnt); err != nil {
			return nil, err
		}
		counts[sub] = cnt
	}
	return counts, rows.Err()
}
