package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makadiyavatsall/reddit-narrative-spread-analysis/pkg/source"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testPost(id, subreddit string, createdUTC int64) source.Post {
	return source.Post{
		ID:         id,
		Source:     source.SourceJSONL,
		Subreddit:  subreddit,
		Author:     "someone",
		CreatedUTC: createdUTC,
		Title:      "a title",
		IngestedAt: time.Now().UTC(),
	}
}

func TestUpsertAndListPosts(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	posts := []source.Post{
		testPost("p2", "news", 200),
		testPost("p1", "worldnews", 100),
		testPost("p3", "news", 300),
	}
	require.NoError(t, s.UpsertPosts(ctx, posts))

	got, err := s.ListPosts(ctx, ListOpts{})
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Ascending creation order regardless of insertion order.
	assert.Equal(t, "p1", got[0].ID)
	assert.Equal(t, "p2", got[1].ID)
	assert.Equal(t, "p3", got[2].ID)
}

func TestUpsertPostIdempotent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	p := testPost("p1", "news", 100)
	require.NoError(t, s.UpsertPost(ctx, &p))

	p.Title = "edited title"
	require.NoError(t, s.UpsertPost(ctx, &p))

	got, err := s.ListPosts(ctx, ListOpts{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "edited title", got[0].Title)
}

func TestListPostsFilters(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	reddit := testPost("r1", "news", 100)
	reddit.Source = source.SourceReddit
	require.NoError(t, s.UpsertPosts(ctx, []source.Post{
		testPost("p1", "news", 100),
		testPost("p2", "worldnews", 200),
		reddit,
	}))

	bySub, err := s.ListPosts(ctx, ListOpts{Subreddit: "news"})
	require.NoError(t, err)
	assert.Len(t, bySub, 2)

	bySource, err := s.ListPosts(ctx, ListOpts{Source: source.SourceReddit})
	require.NoError(t, err)
	require.Len(t, bySource, 1)
	assert.Equal(t, "r1", bySource[0].ID)

	limited, err := s.ListPosts(ctx, ListOpts{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestCountPosts(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	n, err := s.CountPosts(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, s.UpsertPosts(ctx, []source.Post{
		testPost("p1", "news", 100),
		testPost("p2", "news", 200),
		testPost("p3", "worldnews", 300),
	}))

	n, err = s.CountPosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	counts, err := s.CountPostsBySubreddit(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"news": 2, "worldnews": 1}, counts)
}
