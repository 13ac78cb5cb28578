package store

const schema = `
CREATE TABLE IF NOT EXISTS posts (
    id          TEXT PRIMARY KEY,
    source      TEXT NOT NULL,
    subreddit   TEXT NOT NULL,
    author      TEXT NOT NULL,
    created_utc INTEGER NOT NULL,
    title       TEXT NOT NULL DEFAULT '',
    selftext    TEXT NOT NULL DEFAULT '',
    ingested_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_posts_subreddit ON posts(subreddit);
CREATE INDEX IF NOT EXISTS idx_posts_created ON posts(created_utc);
CREATE INDEX IF NOT EXISTS idx_posts_source ON posts(source);
`
