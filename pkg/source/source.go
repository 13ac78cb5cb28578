package source

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"
)

// SourceType identifies where a post came from.
type SourceType string

const (
	SourceJSONL  SourceType = "jsonl"
	SourceReddit SourceType = "reddit"
	SourceRSS    SourceType = "rss"
)

// Post is one Reddit submission. The analysis pipeline only reads the
// five corpus fields; ID, Source and IngestedAt exist for storage.
type Post struct {
	ID         string     `json:"id" db:"id"`
	Source     SourceType `json:"source" db:"source"`
	Subreddit  string     `json:"subreddit" db:"subreddit"`
	Author     string     `json:"author" db:"author"`
	CreatedUTC int64      `json:"created_utc" db:"created_utc"`
	Title      string     `json:"title" db:"title"`
	Selftext   string     `json:"selftext" db:"selftext"`
	IngestedAt time.Time  `json:"ingested_at" db:"ingested_at"`
}

// CreatedTime returns the post's creation time with Unix-epoch semantics,
// no timezone adjustment.
func (p Post) CreatedTime() time.Time {
	return time.Unix(p.CreatedUTC, 0).UTC()
}

// Source is the interface every corpus loader implements.
type Source interface {
	Name() SourceType
	Collect(ctx context.Context) ([]Post, error)
}

// DerivedID builds a stable post ID for records that carry no native one.
func DerivedID(st SourceType, subreddit, author string, createdUTC int64, title string) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%s|%s|%s|%d|%s", st, subreddit, author, createdUTC, title)))
	return fmt.Sprintf("%s:%s", st, hex.EncodeToString(sum[:]))
}
