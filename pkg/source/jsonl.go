package source

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// JSONL loads posts from a line-delimited JSON dump. Each line is an
// object whose top-level "data" field holds the post record.
type JSONL struct {
	path string
}

// NewJSONL creates a loader for the given dump file.
func NewJSONL(path string) *JSONL {
	return &JSONL{path: path}
}

func (j *JSONL) Name() SourceType { return SourceJSONL }

func (j *JSONL) Collect(ctx context.Context) ([]Post, error) {
	f, err := os.Open(j.path)
	if err != nil {
		return nil, fmt.Errorf("open dump %s: %w", j.path, err)
	}
	defer f.Close()

	posts, err := ReadPosts(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("read dump %s: %w", j.path, err)
	}
	return posts, nil
}

type jsonlRecord struct {
	Data jsonlPost `json:"data"`
}

type jsonlPost struct {
	ID         string  `json:"id"`
	Subreddit  string  `json:"subreddit"`
	Author     string  `json:"author"`
	CreatedUTC float64 `json:"created_utc"`
	Title      *string `json:"title"`
	Selftext   *string `json:"selftext"`
}

// ReadPosts decodes line-delimited JSON records from r. Null or missing
// title/selftext become empty strings. A line that is not valid JSON is
// fatal; blank lines are skipped.
func ReadPosts(ctx context.Context, r io.Reader) ([]Post, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var posts []Post
	now := time.Now().UTC()
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		if lineNo%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec jsonlRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		p := Post{
			Source:     SourceJSONL,
			Subreddit:  rec.Data.Subreddit,
			Author:     rec.Data.Author,
			CreatedUTC: int64(rec.Data.CreatedUTC),
			IngestedAt: now,
		}
		if rec.Data.Title != nil {
			p.Title = *rec.Data.Title
		}
		if rec.Data.Selftext != nil {
			p.Selftext = *rec.Data.Selftext
		}
		if rec.Data.ID != "" {
			p.ID = fmt.Sprintf("%s:%s", SourceJSONL, rec.Data.ID)
		} else {
			p.ID = DerivedID(SourceJSONL, p.Subreddit, p.Author, p.CreatedUTC, p.Title)
		}

		posts = append(posts, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan line %d: %w", lineNo, err)
	}
	return posts, nil
}
