package source

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sirupsen/logrus"
)

// RSS acquires posts from public subreddit Atom feeds. It needs no
// credentials and serves as the fallback when the API source is not
// configured.
type RSS struct {
	client     *http.Client
	parser     *gofeed.Parser
	subreddits []string
	log        logrus.FieldLogger
}

// NewRSS creates a new subreddit feed source.
func NewRSS(subreddits []string, log logrus.FieldLogger) *RSS {
	return &RSS{
		client:     &http.Client{Timeout: 30 * time.Second},
		parser:     gofeed.NewParser(),
		subreddits: subreddits,
		log:        log,
	}
}

func (r *RSS) Name() SourceType { return SourceRSS }

func (r *RSS) Collect(ctx context.Context) ([]Post, error) {
	var all []Post
	for _, sub := range r.subreddits {
		posts, err := r.collectSubreddit(ctx, sub)
		if err != nil {
			r.log.WithError(err).WithField("subreddit", sub).Warn("feed fetch failed")
			continue
		}
		all = append(all, posts...)
	}
	return all, nil
}

func (r *RSS) collectSubreddit(ctx context.Context, subreddit string) ([]Post, error) {
	feedURL := fmt.Sprintf("https://www.reddit.com/r/%s/new/.rss", subreddit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create feed request r/%s: %w", subreddit, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed r/%s: %w", subreddit, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed r/%s status %d", subreddit, resp.StatusCode)
	}

	parsed, err := r.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed r/%s: %w", subreddit, err)
	}

	now := time.Now().UTC()
	var posts []Post
	for _, entry := range parsed.Items {
		published := now
		if entry.PublishedParsed != nil {
			published = entry.PublishedParsed.UTC()
		} else if entry.UpdatedParsed != nil {
			published = entry.UpdatedParsed.UTC()
		}

		author := ""
		if entry.Author != nil {
			author = entry.Author.Name
		}

		p := Post{
			Source:     SourceRSS,
			Subreddit:  subreddit,
			Author:     author,
			CreatedUTC: published.Unix(),
			Title:      entry.Title,
			Selftext:   entry.Description,
			IngestedAt: now,
		}
		if entry.GUID != "" {
			p.ID = fmt.Sprintf("%s:%s", SourceRSS, entry.GUID)
		} else {
			p.ID = DerivedID(SourceRSS, p.Subreddit, p.Author, p.CreatedUTC, p.Title)
		}

		posts = append(posts, p)
	}

	return posts, nil
}
