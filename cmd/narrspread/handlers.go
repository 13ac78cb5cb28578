package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/makadiyavatsall/reddit-narrative-spread-analysis/internal/config"
	"github.com/makadiyavatsall/reddit-narrative-spread-analysis/internal/store"
	"github.com/makadiyavatsall/reddit-narrative-spread-analysis/pkg/alert"
	"github.com/makadiyavatsall/reddit-narrative-spread-analysis/pkg/narrative"
	"github.com/makadiyavatsall/reddit-narrative-spread-analysis/pkg/server"
	"github.com/makadiyavatsall/reddit-narrative-spread-analysis/pkg/source"
	"github.com/makadiyavatsall/reddit-narrative-spread-analysis/pkg/spread"
)

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

// loadDataset reads the full corpus from the store, classifies it, and
// builds the immutable event dataset. This is the once-per-session load;
// everything downstream works on the returned value.
func loadDataset(ctx context.Context, cfg *config.Config, db store.Store) (*spread.Dataset, error) {
	posts, err := db.ListPosts(ctx, store.ListOpts{})
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}

	rules := narrative.NewRuleset(cfg.Narratives)
	dataset := spread.Expand(posts, rules)

	logger.WithFields(map[string]any{
		"posts":      len(posts),
		"events":     len(dataset.Events),
		"narratives": len(dataset.Narratives),
	}).Info("dataset loaded")

	return dataset, nil
}

func buildSources(cfg *config.Config) []source.Source {
	var sources []source.Source

	if cfg.Sources.Reddit.Enabled {
		sources = append(sources, source.NewReddit(
			cfg.Sources.Reddit.ClientID,
			cfg.Sources.Reddit.ClientSecret,
			cfg.Sources.Reddit.Subreddits,
			cfg.Sources.Reddit.Limit,
			logger,
		))
	}
	if cfg.Sources.RSS.Enabled {
		sources = append(sources, source.NewRSS(cfg.Sources.RSS.Subreddits, logger))
	}

	return sources
}

func buildAlertManager(cfg *config.Config) *alert.Manager {
	var notifiers []alert.Notifier

	if cfg.Alerts.Slack.Enabled && cfg.Alerts.Slack.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewSlack(cfg.Alerts.Slack.WebhookURL))
	}
	if cfg.Alerts.Discord.Enabled && cfg.Alerts.Discord.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewDiscord(cfg.Alerts.Discord.WebhookURL))
	}
	if cfg.Alerts.Webhook.Enabled && cfg.Alerts.Webhook.URL != "" {
		notifiers = append(notifiers, alert.NewWebhook(cfg.Alerts.Webhook.URL, cfg.Alerts.Webhook.Secret))
	}

	return alert.NewManager(notifiers)
}

func runIngest(file string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	posts, err := source.NewJSONL(file).Collect(ctx)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", file, err)
	}

	if err := db.UpsertPosts(ctx, posts); err != nil {
		return fmt.Errorf("store posts: %w", err)
	}

	total, err := db.CountPosts(ctx)
	if err != nil {
		return err
	}

	logger.WithFields(map[string]any{
		"file":     file,
		"ingested": len(posts),
		"corpus":   total,
	}).Info("ingest complete")
	return nil
}

func runFetch(filterSources []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	allSources := buildSources(cfg)

	var sources []source.Source
	if len(filterSources) > 0 {
		wanted := make(map[string]bool)
		for _, s := range filterSources {
			wanted[strings.ToLower(strings.TrimSpace(s))] = true
		}
		for _, s := range allSources {
			if wanted[string(s.Name())] {
				sources = append(sources, s)
			}
		}
		if len(sources) == 0 {
			return fmt.Errorf("no matching sources for: %s", strings.Join(filterSources, ", "))
		}
	} else {
		sources = allSources
	}

	if len(sources) == 0 {
		return fmt.Errorf("no sources enabled (see sources section of the config)")
	}

	ctx := context.Background()
	totalPosts := 0

	for _, src := range sources {
		log := logger.WithField("source", src.Name())
		log.Info("fetching")

		posts, err := src.Collect(ctx)
		if err != nil {
			log.WithError(err).Error("fetch failed")
			continue
		}

		if err := db.UpsertPosts(ctx, posts); err != nil {
			log.WithError(err).Error("store failed")
			continue
		}

		log.WithField("posts", len(posts)).Info("fetched")
		totalPosts += len(posts)
	}

	logger.WithFields(map[string]any{
		"posts":   totalPosts,
		"sources": len(sources),
	}).Info("fetch complete")
	return nil
}

// report is the full chart-ready output of one pipeline run.
type report struct {
	Window       spread.Window           `json:"window"`
	Narrative    string                  `json:"narrative"`
	Summary      spread.Summary          `json:"summary"`
	Distribution []spread.NarrativeCount `json:"distribution"`
	TimeSeries   []spread.DayCount       `json:"time_series"`
	PeakDay      int                     `json:"peak_day"`
	Communities  []spread.CommunityCount `json:"communities"`
	Observations spread.Observations     `json:"observations"`
}

func buildReport(d *spread.Dataset, minDay, maxDay int, name string) report {
	window := d.FullWindow()
	if minDay >= 0 {
		window.MinDay = minDay
	}
	if maxDay >= 0 {
		window.MaxDay = maxDay
	}
	if name == "" {
		name = d.DefaultNarrative()
	}

	windowed := spread.FilterWindow(d.Events, window)
	peak, _ := spread.PeakDay(d.Events, name)

	return report{
		Window:       window,
		Narrative:    name,
		Summary:      spread.Summarize(windowed),
		Distribution: spread.Distribution(windowed),
		TimeSeries:   spread.TimeSeries(d.Events, name),
		PeakDay:      peak,
		Communities:  spread.TopCommunities(windowed, name, 10),
		Observations: spread.BuildObservations(d.Events, windowed, name),
	}
}

func runReport(minDay, maxDay int, name string, jsonOutput, notify bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	dataset, err := loadDataset(ctx, cfg, db)
	if err != nil {
		return err
	}

	rep := buildReport(dataset, minDay, maxDay, name)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return err
		}
	} else {
		printReport(rep)
	}

	if notify {
		mgr := buildAlertManager(cfg)
		if !mgr.HasNotifiers() {
			return fmt.Errorf("--notify set but no alert destinations configured")
		}
		digest := &alert.Digest{
			Title:       "Narrative spread digest",
			Narrative:   rep.Narrative,
			TotalEvents: rep.Summary.TotalEvents,
			Statements:  rep.Observations.Statements,
		}
		if rep.Observations.Empty {
			digest.Statements = []string{rep.Observations.Message}
		}
		if err := mgr.Broadcast(ctx, digest); err != nil {
			return fmt.Errorf("send digest: %w", err)
		}
		logger.Info("digest sent")
	}

	return nil
}

func printReport(rep report) {
	fmt.Printf("Window: days %d to %d | Narrative: %s\n\n",
		rep.Window.MinDay, rep.Window.MaxDay, rep.Narrative)

	fmt.Printf("Total amplifications:  %d\n", rep.Summary.TotalEvents)
	fmt.Printf("Active communities:    %d\n", rep.Summary.ActiveSubreddits)
	fmt.Printf("Narratives active:     %d\n\n", rep.Summary.ActiveNarratives)

	if rep.Observations.Empty {
		fmt.Println(rep.Observations.Message)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NARRATIVE\tPOSTS")
	for _, row := range rep.Distribution {
		fmt.Fprintf(w, "%s\t%d\n", row.Narrative, row.Count)
	}
	w.Flush()

	fmt.Printf("\nGrowth of %q (peak at day %d):\n", rep.Narrative, rep.PeakDay)
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DAY\tPOSTS")
	for _, point := range rep.TimeSeries {
		fmt.Fprintf(w, "%d\t%d\n", point.Day, point.Count)
	}
	w.Flush()

	fmt.Println("\nTop communities:")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SUBREDDIT\tPOSTS")
	for _, row := range rep.Communities {
		fmt.Fprintf(w, "%s\t%d\n", row.Subreddit, row.Count)
	}
	w.Flush()

	fmt.Println("\nObservations:")
	for i, stmt := range rep.Observations.Statements {
		fmt.Printf("  %d. %s\n", i+1, stmt)
	}
}

func runServe(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if port == 0 {
		port = cfg.Server.Port
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	dataset, err := loadDataset(context.Background(), cfg, db)
	if err != nil {
		return err
	}

	srv := server.New(dataset, logger, port)
	return srv.ListenAndServe()
}
