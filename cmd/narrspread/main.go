package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string
	logger   = logrus.New()
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "narrspread",
		Short: "Analyze how narratives emerge and spread across Reddit communities",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				level = logrus.InfoLevel
			}
			logger.SetLevel(level)
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(ingestCmd())
	root.AddCommand(fetchCmd())
	root.AddCommand(reportCmd())
	root.AddCommand(serveCmd())

	return root
}

func ingestCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load a line-delimited JSON post dump into the corpus store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(file)
		},
	}

	cmd.Flags().StringVar(&file, "file", "data.jsonl", "path to the JSONL dump")
	return cmd
}

func fetchCmd() *cobra.Command {
	var sources []string

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Acquire posts from configured subreddits into the corpus store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(sources)
		},
	}

	cmd.Flags().StringSliceVar(&sources, "source", nil, "specific sources to fetch (reddit, rss)")
	return cmd
}

func reportCmd() *cobra.Command {
	var (
		minDay     int
		maxDay     int
		name       string
		jsonOutput bool
		notify     bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run the analysis pipeline once and print the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(minDay, maxDay, name, jsonOutput, notify)
		},
	}

	cmd.Flags().IntVar(&minDay, "min-day", -1, "window lower bound in days since first appearance (default: dataset min)")
	cmd.Flags().IntVar(&maxDay, "max-day", -1, "window upper bound in days since first appearance (default: dataset max)")
	cmd.Flags().StringVar(&name, "narrative", "", "narrative to highlight (default: first in sorted order)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	cmd.Flags().BoolVar(&notify, "notify", false, "send the observations digest to configured alert destinations")
	return cmd
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server for the dashboard frontend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}
