package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/feedtime/pkg/config"
	"github.com/umputun/feedtime/pkg/feed"
	"github.com/umputun/feedtime/pkg/repository"
	"github.com/umputun/feedtime/pkg/scheduler"
	"github.com/umputun/feedtime/pkg/timeref"
	"github.com/umputun/feedtime/server"
)

// Opts with all CLI options
type Opts struct {
	Config     string   `short:"c" long:"config" env:"CONFIG" description:"configuration file"`
	Feeds      []string `short:"f" long:"feed" env:"FEEDS" env-delim:"," description:"feed url, overrides configured feeds"`
	Once       bool     `long:"once" description:"fetch feeds once, print found times and exit"`
	IgnoreCase bool     `long:"ignore-case" env:"IGNORE_CASE" description:"case-insensitive matching"`
	Listen     string   `short:"l" long:"listen" env:"LISTEN" description:"listen address, overrides config"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	if opts.NoColor {
		color.NoColor = true
	}
	setupLog(opts.Debug)

	// built-in grammar must compile, nothing else makes sense without it
	if _, err := timeref.Default(); err != nil {
		log.Printf("[ERROR] can't build time matcher: %v", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts, os.Stdout)
	cancel()

	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
	log.Print("[INFO] shutdown complete")
}

// run loads configuration and either makes a single pass over the feeds (--once)
// or runs the scheduler and the HTTP server until ctx is canceled
func run(ctx context.Context, opts Opts, out io.Writer) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	matcher, err := newMatcher(cfg)
	if err != nil {
		return fmt.Errorf("failed to build matcher: %w", err)
	}

	schedCfg := scheduler.Config{
		Feeds:          cfg.FeedURLs(),
		UpdateInterval: cfg.Schedule.UpdateInterval,
		MaxWorkers:     cfg.Schedule.MaxWorkers,
		Retries:        cfg.Schedule.Retries,
		SnippetWidth:   cfg.Extraction.SnippetWidth,
	}

	if opts.Once {
		// nothing is stored in this mode
		sched := scheduler.NewScheduler(newParser(cfg), nil, nil, matcher, schedCfg)
		return printReports(out, sched.UpdateNow(ctx))
	}

	log.Printf("[INFO] starting feedtime version %s, %d feeds", revision, len(schedCfg.Feeds))

	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			log.Printf("[WARN] failed to close database: %v", err)
		}
	}()

	sched := scheduler.NewScheduler(newParser(cfg), repos.Mention, repos.Run, matcher, schedCfg)
	sched.Start(ctx)
	defer sched.Stop()

	srv := server.New(server.Config{
		Listen:  cfg.Server.Listen,
		Timeout: cfg.Server.Timeout,
		BaseURL: cfg.Server.BaseURL,
		Version: revision,
		Debug:   opts.Debug,
	}, repos.Mention, repos.Run, sched, matcher)

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// loadConfig reads the config file, if any, and applies command line overrides
func loadConfig(opts Opts) (*config.Config, error) {
	cfg := config.Default()
	if opts.Config != "" {
		var err error
		if cfg, err = config.Load(opts.Config); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if len(opts.Feeds) > 0 {
		if err := cfg.SetFeeds(opts.Feeds); err != nil {
			return nil, fmt.Errorf("invalid feed: %w", err)
		}
	}
	if opts.IgnoreCase {
		cfg.Extraction.IgnoreCase = true
	}
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}
	return cfg, nil
}

func newMatcher(cfg *config.Config) (*timeref.Matcher, error) {
	if cfg.Extraction.IgnoreCase {
		log.Printf("[WARN] case-insensitive matching enabled, expect false positives")
		return timeref.New(timeref.WithIgnoreCase())
	}
	return timeref.Default()
}

func newParser(cfg *config.Config) scheduler.Parser {
	p := feed.NewParser(feed.ParserConfig{
		Timeout:     cfg.Fetch.Timeout,
		UserAgent:   cfg.Fetch.UserAgent,
		MinInterval: cfg.Fetch.MinInterval,
		StripHTML:   cfg.Fetch.StripHTML,
	})
	if cfg.Fetch.CacheTTL <= 0 {
		return p
	}
	return feed.NewCachedParser(p, cfg.Fetch.CacheTTL)
}

// printReports writes found times per feed followed by counts.
// Fails only if no feed could be read.
func printReports(out io.Writer, reports []scheduler.Report) error {
	timeColor := color.New(color.FgGreen, color.Bold)
	errColor := color.New(color.FgHiRed)

	failed := 0
	for _, rep := range reports {
		if rep.Run.Error != "" {
			failed++
			fmt.Fprintf(out, "%s %s: %s\n", errColor.Sprint("failed"), rep.Run.FeedURL, rep.Run.Error)
			continue
		}
		for _, m := range rep.Mentions {
			fmt.Fprintf(out, "%s\t%s\t%s\n", timeColor.Sprint(m.Time), m.Kind, m.Title)
		}
		fmt.Fprintf(out, "%s: %d entries, %d matched, %d extracted\n",
			rep.Run.FeedURL, rep.Run.Total, rep.Run.Matched, rep.Run.Extracted)
	}

	if len(reports) > 0 && failed == len(reports) {
		return errors.New("all feeds failed")
	}
	return nil
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Out(io.Discard), lgr.Err(io.Discard)}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
